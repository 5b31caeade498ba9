package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Repository defines the interface for appliance persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	Source

	// GetByID retrieves an appliance by its identifier.
	// Returns ErrApplianceNotFound if the appliance does not exist.
	GetByID(ctx context.Context, id string) (*Record, error)

	// Create appends an appliance to the end of the catalog order.
	// Returns ErrApplianceExists if the ID is already taken.
	Create(ctx context.Context, record *Record) error

	// Delete removes an appliance by ID.
	// Returns ErrApplianceNotFound if the appliance does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository over the appliances table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open, migrated SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectAppliances = `
	SELECT appliance_id, manufacturer_name, model_name, version,
		friendly_name, friendly_description, is_reachable,
		actions, additional_details
	FROM appliances`

// List retrieves all appliances in catalog order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, selectAppliances+` ORDER BY sort_order, appliance_id`)
	if err != nil {
		return nil, fmt.Errorf("querying appliances: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appliance: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appliances: %w", err)
	}
	return records, nil
}

// GetByID retrieves an appliance by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, selectAppliances+` WHERE appliance_id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplianceNotFound
		}
		return nil, fmt.Errorf("querying appliance by id: %w", err)
	}
	return rec, nil
}

// Create inserts a new appliance after every existing one.
func (r *SQLiteRepository) Create(ctx context.Context, record *Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	actions := record.Actions
	if actions == nil {
		actions = []string{}
	}
	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("marshalling actions: %w", err)
	}

	details := record.AdditionalDetails
	if details == nil {
		details = Details{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshalling additional details: %w", err)
	}

	version := record.Version
	if version == "" {
		version = "1"
	}

	query := `
		INSERT INTO appliances (
			appliance_id, manufacturer_name, model_name, version,
			friendly_name, friendly_description, is_reachable,
			actions, additional_details, sort_order
		) VALUES (
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM appliances)
		)`

	_, err = r.db.ExecContext(ctx, query,
		record.ApplianceID,
		record.ManufacturerName,
		record.ModelName,
		version,
		record.FriendlyName,
		record.FriendlyDescription,
		boolToInt(record.IsReachable),
		string(actionsJSON),
		string(detailsJSON),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrApplianceExists
		}
		return fmt.Errorf("inserting appliance: %w", err)
	}
	return nil
}

// Delete removes an appliance by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM appliances WHERE appliance_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting appliance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrApplianceNotFound
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(scanner rowScanner) (*Record, error) {
	var rec Record
	var reachable int
	var actionsJSON, detailsJSON string

	err := scanner.Scan(
		&rec.ApplianceID,
		&rec.ManufacturerName,
		&rec.ModelName,
		&rec.Version,
		&rec.FriendlyName,
		&rec.FriendlyDescription,
		&reachable,
		&actionsJSON,
		&detailsJSON,
	)
	if err != nil {
		return nil, err
	}

	rec.IsReachable = reachable != 0
	if err := json.Unmarshal([]byte(actionsJSON), &rec.Actions); err != nil {
		return nil, fmt.Errorf("unmarshalling actions: %w", err)
	}
	if err := json.Unmarshal([]byte(detailsJSON), &rec.AdditionalDetails); err != nil {
		return nil, fmt.Errorf("unmarshalling additional details: %w", err)
	}
	rec.normalise()
	return &rec, nil
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
