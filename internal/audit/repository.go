// Package audit records every handled directive in the audit_logs table
// and lists them back for the admin API.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded directive outcome.
type Entry struct {
	ID             string    `json:"id"`
	PayloadVersion string    `json:"payload_version"`
	Namespace      string    `json:"namespace"`
	Name           string    `json:"name"`
	EndpointID     string    `json:"endpoint_id,omitempty"`
	MessageID      string    `json:"message_id,omitempty"`
	Outcome        string    `json:"outcome"`
	ErrorType      string    `json:"error_type,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Filter controls which entries to return.
type Filter struct {
	Namespace  string // optional: filter by directive namespace
	Name       string // optional: filter by directive name
	EndpointID string // optional: filter by targeted endpoint
	Outcome    string // optional: handled, rejected or failed
	Limit      int    // default 50, max 200
	Offset     int    // pagination offset
}

// ListResult contains the paginated entries.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the interface for audit log operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit log repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// timeFormat keeps millisecond ordering within the same second.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Create inserts a new entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, payload_version, namespace, name, endpoint_id, message_id,
		                         outcome, error_type, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PayloadVersion, entry.Namespace, entry.Name,
		nullableString(entry.EndpointID), nullableString(entry.MessageID),
		entry.Outcome, nullableString(entry.ErrorType), entry.DurationMS,
		entry.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting audit log: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns entries matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) { //nolint:gocognit,gocyclo // dynamic query builder: WHERE clause assembly from filter fields
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for audit log queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	for _, c := range []struct {
		column string
		value  string
	}{
		{"namespace", filter.Namespace},
		{"name", filter.Name},
		{"endpoint_id", filter.EndpointID},
		{"outcome", filter.Outcome},
	} {
		if c.value != "" {
			conditions = append(conditions, c.column+" = ?")
			args = append(args, c.value)
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", where) //nolint:gosec // WHERE built from fixed column names
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit logs: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from fixed column names
		`SELECT id, payload_version, namespace, name, endpoint_id, message_id,
		        outcome, error_type, duration_ms, created_at
		 FROM audit_logs %s ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit logs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var endpointID, messageID, errorType sql.NullString
		var createdAt string

		if err := rows.Scan(&e.ID, &e.PayloadVersion, &e.Namespace, &e.Name,
			&endpointID, &messageID, &e.Outcome, &errorType, &e.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit log: %w", err)
		}
		e.EndpointID = endpointID.String
		e.MessageID = messageID.String
		e.ErrorType = errorType.String

		t, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			t, err = time.Parse(time.RFC3339, createdAt)
			if err != nil {
				return nil, fmt.Errorf("parsing audit log timestamp %q: %w", createdAt, err)
			}
		}
		e.CreatedAt = t.UTC()

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit logs: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}
