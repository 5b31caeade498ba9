package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLiteStore implements Store over the linked_accounts table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Lookup returns the association for token.
func (s *SQLiteStore) Lookup(ctx context.Context, token string) (*Association, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var assoc Association
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, endpoint_url, username, password
		 FROM linked_accounts WHERE token_hash = ?`,
		HashToken(token),
	).Scan(&assoc.UserID, &assoc.EndpointURL, &assoc.Username, &assoc.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying linked account: %w", err)
	}
	return &assoc, nil
}

// Link stores the association for token, replacing any previous link.
func (s *SQLiteStore) Link(ctx context.Context, token string, assoc Association) error {
	if token == "" || assoc.UserID == "" || assoc.EndpointURL == "" {
		return ErrInvalidAssociation
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO linked_accounts (token_hash, user_id, endpoint_url, username, password)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(token_hash) DO UPDATE SET
		     user_id = excluded.user_id,
		     endpoint_url = excluded.endpoint_url,
		     username = excluded.username,
		     password = excluded.password`,
		HashToken(token), assoc.UserID, assoc.EndpointURL, assoc.Username, assoc.Password,
	)
	if err != nil {
		return fmt.Errorf("linking account: %w", err)
	}
	return nil
}

// Unlink removes every token linked to userID and reports how many went.
func (s *SQLiteStore) Unlink(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, ErrInvalidAssociation
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM linked_accounts WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("unlinking account: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
