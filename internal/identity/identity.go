// Package identity resolves the bearer token in a directive scope to the
// linked account behind it.
//
// Tokens are never stored in clear text: SQLiteStore keys linked_accounts
// by the SHA-256 hash of the token.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
)

// ErrNotFound is returned when no account is linked to a token.
var ErrNotFound = errors.New("identity: no linked account")

// ErrInvalidAssociation is returned when an association lacks required fields.
var ErrInvalidAssociation = errors.New("identity: invalid association")

// Association is the account a bearer token resolves to: the client's
// device endpoint and the credentials used to reach it.
type Association struct {
	UserID      string `json:"user_id"`
	EndpointURL string `json:"endpoint_url"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"-"`
}

// Store looks up associations by bearer token.
type Store interface {
	// Lookup returns the association for token, or ErrNotFound.
	Lookup(ctx context.Context, token string) (*Association, error)
}

// HashToken returns the hex SHA-256 of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// MemoryStore is an in-process Store keyed by token hash.
//
// Thread Safety: all methods are safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Association
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Association)}
}

// Link associates token with an account, replacing any previous link.
func (s *MemoryStore) Link(token string, assoc Association) error {
	if token == "" || assoc.UserID == "" || assoc.EndpointURL == "" {
		return ErrInvalidAssociation
	}
	s.mu.Lock()
	s.accounts[HashToken(token)] = assoc
	s.mu.Unlock()
	return nil
}

// Lookup returns a copy of the association for token.
func (s *MemoryStore) Lookup(ctx context.Context, token string) (*Association, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	assoc, ok := s.accounts[HashToken(token)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &assoc, nil
}
