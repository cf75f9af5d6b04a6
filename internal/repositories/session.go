package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionRepository is a sqlite-backed key-value store for session state
// (token and cached identity fields). Keys are upserted; a missing key
// reads back as the empty string rather than an error, matching what the
// session layer expects from durable storage.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the stored value for key, or "" when the key is absent.
func (r *SessionRepository) Get(key string) (string, error) {
	query := `SELECT value FROM session_store WHERE key = ?`

	var value string
	err := r.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session key %q: %w", key, err)
	}
	return value, nil
}

// Set upserts one key.
func (r *SessionRepository) Set(key, value string) error {
	query := `
		INSERT INTO session_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store session key %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (r *SessionRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM session_store WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete session key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session delete: %w", err)
	}
	return nil
}

// Clear wipes all session state.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM session_store`); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}
