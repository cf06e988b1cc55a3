package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore
type kvStore struct {
	db *DB
}

// NewKVStore creates a new key/value store backed by the prototype_kv table
func NewKVStore(db *DB) domain.KeyValueStore {
	return &kvStore{db: db}
}

// Get retrieves the value stored under key
func (r *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM prototype_kv
		WHERE key = $1
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, true, nil
}

// Set overwrites the value stored under key
func (r *kvStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO prototype_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}
