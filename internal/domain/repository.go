package domain

import (
	"context"
)

// KeyValueStore defines the persistence interface the prototype state and
// session records are kept behind
type KeyValueStore interface {
	// Get returns the value stored under key.
	// found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error
}

// ReceiptRepository defines the interface for session receipt persistence operations
type ReceiptRepository interface {
	// Save stores the receipt snapshot for a session, replacing any previous one
	Save(ctx context.Context, sessionID string, receipt *ReceiptData) error

	// Get retrieves the receipt snapshot of a session.
	// Returns ErrReceiptNotFound when the session has none.
	Get(ctx context.Context, sessionID string) (*ReceiptData, error)
}
