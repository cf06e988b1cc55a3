package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// receiptKeyPrefix namespaces receipts per session, e.g. "receiptData:3f1c..."
const receiptKeyPrefix = "receiptData:"

// receiptRepository implements domain.ReceiptRepository on top of a key/value store
type receiptRepository struct {
	store domain.KeyValueStore
}

// NewReceiptRepository creates a receipt repository that keeps JSON snapshots in store
func NewReceiptRepository(store domain.KeyValueStore) domain.ReceiptRepository {
	return &receiptRepository{store: store}
}

// ReceiptKey returns the store key of a session receipt
func ReceiptKey(sessionID string) string {
	return receiptKeyPrefix + sessionID
}

// Save stores the receipt snapshot for a session
func (r *receiptRepository) Save(ctx context.Context, sessionID string, receipt *domain.ReceiptData) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	if err := r.store.Set(ctx, ReceiptKey(sessionID), string(payload)); err != nil {
		return fmt.Errorf("failed to store receipt: %w", err)
	}

	return nil
}

// Get retrieves the receipt snapshot of a session
func (r *receiptRepository) Get(ctx context.Context, sessionID string) (*domain.ReceiptData, error) {
	raw, found, err := r.store.Get(ctx, ReceiptKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	if !found {
		return nil, domain.ErrReceiptNotFound
	}

	var receipt domain.ReceiptData
	if err := json.Unmarshal([]byte(raw), &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}

	return &receipt, nil
}
