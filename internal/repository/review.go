package repository

import (
	"context"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// ReviewLedger is the append-only log of reviewer actions. Entries are never
// edited or deleted. Ordering is (created_at DESC, seq DESC); seq is a
// store-assigned monotonic sequence that gives racing appends a strict order
// even on equal timestamps.
type ReviewLedger interface {
	// Append inserts a new ledger entry and returns it with the
	// store-assigned sequence number.
	Append(ctx context.Context, entry *model.ReviewEntry) (*model.ReviewEntry, error)

	// ListByAip returns all entries for a document, newest first.
	ListByAip(ctx context.Context, aipID string) ([]model.ReviewEntry, error)

	// Latest returns the most recent entry for a document, or nil when the
	// ledger is empty for it.
	Latest(ctx context.Context, aipID string) (*model.ReviewEntry, error)
}
