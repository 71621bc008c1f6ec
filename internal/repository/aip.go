package repository

import (
	"context"
	"time"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// StatusUpdate describes a conditional status transition. The update applies
// only while the stored status is still one of From; the caller learns via
// the boolean result whether it won the transition. This is the single
// compare-and-swap point that makes concurrent check-then-act safe without
// row locks.
type StatusUpdate struct {
	AipID string
	From  []model.AipStatus
	To    model.AipStatus
	Now   time.Time

	// SetSubmittedAt / SetPublishedAt stamp the matching timestamp column
	// with Now as part of the same write.
	SetSubmittedAt bool
	SetPublishedAt bool
}

// AipRepository defines data access for planning documents using SQL queries
// only. No business logic here; strictly persistence operations.
type AipRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, aip *model.Aip) (*model.Aip, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Aip, error)

	// List returns a paginated list of documents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Aip], error)

	// UpdateStatusIf performs the conditional transition described by u.
	// It returns false (and no error) when the stored status no longer
	// matches any of u.From, meaning a concurrent writer got there first.
	UpdateStatusIf(ctx context.Context, u StatusUpdate) (bool, error)
}
