package repository

import (
	"context"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// FeedbackPatch is a moderation patch; nil fields are left unchanged.
type FeedbackPatch struct {
	Body     *string
	Kind     *model.FeedbackKind
	IsPublic *bool
}

// FeedbackRepository defines data access for the feedback store. Rows are
// append-only apart from moderation patches; DeleteByIDs is the only
// row-removing operation and is driven by the threading engine's cascade.
type FeedbackRepository interface {
	// Create inserts a new feedback item and returns the stored row.
	Create(ctx context.Context, item *model.FeedbackItem) (*model.FeedbackItem, error)

	// FindByID returns a feedback item by its ID.
	FindByID(ctx context.Context, id string) (*model.FeedbackItem, error)

	// ListChildren returns the direct replies of an item, oldest first.
	ListChildren(ctx context.Context, parentID string) ([]model.FeedbackItem, error)

	// ListThread returns the item with the given root id plus every
	// transitive descendant, oldest first (chronological reading order).
	ListThread(ctx context.Context, rootID string) ([]model.FeedbackItem, error)

	// ListByTarget returns all items addressed to a target, oldest first.
	ListByTarget(ctx context.Context, target model.FeedbackTarget) ([]model.FeedbackItem, error)

	// Update applies a moderation patch and returns the updated row.
	Update(ctx context.Context, id string, patch FeedbackPatch) (*model.FeedbackItem, error)

	// DeleteByIDs removes the given rows and returns how many were deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
