package model

import "time"

// AipStatus is the lifecycle status of an Annual Investment Plan document.
type AipStatus string

const (
	StatusDraft         AipStatus = "draft"
	StatusPendingReview AipStatus = "pending_review"
	StatusUnderReview   AipStatus = "under_review"
	StatusForRevision   AipStatus = "for_revision"
	StatusPublished     AipStatus = "published"
	// StatusCancelled is terminal and only reachable from draft; cancelled
	// documents never enter the reviewed portion of the state machine.
	StatusCancelled AipStatus = "cancelled"
)

// Aip is one planning document for one fiscal year under exactly one owning
// scope. Pure domain model: no database-specific dependencies or tags beyond
// JSON, usable across layers without coupling to persistence.
//
// OwnerScope is immutable after creation. PublishedAt is non-nil iff the
// status is published. Status is mutated only through the review workflow
// engine; rows are never physically deleted.
type Aip struct {
	ID              string     `json:"id"`
	FiscalYear      int        `json:"fiscal_year"`
	OwnerScope      ScopeRef   `json:"owner_scope"`
	Status          AipStatus  `json:"status"`
	StatusUpdatedAt time.Time  `json:"status_updated_at"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedBy       string     `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
}
