package model

import "time"

// ReviewAction is the kind of reviewer decision recorded in the ledger.
type ReviewAction string

const (
	ActionClaimReview     ReviewAction = "claim_review"
	ActionApprove         ReviewAction = "approve"
	ActionRequestRevision ReviewAction = "request_revision"
)

// ReviewEntry is one immutable record of a reviewer action against a
// document. Entries are never edited or deleted; the ledger for a document,
// ordered by (created_at, seq) descending, is the sole basis for "current
// owner" and "latest decision".
//
// Seq is assigned by the store at append time and breaks created_at ties, so
// two racing appends always have a strict order.
type ReviewEntry struct {
	ID         string       `json:"id"`
	AipID      string       `json:"aip_id"`
	Seq        int64        `json:"seq"`
	Action     ReviewAction `json:"action"`
	Note       *string      `json:"note,omitempty"`
	ReviewerID string       `json:"reviewer_id"`
	CreatedAt  time.Time    `json:"created_at"`
}
