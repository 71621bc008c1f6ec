package model

import (
	"fmt"
	"time"
)

// FeedbackKind categorizes a feedback message.
// lgu_note is reserved for officials; ai_finding is machine-originated and
// enters the store through the extraction feed, never through citizen input.
type FeedbackKind string

const (
	KindQuestion   FeedbackKind = "question"
	KindSuggestion FeedbackKind = "suggestion"
	KindConcern    FeedbackKind = "concern"
	KindCommend    FeedbackKind = "commend"
	KindLguNote    FeedbackKind = "lgu_note"
	KindAiFinding  FeedbackKind = "ai_finding"
)

// TargetType says whether a feedback item addresses a whole document or one
// line item (project) within it.
type TargetType string

const (
	TargetAip     TargetType = "aip"
	TargetProject TargetType = "project"
)

// FeedbackTarget is the tagged target of a feedback item: exactly one of
// AipID/ProjectID is set, matching Type.
type FeedbackTarget struct {
	Type      TargetType `json:"target_type"`
	AipID     *string    `json:"aip_id,omitempty"`
	ProjectID *string    `json:"project_id,omitempty"`
}

// Validate enforces the XOR invariant between AipID and ProjectID.
func (t FeedbackTarget) Validate() error {
	switch t.Type {
	case TargetAip:
		if t.AipID == nil || *t.AipID == "" {
			return fmt.Errorf("aip target requires aip_id")
		}
		if t.ProjectID != nil {
			return fmt.Errorf("aip target must not carry project_id")
		}
	case TargetProject:
		if t.ProjectID == nil || *t.ProjectID == "" {
			return fmt.Errorf("project target requires project_id")
		}
		if t.AipID != nil {
			return fmt.Errorf("project target must not carry aip_id")
		}
	default:
		return fmt.Errorf("unknown target type: %q", t.Type)
	}
	return nil
}

// Equal reports whether two targets address the same entity.
func (t FeedbackTarget) Equal(o FeedbackTarget) bool {
	return t.Type == o.Type &&
		strPtrEqual(t.AipID, o.AipID) &&
		strPtrEqual(t.ProjectID, o.ProjectID)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FeedbackItem is one feedback message or reply. A nil ParentFeedbackID marks
// a thread root. A nil AuthorID is only legal for machine-originated
// ai_finding items.
type FeedbackItem struct {
	ID string `json:"id"`
	FeedbackTarget
	ParentFeedbackID *string      `json:"parent_feedback_id,omitempty"`
	Kind             FeedbackKind `json:"kind"`
	Body             string       `json:"body"`
	AuthorID         *string      `json:"author_id,omitempty"`
	IsPublic         bool         `json:"is_public"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
