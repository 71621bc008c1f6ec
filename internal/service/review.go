package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Open-AIP/OpenAIP-sub005/internal/audit"
	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// ReviewResult is the outcome of a mutating workflow operation. Warning is
// set when the state change succeeded but the audit emitter failed; the
// change is never rolled back for an audit failure.
type ReviewResult struct {
	Status  model.AipStatus     `json:"status"`
	Entry   *model.ReviewEntry  `json:"entry,omitempty"`
	Reply   *model.FeedbackItem `json:"reply,omitempty"`
	Warning string              `json:"warning,omitempty"`
}

// ReviewerRemark is the decision half of a revision cycle: the
// request_revision ledger entry with its author resolved for display.
type ReviewerRemark struct {
	EntryID      string             `json:"entry_id"`
	Action       model.ReviewAction `json:"action"`
	Note         string             `json:"note"`
	ReviewerID   string             `json:"reviewer_id"`
	ReviewerName string             `json:"reviewer_name,omitempty"`
	ReviewerRole model.Role         `json:"reviewer_role,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// RevisionCycle pairs one reviewer remark with the revision replies the
// owning scope posted before the next remark. CycleNo counts from 1 in
// chronological order even though cycles are returned newest first.
type RevisionCycle struct {
	CycleNo int                  `json:"cycle_no"`
	Remark  ReviewerRemark       `json:"remark"`
	Replies []model.FeedbackItem `json:"replies"`
}

// SubmissionDetail is the reviewer-facing view of a document: the record
// itself plus its revision history grouped into cycles, newest cycle first.
type SubmissionDetail struct {
	Aip    *model.Aip      `json:"aip"`
	Cycles []RevisionCycle `json:"cycles"`
}

// ReviewService is the submission review workflow engine. It owns every
// status transition of a document and every append to the review ledger.
//
// Ownership is always derived from the ledger at call time, never stored:
// the current owner is the reviewer of the latest entry iff that entry is a
// claim_review. An approve or request_revision entry ends the ownership
// epoch, so the document must be re-claimed before the next decision.
type ReviewService interface {
	// ClaimReview takes review ownership of a document. pending_review and
	// for_revision documents are always claimable by a reviewer; an
	// under_review document only by its current owner (a deliberate
	// re-claim, still appended for history) or by an admin (takeover).
	// Documents that predate the ledger may be claimed at any status.
	ClaimReview(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error)

	// PublishAip approves an under_review document: appends an approve
	// entry, sets the status to published and stamps PublishedAt.
	PublishAip(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error)

	// RequestRevision sends an under_review document back to its owning
	// scope with a non-empty note. The note is validated before any write.
	RequestRevision(ctx context.Context, aipID, note string, actor model.Actor) (*ReviewResult, error)

	// SubmitForReview moves a draft or for_revision document to
	// pending_review. Resubmission after a revision request requires a
	// revision reply, either passed here or saved earlier.
	SubmitForReview(ctx context.Context, aipID, revisionReply string, actor model.Actor) (*ReviewResult, error)

	// CancelSubmission withdraws a pending_review document, returning it to
	// for_revision when revision history exists and to draft otherwise.
	CancelSubmission(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error)

	// SaveRevisionReply records the owning scope's answer to the latest
	// revision request without resubmitting.
	SaveRevisionReply(ctx context.Context, aipID, reply string, actor model.Actor) (*ReviewResult, error)

	// GetLatestReview returns the most recent ledger entry, or nil.
	GetLatestReview(ctx context.Context, aipID string) (*model.ReviewEntry, error)

	// GetSubmissionDetail returns the document plus its revision feedback
	// cycles, newest first.
	GetSubmissionDetail(ctx context.Context, aipID string, actor model.Actor) (*SubmissionDetail, error)
}

type reviewService struct {
	aips     repository.AipRepository
	ledger   repository.ReviewLedger
	feedback repository.FeedbackRepository
	profiles repository.ProfileRepository
	emitter  audit.Emitter
}

// NewReviewService constructs the review workflow engine.
func NewReviewService(
	aips repository.AipRepository,
	ledger repository.ReviewLedger,
	feedback repository.FeedbackRepository,
	profiles repository.ProfileRepository,
	emitter audit.Emitter,
) ReviewService {
	return &reviewService{
		aips:     aips,
		ledger:   ledger,
		feedback: feedback,
		profiles: profiles,
		emitter:  emitter,
	}
}

func (s *reviewService) findAip(ctx context.Context, aipID string) (*model.Aip, error) {
	if aipID == "" {
		return nil, fmt.Errorf("%w: aip id is required", ErrValidation)
	}
	aip, err := s.aips.FindByID(ctx, aipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: aip %s", ErrNotFound, aipID)
		}
		return nil, err
	}
	return aip, nil
}

// checkOwnership re-derives the current owner from the ledger on every call
// so a decision never acts on ownership that a concurrent takeover already
// superseded.
func (s *reviewService) checkOwnership(ctx context.Context, aipID string, actor model.Actor) error {
	if actor.IsElevated() {
		return nil
	}
	latest, err := s.ledger.Latest(ctx, aipID)
	if err != nil {
		return err
	}
	if latest == nil || latest.Action != model.ActionClaimReview {
		return fmt.Errorf("%w: no active claim on this submission", ErrForbidden)
	}
	if latest.ReviewerID != actor.UserID {
		return fmt.Errorf("%w: assigned to another reviewer", ErrForbidden)
	}
	return nil
}

func checkOwningScope(aip *model.Aip, actor model.Actor) error {
	if actor.IsElevated() {
		return nil
	}
	if !actor.IsOfficial() || actor.Scope != aip.OwnerScope {
		return fmt.Errorf("%w: submission belongs to another scope", ErrForbidden)
	}
	return nil
}

func (s *reviewService) record(ctx context.Context, res *ReviewResult, action string, aip *model.Aip, metadata map[string]any) {
	if err := s.emitter.Record(ctx, action, "aips", aip.ID, aip.OwnerScope, metadata); err != nil {
		res.Warning = fmt.Sprintf("audit record failed: %v", err)
	}
}

func (s *reviewService) ClaimReview(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error) {
	if !actor.IsReviewer() {
		return nil, fmt.Errorf("%w: actor may not review submissions", ErrForbidden)
	}
	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	latest, err := s.ledger.Latest(ctx, aipID)
	if err != nil {
		return nil, err
	}

	switch aip.Status {
	case model.StatusPendingReview, model.StatusForRevision:
		// Always re-claimable.
	case model.StatusUnderReview:
		if latest != nil && latest.Action == model.ActionClaimReview &&
			latest.ReviewerID != actor.UserID && !actor.IsElevated() {
			return nil, fmt.Errorf("%w: assigned to another reviewer", ErrForbidden)
		}
	default:
		// Documents that predate the ledger carry arbitrary statuses and
		// may be claimed once for triage.
		if latest != nil {
			return nil, fmt.Errorf("%w: cannot claim a %s document", ErrConflict, aip.Status)
		}
	}

	now := time.Now().UTC()
	status := aip.Status
	// A published or cancelled legacy document keeps its status; the claim
	// is recorded for history only.
	if status != model.StatusUnderReview && status != model.StatusPublished && status != model.StatusCancelled {
		ok, err := s.aips.UpdateStatusIf(ctx, repository.StatusUpdate{
			AipID: aipID,
			From:  []model.AipStatus{aip.Status},
			To:    model.StatusUnderReview,
			Now:   now,
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: document status changed concurrently", ErrConflict)
		}
		status = model.StatusUnderReview
	}

	entry, err := s.ledger.Append(ctx, &model.ReviewEntry{
		ID:         uuid.New().String(),
		AipID:      aipID,
		Action:     model.ActionClaimReview,
		ReviewerID: actor.UserID,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{Status: status, Entry: entry}
	s.record(ctx, res, "aip_review_claimed", aip, map[string]any{"reviewer_id": actor.UserID})
	return res, nil
}

func (s *reviewService) PublishAip(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error) {
	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	if aip.Status != model.StatusUnderReview {
		return nil, fmt.Errorf("%w: cannot publish a %s document", ErrConflict, aip.Status)
	}
	if err := s.checkOwnership(ctx, aipID, actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := s.aips.UpdateStatusIf(ctx, repository.StatusUpdate{
		AipID:          aipID,
		From:           []model.AipStatus{model.StatusUnderReview},
		To:             model.StatusPublished,
		Now:            now,
		SetPublishedAt: true,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: document status changed concurrently", ErrConflict)
	}

	entry, err := s.ledger.Append(ctx, &model.ReviewEntry{
		ID:         uuid.New().String(),
		AipID:      aipID,
		Action:     model.ActionApprove,
		ReviewerID: actor.UserID,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{Status: model.StatusPublished, Entry: entry}
	s.record(ctx, res, "aip_published", aip, map[string]any{"reviewer_id": actor.UserID})
	return res, nil
}

func (s *reviewService) RequestRevision(ctx context.Context, aipID, note string, actor model.Actor) (*ReviewResult, error) {
	// Validate before any write so a rejected call leaves the ledger
	// untouched.
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: revision note is required", ErrValidation)
	}

	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	if aip.Status != model.StatusUnderReview {
		return nil, fmt.Errorf("%w: cannot request revision of a %s document", ErrConflict, aip.Status)
	}
	if err := s.checkOwnership(ctx, aipID, actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := s.aips.UpdateStatusIf(ctx, repository.StatusUpdate{
		AipID: aipID,
		From:  []model.AipStatus{model.StatusUnderReview},
		To:    model.StatusForRevision,
		Now:   now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: document status changed concurrently", ErrConflict)
	}

	entry, err := s.ledger.Append(ctx, &model.ReviewEntry{
		ID:         uuid.New().String(),
		AipID:      aipID,
		Action:     model.ActionRequestRevision,
		Note:       &trimmed,
		ReviewerID: actor.UserID,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{Status: model.StatusForRevision, Entry: entry}
	s.record(ctx, res, "aip_revision_requested", aip, map[string]any{"reviewer_id": actor.UserID})
	return res, nil
}

func (s *reviewService) SubmitForReview(ctx context.Context, aipID, revisionReply string, actor model.Actor) (*ReviewResult, error) {
	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	if err := checkOwningScope(aip, actor); err != nil {
		return nil, err
	}
	if aip.Status != model.StatusDraft && aip.Status != model.StatusForRevision {
		return nil, fmt.Errorf("%w: cannot submit a %s document", ErrConflict, aip.Status)
	}

	reply := strings.TrimSpace(revisionReply)
	if aip.Status == model.StatusForRevision && reply == "" {
		answered, err := s.hasReplyAfterLatestRemark(ctx, aip)
		if err != nil {
			return nil, err
		}
		if !answered {
			return nil, fmt.Errorf("%w: a revision reply is required when resubmitting", ErrValidation)
		}
	}

	now := time.Now().UTC()
	res := &ReviewResult{Status: model.StatusPendingReview}
	if reply != "" {
		item, err := s.createRevisionReply(ctx, aip, reply, actor, now)
		if err != nil {
			return nil, err
		}
		res.Reply = item
	}

	ok, err := s.aips.UpdateStatusIf(ctx, repository.StatusUpdate{
		AipID:          aipID,
		From:           []model.AipStatus{aip.Status},
		To:             model.StatusPendingReview,
		Now:            now,
		SetSubmittedAt: true,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: document status changed concurrently", ErrConflict)
	}

	s.record(ctx, res, "aip_submitted", aip, map[string]any{"submitted_by": actor.UserID})
	return res, nil
}

func (s *reviewService) CancelSubmission(ctx context.Context, aipID string, actor model.Actor) (*ReviewResult, error) {
	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	if err := checkOwningScope(aip, actor); err != nil {
		return nil, err
	}
	if aip.Status != model.StatusPendingReview {
		return nil, fmt.Errorf("%w: cannot cancel a %s submission", ErrConflict, aip.Status)
	}

	revised, err := s.hasRevisionHistory(ctx, aipID)
	if err != nil {
		return nil, err
	}
	target := model.StatusDraft
	if revised {
		target = model.StatusForRevision
	}

	ok, err := s.aips.UpdateStatusIf(ctx, repository.StatusUpdate{
		AipID: aipID,
		From:  []model.AipStatus{model.StatusPendingReview},
		To:    target,
		Now:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: document status changed concurrently", ErrConflict)
	}

	res := &ReviewResult{Status: target}
	s.record(ctx, res, "aip_submission_cancelled", aip, map[string]any{"cancelled_by": actor.UserID})
	return res, nil
}

func (s *reviewService) SaveRevisionReply(ctx context.Context, aipID, reply string, actor model.Actor) (*ReviewResult, error) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: revision reply is required", ErrValidation)
	}

	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	if err := checkOwningScope(aip, actor); err != nil {
		return nil, err
	}
	switch aip.Status {
	case model.StatusForRevision:
	case model.StatusDraft:
		revised, err := s.hasRevisionHistory(ctx, aipID)
		if err != nil {
			return nil, err
		}
		if !revised {
			return nil, fmt.Errorf("%w: document has no revision request to answer", ErrConflict)
		}
	default:
		return nil, fmt.Errorf("%w: cannot save a revision reply on a %s document", ErrConflict, aip.Status)
	}

	item, err := s.createRevisionReply(ctx, aip, trimmed, actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{Status: aip.Status, Reply: item}
	s.record(ctx, res, "aip_revision_reply_saved", aip, map[string]any{"author_id": actor.UserID})
	return res, nil
}

func (s *reviewService) GetLatestReview(ctx context.Context, aipID string) (*model.ReviewEntry, error) {
	if aipID == "" {
		return nil, fmt.Errorf("%w: aip id is required", ErrValidation)
	}
	return s.ledger.Latest(ctx, aipID)
}

func (s *reviewService) GetSubmissionDetail(ctx context.Context, aipID string, actor model.Actor) (*SubmissionDetail, error) {
	if !actor.IsOfficial() && !actor.IsElevated() {
		return nil, fmt.Errorf("%w: submission detail is limited to officials", ErrForbidden)
	}
	aip, err := s.findAip(ctx, aipID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListByAip(ctx, aipID)
	if err != nil {
		return nil, err
	}
	// Remarks in chronological order; the ledger lists newest first.
	var remarks []model.ReviewEntry
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Action == model.ActionRequestRevision {
			remarks = append(remarks, entries[i])
		}
	}

	var replies []model.FeedbackItem
	if len(remarks) > 0 {
		aipRef := aip.ID
		items, err := s.feedback.ListByTarget(ctx, model.FeedbackTarget{Type: model.TargetAip, AipID: &aipRef})
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.ParentFeedbackID == nil && it.Kind == model.KindLguNote {
				replies = append(replies, it)
			}
		}
	}

	cycles := make([]RevisionCycle, 0, len(remarks))
	for i, remark := range remarks {
		cycle := RevisionCycle{
			CycleNo: i + 1,
			Remark:  s.describeRemark(ctx, remark),
			Replies: make([]model.FeedbackItem, 0),
		}
		for _, reply := range replies {
			if reply.CreatedAt.Before(remark.CreatedAt) {
				continue
			}
			if i+1 < len(remarks) && !reply.CreatedAt.Before(remarks[i+1].CreatedAt) {
				continue
			}
			cycle.Replies = append(cycle.Replies, reply)
		}
		cycles = append(cycles, cycle)
	}
	// Newest cycle first.
	for i, j := 0, len(cycles)-1; i < j; i, j = i+1, j-1 {
		cycles[i], cycles[j] = cycles[j], cycles[i]
	}

	return &SubmissionDetail{Aip: aip, Cycles: cycles}, nil
}

// describeRemark resolves the reviewer's display fields; a missing profile
// leaves the labels empty rather than failing the read.
func (s *reviewService) describeRemark(ctx context.Context, entry model.ReviewEntry) ReviewerRemark {
	remark := ReviewerRemark{
		EntryID:    entry.ID,
		Action:     entry.Action,
		ReviewerID: entry.ReviewerID,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Note != nil {
		remark.Note = *entry.Note
	}
	if p, err := s.profiles.FindByID(ctx, entry.ReviewerID); err == nil {
		remark.ReviewerName = p.FullName
		remark.ReviewerRole = p.Role
	}
	return remark
}

func (s *reviewService) hasRevisionHistory(ctx context.Context, aipID string) (bool, error) {
	entries, err := s.ledger.ListByAip(ctx, aipID)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Action == model.ActionRequestRevision {
			return true, nil
		}
	}
	return false, nil
}

// hasReplyAfterLatestRemark reports whether the owning scope already saved a
// revision reply since the most recent revision request.
func (s *reviewService) hasReplyAfterLatestRemark(ctx context.Context, aip *model.Aip) (bool, error) {
	entries, err := s.ledger.ListByAip(ctx, aip.ID)
	if err != nil {
		return false, err
	}
	var remarkAt *time.Time
	for _, e := range entries {
		if e.Action == model.ActionRequestRevision {
			t := e.CreatedAt
			remarkAt = &t
			break
		}
	}
	if remarkAt == nil {
		return true, nil
	}

	aipRef := aip.ID
	items, err := s.feedback.ListByTarget(ctx, model.FeedbackTarget{Type: model.TargetAip, AipID: &aipRef})
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ParentFeedbackID == nil && it.Kind == model.KindLguNote && !it.CreatedAt.Before(*remarkAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *reviewService) createRevisionReply(ctx context.Context, aip *model.Aip, body string, actor model.Actor, now time.Time) (*model.FeedbackItem, error) {
	aipRef := aip.ID
	authorID := actor.UserID
	return s.feedback.Create(ctx, &model.FeedbackItem{
		ID:             uuid.New().String(),
		FeedbackTarget: model.FeedbackTarget{Type: model.TargetAip, AipID: &aipRef},
		Kind:           model.KindLguNote,
		Body:           body,
		AuthorID:       &authorID,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}
