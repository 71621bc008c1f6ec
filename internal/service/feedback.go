package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// maxThreadDepth bounds the parent walk. Cycles are structurally impossible
// because a parent id always references a committed row, but the walk is
// bounded anyway so a corrupted store cannot hang a request.
const maxThreadDepth = 64

// CreateRootInput is the payload for rooting a new feedback thread.
type CreateRootInput struct {
	Target model.FeedbackTarget `json:"target"`
	Kind   model.FeedbackKind   `json:"kind"`
	Body   string               `json:"body"`
}

func (in CreateRootInput) validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Body, validation.Required),
		validation.Field(&in.Kind, validation.Required, validation.In(
			model.KindQuestion, model.KindSuggestion, model.KindConcern,
			model.KindCommend, model.KindLguNote, model.KindAiFinding,
		)),
	)
}

// CreateReplyInput is the payload for replying inside an existing thread.
// Target is optional; when set it must match the parent's target exactly.
type CreateReplyInput struct {
	ParentID string                `json:"parent_id"`
	Target   *model.FeedbackTarget `json:"target,omitempty"`
	Kind     model.FeedbackKind    `json:"kind"`
	Body     string                `json:"body"`
}

func (in CreateReplyInput) validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ParentID, validation.Required),
		validation.Field(&in.Body, validation.Required),
		validation.Field(&in.Kind, validation.Required, validation.In(
			model.KindQuestion, model.KindSuggestion, model.KindConcern,
			model.KindCommend, model.KindLguNote,
		)),
	)
}

// FeedbackService is the feedback threading engine. It enforces the
// structural rules of the feedback store: target XOR and reply target match,
// role-gated kinds, thread rooting, and cascading removal.
type FeedbackService interface {
	// CreateRoot starts a new thread. Citizens may root any kind except
	// lgu_note; officials root only lgu_note notices. ai_finding items
	// enter through the extraction feed, never through this call.
	CreateRoot(ctx context.Context, in CreateRootInput, actor model.Actor) (*model.FeedbackItem, error)

	// CreateReply adds a nested reply. The new item inherits the parent's
	// target; replies to non-citizen-rooted threads are restricted to
	// official lgu_note answers.
	CreateReply(ctx context.Context, in CreateReplyInput, actor model.Actor) (*model.FeedbackItem, error)

	// ListThreadMessages returns a whole thread in chronological order.
	// The id must name a thread root.
	ListThreadMessages(ctx context.Context, rootID string) ([]model.FeedbackItem, error)

	// Moderate patches body, kind or visibility of an item. Admin only.
	Moderate(ctx context.Context, id string, patch repository.FeedbackPatch, actor model.Actor) (*model.FeedbackItem, error)

	// Remove deletes an item and every descendant reply, returning the
	// number of rows removed. Authors may remove their own items; admins
	// may remove any.
	Remove(ctx context.Context, id string, actor model.Actor) (int64, error)
}

type feedbackService struct {
	feedback repository.FeedbackRepository
	profiles repository.ProfileRepository
}

// NewFeedbackService constructs the feedback threading engine.
func NewFeedbackService(feedback repository.FeedbackRepository, profiles repository.ProfileRepository) FeedbackService {
	return &feedbackService{feedback: feedback, profiles: profiles}
}

func (s *feedbackService) findItem(ctx context.Context, id string) (*model.FeedbackItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: feedback id is required", ErrValidation)
	}
	item, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: feedback %s", ErrNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

func (s *feedbackService) CreateRoot(ctx context.Context, in CreateRootInput, actor model.Actor) (*model.FeedbackItem, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := in.Target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Kind == model.KindAiFinding {
		return nil, fmt.Errorf("%w: ai_finding items enter through the extraction feed", ErrForbidden)
	}

	switch {
	case actor.Role == model.RoleCitizen:
		if in.Kind == model.KindLguNote {
			return nil, fmt.Errorf("%w: lgu_note is reserved for officials", ErrForbidden)
		}
	case actor.IsOfficial() || actor.IsElevated():
		if in.Kind != model.KindLguNote {
			return nil, fmt.Errorf("%w: officials root threads only as lgu_note", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: unknown actor role %q", ErrForbidden, actor.Role)
	}

	now := time.Now().UTC()
	authorID := actor.UserID
	return s.feedback.Create(ctx, &model.FeedbackItem{
		ID:             uuid.New().String(),
		FeedbackTarget: in.Target,
		Kind:           in.Kind,
		Body:           in.Body,
		AuthorID:       &authorID,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *feedbackService) CreateReply(ctx context.Context, in CreateReplyInput, actor model.Actor) (*model.FeedbackItem, error) {
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	parent, err := s.findItem(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	// A reply can never re-target a different document than its parent.
	if in.Target != nil && !in.Target.Equal(parent.FeedbackTarget) {
		return nil, fmt.Errorf("%w: reply target does not match parent target", ErrValidation)
	}

	root, err := s.resolveRoot(ctx, parent)
	if err != nil {
		return nil, err
	}
	rootRole, err := s.rootAuthorRole(ctx, root)
	if err != nil {
		return nil, err
	}

	if rootRole != model.RoleCitizen {
		// Official notice threads accept only official lgu_note answers.
		if !actor.IsOfficial() && !actor.IsElevated() {
			return nil, fmt.Errorf("%w: only officials may reply to official threads", ErrForbidden)
		}
		if in.Kind != model.KindLguNote {
			return nil, fmt.Errorf("%w: replies to official threads must be lgu_note", ErrForbidden)
		}
	} else {
		switch {
		case actor.Role == model.RoleCitizen:
			if in.Kind == model.KindLguNote {
				return nil, fmt.Errorf("%w: lgu_note is reserved for officials", ErrForbidden)
			}
		case actor.IsOfficial() || actor.IsElevated():
			if in.Kind != model.KindLguNote {
				return nil, fmt.Errorf("%w: officials reply only as lgu_note", ErrForbidden)
			}
		default:
			return nil, fmt.Errorf("%w: unknown actor role %q", ErrForbidden, actor.Role)
		}
	}

	now := time.Now().UTC()
	authorID := actor.UserID
	parentID := parent.ID
	return s.feedback.Create(ctx, &model.FeedbackItem{
		ID:               uuid.New().String(),
		FeedbackTarget:   parent.FeedbackTarget,
		ParentFeedbackID: &parentID,
		Kind:             in.Kind,
		Body:             in.Body,
		AuthorID:         &authorID,
		IsPublic:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

func (s *feedbackService) ListThreadMessages(ctx context.Context, rootID string) ([]model.FeedbackItem, error) {
	root, err := s.findItem(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root.ParentFeedbackID != nil {
		return nil, fmt.Errorf("%w: %s is not a thread root", ErrValidation, rootID)
	}
	return s.feedback.ListThread(ctx, rootID)
}

func (s *feedbackService) Moderate(ctx context.Context, id string, patch repository.FeedbackPatch, actor model.Actor) (*model.FeedbackItem, error) {
	if !actor.IsElevated() {
		return nil, fmt.Errorf("%w: moderation requires admin", ErrForbidden)
	}
	if patch.Body == nil && patch.Kind == nil && patch.IsPublic == nil {
		return nil, fmt.Errorf("%w: moderation patch is empty", ErrValidation)
	}
	if patch.Body != nil && *patch.Body == "" {
		return nil, fmt.Errorf("%w: body must not be empty", ErrValidation)
	}
	if patch.Kind != nil {
		switch *patch.Kind {
		case model.KindQuestion, model.KindSuggestion, model.KindConcern,
			model.KindCommend, model.KindLguNote, model.KindAiFinding:
		default:
			return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, *patch.Kind)
		}
	}
	if _, err := s.findItem(ctx, id); err != nil {
		return nil, err
	}
	return s.feedback.Update(ctx, id, patch)
}

func (s *feedbackService) Remove(ctx context.Context, id string, actor model.Actor) (int64, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return 0, err
	}
	if !actor.IsElevated() && (item.AuthorID == nil || *item.AuthorID != actor.UserID) {
		return 0, fmt.Errorf("%w: only the author or an admin may remove feedback", ErrForbidden)
	}

	// Collect the whole subtree breadth-first before deleting anything, so
	// the traversal never reads rows it already removed.
	ids := []string{item.ID}
	queue := []string{item.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children, err := s.feedback.ListChildren(ctx, cur)
		if err != nil {
			return 0, err
		}
		for _, c := range children {
			ids = append(ids, c.ID)
			queue = append(queue, c.ID)
		}
	}
	return s.feedback.DeleteByIDs(ctx, ids)
}

// resolveRoot walks parent links up to the thread root. Ancestors are
// immutable once written, so the walk needs no locking.
func (s *feedbackService) resolveRoot(ctx context.Context, item *model.FeedbackItem) (*model.FeedbackItem, error) {
	cur := item
	for depth := 0; cur.ParentFeedbackID != nil; depth++ {
		if depth >= maxThreadDepth {
			return nil, fmt.Errorf("%w: thread deeper than %d levels", ErrValidation, maxThreadDepth)
		}
		next, err := s.findItem(ctx, *cur.ParentFeedbackID)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// rootAuthorRole resolves the authorship role that governs the thread. A nil
// author marks a machine finding and counts as non-citizen.
func (s *feedbackService) rootAuthorRole(ctx context.Context, root *model.FeedbackItem) (model.Role, error) {
	if root.AuthorID == nil {
		return "", nil
	}
	p, err := s.profiles.FindByID(ctx, *root.AuthorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return p.Role, nil
}
