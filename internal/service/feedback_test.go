package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
	repomocks "github.com/Open-AIP/OpenAIP-sub005/internal/repository/mocks"
)

type feedbackMocks struct {
	feedback *repomocks.MockFeedbackRepository
	profiles *repomocks.MockProfileRepository
}

func newFeedbackService(t *testing.T) (FeedbackService, *feedbackMocks) {
	t.Helper()
	m := &feedbackMocks{
		feedback: new(repomocks.MockFeedbackRepository),
		profiles: new(repomocks.MockProfileRepository),
	}
	return NewFeedbackService(m.feedback, m.profiles), m
}

func strPtr(s string) *string { return &s }

func aipTarget(id string) model.FeedbackTarget {
	return model.FeedbackTarget{Type: model.TargetAip, AipID: strPtr(id)}
}

func feedbackItem(id string, target model.FeedbackTarget, parentID *string, kind model.FeedbackKind, authorID *string) *model.FeedbackItem {
	now := time.Now().UTC()
	return &model.FeedbackItem{
		ID:               id,
		FeedbackTarget:   target,
		ParentFeedbackID: parentID,
		Kind:             kind,
		Body:             "body of " + id,
		AuthorID:         authorID,
		IsPublic:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestFeedbackService_CreateRoot(t *testing.T) {
	official := model.Actor{UserID: "off-1", Role: model.RoleCityOfficial, Scope: cityScope}

	tests := []struct {
		name       string
		actor      model.Actor
		in         CreateRootInput
		setupMocks func(m *feedbackMocks)
		wantErr    error
	}{
		{
			name:  "citizen roots a question",
			actor: citizen1,
			in:    CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindQuestion, Body: "why so late?"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("Create", mock.Anything, mock.MatchedBy(func(f *model.FeedbackItem) bool {
					return f.ParentFeedbackID == nil && f.Kind == model.KindQuestion && *f.AuthorID == "c1"
				})).Return(feedbackItem("fb-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1")), nil)
			},
		},
		{
			name:       "citizen may not root lgu_note",
			actor:      citizen1,
			in:         CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindLguNote, Body: "note"},
			setupMocks: func(m *feedbackMocks) {},
			wantErr:    ErrForbidden,
		},
		{
			name:  "official roots lgu_note",
			actor: official,
			in:    CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindLguNote, Body: "advisory"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("Create", mock.Anything, mock.Anything).
					Return(feedbackItem("fb-1", aipTarget("aip-1"), nil, model.KindLguNote, strPtr("off-1")), nil)
			},
		},
		{
			name:       "official may not root a question",
			actor:      official,
			in:         CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindQuestion, Body: "?"},
			setupMocks: func(m *feedbackMocks) {},
			wantErr:    ErrForbidden,
		},
		{
			name:       "ai_finding only enters through the extraction feed",
			actor:      citizen1,
			in:         CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindAiFinding, Body: "finding"},
			setupMocks: func(m *feedbackMocks) {},
			wantErr:    ErrForbidden,
		},
		{
			name:  "target must satisfy the XOR rule",
			actor: citizen1,
			in: CreateRootInput{
				Target: model.FeedbackTarget{Type: model.TargetAip, AipID: strPtr("aip-1"), ProjectID: strPtr("proj-1")},
				Kind:   model.KindQuestion,
				Body:   "both targets set",
			},
			setupMocks: func(m *feedbackMocks) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "body is required",
			actor:      citizen1,
			in:         CreateRootInput{Target: aipTarget("aip-1"), Kind: model.KindQuestion},
			setupMocks: func(m *feedbackMocks) {},
			wantErr:    ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newFeedbackService(t)
			tt.setupMocks(m)

			item, err := svc.CreateRoot(context.Background(), tt.in, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				m.feedback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, item)
			}
			m.feedback.AssertExpectations(t)
		})
	}
}

func TestFeedbackService_CreateReply(t *testing.T) {
	official := model.Actor{UserID: "off-1", Role: model.RoleCityOfficial, Scope: cityScope}
	citizenRoot := feedbackItem("root-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1"))
	officialRoot := feedbackItem("root-2", aipTarget("aip-1"), nil, model.KindLguNote, strPtr("off-2"))

	citizenProfile := &model.Profile{ID: "c1", Role: model.RoleCitizen}
	officialProfile := &model.Profile{ID: "off-2", Role: model.RoleCityOfficial, Scope: cityScope}

	tests := []struct {
		name       string
		actor      model.Actor
		in         CreateReplyInput
		setupMocks func(m *feedbackMocks)
		wantErr    error
	}{
		{
			name:  "official answers a citizen thread with lgu_note",
			actor: official,
			in:    CreateReplyInput{ParentID: "root-1", Kind: model.KindLguNote, Body: "here is the schedule"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-1").Return(citizenRoot, nil)
				m.profiles.On("FindByID", mock.Anything, "c1").Return(citizenProfile, nil)
				m.feedback.On("Create", mock.Anything, mock.MatchedBy(func(f *model.FeedbackItem) bool {
					return f.ParentFeedbackID != nil && *f.ParentFeedbackID == "root-1" &&
						f.Kind == model.KindLguNote && f.FeedbackTarget.Equal(citizenRoot.FeedbackTarget)
				})).Return(feedbackItem("fb-2", aipTarget("aip-1"), strPtr("root-1"), model.KindLguNote, strPtr("off-1")), nil)
			},
		},
		{
			name:  "official question on a citizen thread is rejected",
			actor: official,
			in:    CreateReplyInput{ParentID: "root-1", Kind: model.KindQuestion, Body: "what?"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-1").Return(citizenRoot, nil)
				m.profiles.On("FindByID", mock.Anything, "c1").Return(citizenProfile, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:  "citizen follows up on their own thread",
			actor: citizen1,
			in:    CreateReplyInput{ParentID: "root-1", Kind: model.KindQuestion, Body: "any update?"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-1").Return(citizenRoot, nil)
				m.profiles.On("FindByID", mock.Anything, "c1").Return(citizenProfile, nil)
				m.feedback.On("Create", mock.Anything, mock.Anything).
					Return(feedbackItem("fb-3", aipTarget("aip-1"), strPtr("root-1"), model.KindQuestion, strPtr("c1")), nil)
			},
		},
		{
			name:  "citizen may not reply to an official notice thread",
			actor: citizen1,
			in:    CreateReplyInput{ParentID: "root-2", Kind: model.KindQuestion, Body: "but why"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-2").Return(officialRoot, nil)
				m.profiles.On("FindByID", mock.Anything, "off-2").Return(officialProfile, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:  "official lgu_note on an official thread is allowed",
			actor: official,
			in:    CreateReplyInput{ParentID: "root-2", Kind: model.KindLguNote, Body: "addendum"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-2").Return(officialRoot, nil)
				m.profiles.On("FindByID", mock.Anything, "off-2").Return(officialProfile, nil)
				m.feedback.On("Create", mock.Anything, mock.Anything).
					Return(feedbackItem("fb-4", aipTarget("aip-1"), strPtr("root-2"), model.KindLguNote, strPtr("off-1")), nil)
			},
		},
		{
			name:  "reply target must match parent target",
			actor: citizen1,
			in: CreateReplyInput{
				ParentID: "root-1",
				Target:   &model.FeedbackTarget{Type: model.TargetAip, AipID: strPtr("aip-2")},
				Kind:     model.KindQuestion,
				Body:     "retargeted",
			},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-1").Return(citizenRoot, nil)
			},
			wantErr: ErrValidation,
		},
		{
			name:  "unknown parent",
			actor: citizen1,
			in:    CreateReplyInput{ParentID: "missing", Kind: model.KindQuestion, Body: "hello"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "machine-rooted thread accepts only official lgu_note",
			actor: citizen1,
			in:    CreateReplyInput{ParentID: "root-3", Kind: model.KindQuestion, Body: "is this true?"},
			setupMocks: func(m *feedbackMocks) {
				m.feedback.On("FindByID", mock.Anything, "root-3").
					Return(feedbackItem("root-3", aipTarget("aip-1"), nil, model.KindAiFinding, nil), nil)
			},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newFeedbackService(t)
			tt.setupMocks(m)

			item, err := svc.CreateReply(context.Background(), tt.in, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				m.feedback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, item)
			}
			m.feedback.AssertExpectations(t)
		})
	}
}

func TestFeedbackService_CreateReply_WalksNestedParents(t *testing.T) {
	// reply-to-reply: the rooting rule consults the true root, not the
	// immediate parent (an official lgu_note here).
	svc, m := newFeedbackService(t)
	official := model.Actor{UserID: "off-1", Role: model.RoleCityOfficial, Scope: cityScope}

	root := feedbackItem("root-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1"))
	mid := feedbackItem("mid-1", aipTarget("aip-1"), strPtr("root-1"), model.KindLguNote, strPtr("off-2"))

	m.feedback.On("FindByID", mock.Anything, "mid-1").Return(mid, nil)
	m.feedback.On("FindByID", mock.Anything, "root-1").Return(root, nil)
	m.profiles.On("FindByID", mock.Anything, "c1").Return(&model.Profile{ID: "c1", Role: model.RoleCitizen}, nil)
	m.feedback.On("Create", mock.Anything, mock.MatchedBy(func(f *model.FeedbackItem) bool {
		return *f.ParentFeedbackID == "mid-1" && f.Kind == model.KindLguNote
	})).Return(feedbackItem("fb-5", aipTarget("aip-1"), strPtr("mid-1"), model.KindLguNote, strPtr("off-1")), nil)

	item, err := svc.CreateReply(context.Background(), CreateReplyInput{
		ParentID: "mid-1", Kind: model.KindLguNote, Body: "further detail",
	}, official)

	assert.NoError(t, err)
	assert.NotNil(t, item)
	m.feedback.AssertExpectations(t)
}

func TestFeedbackService_ListThreadMessages(t *testing.T) {
	t.Run("returns the thread oldest first", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		root := feedbackItem("root-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1"))
		thread := []model.FeedbackItem{
			*root,
			*feedbackItem("fb-2", aipTarget("aip-1"), strPtr("root-1"), model.KindLguNote, strPtr("off-1")),
		}
		m.feedback.On("FindByID", mock.Anything, "root-1").Return(root, nil)
		m.feedback.On("ListThread", mock.Anything, "root-1").Return(thread, nil)

		items, err := svc.ListThreadMessages(context.Background(), "root-1")

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "root-1", items[0].ID)
	})

	t.Run("non-root id is rejected", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		child := feedbackItem("fb-2", aipTarget("aip-1"), strPtr("root-1"), model.KindQuestion, strPtr("c1"))
		m.feedback.On("FindByID", mock.Anything, "fb-2").Return(child, nil)

		_, err := svc.ListThreadMessages(context.Background(), "fb-2")

		assert.ErrorIs(t, err, ErrValidation)
		m.feedback.AssertNotCalled(t, "ListThread", mock.Anything, mock.Anything)
	})
}

func TestFeedbackService_Remove(t *testing.T) {
	t.Run("root removal cascades to the whole subtree", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		root := feedbackItem("root-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1"))
		replyA := *feedbackItem("a", aipTarget("aip-1"), strPtr("root-1"), model.KindQuestion, strPtr("c1"))
		replyB := *feedbackItem("b", aipTarget("aip-1"), strPtr("root-1"), model.KindLguNote, strPtr("off-1"))
		nested := *feedbackItem("a1", aipTarget("aip-1"), strPtr("a"), model.KindQuestion, strPtr("c2"))

		m.feedback.On("FindByID", mock.Anything, "root-1").Return(root, nil)
		m.feedback.On("ListChildren", mock.Anything, "root-1").Return([]model.FeedbackItem{replyA, replyB}, nil)
		m.feedback.On("ListChildren", mock.Anything, "a").Return([]model.FeedbackItem{nested}, nil)
		m.feedback.On("ListChildren", mock.Anything, "b").Return([]model.FeedbackItem{}, nil)
		m.feedback.On("ListChildren", mock.Anything, "a1").Return([]model.FeedbackItem{}, nil)
		m.feedback.On("DeleteByIDs", mock.Anything, []string{"root-1", "a", "b", "a1"}).Return(int64(4), nil)

		n, err := svc.Remove(context.Background(), "root-1", citizen1)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), n)
		m.feedback.AssertExpectations(t)
	})

	t.Run("non-root removal takes only its own subtree", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		replyA := feedbackItem("a", aipTarget("aip-1"), strPtr("root-1"), model.KindQuestion, strPtr("c1"))
		nested := *feedbackItem("a1", aipTarget("aip-1"), strPtr("a"), model.KindQuestion, strPtr("c2"))

		m.feedback.On("FindByID", mock.Anything, "a").Return(replyA, nil)
		m.feedback.On("ListChildren", mock.Anything, "a").Return([]model.FeedbackItem{nested}, nil)
		m.feedback.On("ListChildren", mock.Anything, "a1").Return([]model.FeedbackItem{}, nil)
		m.feedback.On("DeleteByIDs", mock.Anything, []string{"a", "a1"}).Return(int64(2), nil)

		n, err := svc.Remove(context.Background(), "a", citizen1)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("only the author or an admin may remove", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		item := feedbackItem("fb-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c2"))
		m.feedback.On("FindByID", mock.Anything, "fb-1").Return(item, nil)

		_, err := svc.Remove(context.Background(), "fb-1", citizen1)

		assert.ErrorIs(t, err, ErrForbidden)
		m.feedback.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("admin removes any item", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		item := feedbackItem("fb-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c2"))
		m.feedback.On("FindByID", mock.Anything, "fb-1").Return(item, nil)
		m.feedback.On("ListChildren", mock.Anything, "fb-1").Return([]model.FeedbackItem{}, nil)
		m.feedback.On("DeleteByIDs", mock.Anything, []string{"fb-1"}).Return(int64(1), nil)

		n, err := svc.Remove(context.Background(), "fb-1", admin1)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestFeedbackService_Moderate(t *testing.T) {
	t.Run("admin hides an item", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		hidden := false
		item := feedbackItem("fb-1", aipTarget("aip-1"), nil, model.KindQuestion, strPtr("c1"))
		updated := *item
		updated.IsPublic = false

		m.feedback.On("FindByID", mock.Anything, "fb-1").Return(item, nil)
		m.feedback.On("Update", mock.Anything, "fb-1", repository.FeedbackPatch{IsPublic: &hidden}).Return(&updated, nil)

		got, err := svc.Moderate(context.Background(), "fb-1", repository.FeedbackPatch{IsPublic: &hidden}, admin1)

		assert.NoError(t, err)
		assert.False(t, got.IsPublic)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc, m := newFeedbackService(t)
		hidden := false

		_, err := svc.Moderate(context.Background(), "fb-1", repository.FeedbackPatch{IsPublic: &hidden}, citizen1)

		assert.ErrorIs(t, err, ErrForbidden)
		m.feedback.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		svc, _ := newFeedbackService(t)

		_, err := svc.Moderate(context.Background(), "fb-1", repository.FeedbackPatch{}, admin1)

		assert.ErrorIs(t, err, ErrValidation)
	})
}
