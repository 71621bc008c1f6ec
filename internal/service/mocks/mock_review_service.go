package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ClaimReview(ctx context.Context, aipID string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) PublishAip(ctx context.Context, aipID string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) RequestRevision(ctx context.Context, aipID, note string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, note, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) SubmitForReview(ctx context.Context, aipID, revisionReply string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, revisionReply, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) CancelSubmission(ctx context.Context, aipID string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) SaveRevisionReply(ctx context.Context, aipID, reply string, actor model.Actor) (*service.ReviewResult, error) {
	args := m.Called(ctx, aipID, reply, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockReviewService) GetLatestReview(ctx context.Context, aipID string) (*model.ReviewEntry, error) {
	args := m.Called(ctx, aipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewEntry), args.Error(1)
}

func (m *MockReviewService) GetSubmissionDetail(ctx context.Context, aipID string, actor model.Actor) (*service.SubmissionDetail, error) {
	args := m.Called(ctx, aipID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmissionDetail), args.Error(1)
}
