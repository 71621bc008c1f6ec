package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
	"github.com/Open-AIP/OpenAIP-sub005/internal/service"
)

type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) CreateRoot(ctx context.Context, in service.CreateRootInput, actor model.Actor) (*model.FeedbackItem, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackService) CreateReply(ctx context.Context, in service.CreateReplyInput, actor model.Actor) (*model.FeedbackItem, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackService) ListThreadMessages(ctx context.Context, rootID string) ([]model.FeedbackItem, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackService) Moderate(ctx context.Context, id string, patch repository.FeedbackPatch, actor model.Actor) (*model.FeedbackItem, error) {
	args := m.Called(ctx, id, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackService) Remove(ctx context.Context, id string, actor model.Actor) (int64, error) {
	args := m.Called(ctx, id, actor)
	return args.Get(0).(int64), args.Error(1)
}
