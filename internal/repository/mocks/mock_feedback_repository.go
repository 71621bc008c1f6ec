package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, item *model.FeedbackItem) (*model.FeedbackItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) FindByID(ctx context.Context, id string) (*model.FeedbackItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) ListChildren(ctx context.Context, parentID string) ([]model.FeedbackItem, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) ListThread(ctx context.Context, rootID string) ([]model.FeedbackItem, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) ListByTarget(ctx context.Context, target model.FeedbackTarget) ([]model.FeedbackItem, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) Update(ctx context.Context, id string, patch repository.FeedbackPatch) (*model.FeedbackItem, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedbackItem), args.Error(1)
}

func (m *MockFeedbackRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}
