package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

type MockReviewLedger struct {
	mock.Mock
}

func (m *MockReviewLedger) Append(ctx context.Context, entry *model.ReviewEntry) (*model.ReviewEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewEntry), args.Error(1)
}

func (m *MockReviewLedger) ListByAip(ctx context.Context, aipID string) ([]model.ReviewEntry, error) {
	args := m.Called(ctx, aipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReviewEntry), args.Error(1)
}

func (m *MockReviewLedger) Latest(ctx context.Context, aipID string) (*model.ReviewEntry, error) {
	args := m.Called(ctx, aipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewEntry), args.Error(1)
}
