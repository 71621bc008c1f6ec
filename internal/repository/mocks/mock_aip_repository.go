package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

type MockAipRepository struct {
	mock.Mock
}

func (m *MockAipRepository) Create(ctx context.Context, aip *model.Aip) (*model.Aip, error) {
	args := m.Called(ctx, aip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Aip), args.Error(1)
}

func (m *MockAipRepository) FindByID(ctx context.Context, id string) (*model.Aip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Aip), args.Error(1)
}

func (m *MockAipRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Aip], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Aip]), args.Error(1)
}

func (m *MockAipRepository) UpdateStatusIf(ctx context.Context, u repository.StatusUpdate) (bool, error) {
	args := m.Called(ctx, u)
	return args.Bool(0), args.Error(1)
}
