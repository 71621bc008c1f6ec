package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Record(ctx context.Context, action, entityTable, entityID string, scope model.ScopeRef, metadata map[string]any) error {
	args := m.Called(ctx, action, entityTable, entityID, scope, metadata)
	return args.Error(0)
}
