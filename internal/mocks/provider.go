package mocks

import (
	"context"

	"github.com/pageza/recetario/internal/identity"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of identity.Provider
type MockProvider struct {
	mock.Mock
}

var _ identity.Provider = (*MockProvider)(nil)

func (m *MockProvider) SignIn(ctx context.Context, credential string) (*identity.Identity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
