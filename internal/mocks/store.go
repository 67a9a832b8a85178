package mocks

import (
	"context"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of docstore.Store. Watch registrations
// go to a real broker so tests can publish changes.
type MockStore struct {
	mock.Mock
	*docstore.Broker
}

var _ docstore.Store = (*MockStore)(nil)

// NewMockStore creates a MockStore with an empty broker
func NewMockStore() *MockStore {
	return &MockStore{Broker: docstore.NewBroker()}
}

// QueryRecipes mocks the QueryRecipes method
func (m *MockStore) QueryRecipes(ctx context.Context, q docstore.Query) ([]model.Recipe, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockStore) CreateRecipe(ctx context.Context, r *model.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// IncrementViews mocks the IncrementViews method
func (m *MockStore) IncrementViews(ctx context.Context, recipeID string) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

// AppendComment mocks the AppendComment method
func (m *MockStore) AppendComment(ctx context.Context, recipeID string, c model.Comment) error {
	args := m.Called(ctx, recipeID, c)
	return args.Error(0)
}

// SetRating mocks the SetRating method
func (m *MockStore) SetRating(ctx context.Context, recipeID string, average float64, count int) error {
	args := m.Called(ctx, recipeID, average, count)
	return args.Error(0)
}

// CountRecipesByAuthor mocks the CountRecipesByAuthor method
func (m *MockStore) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// ListTips mocks the ListTips method
func (m *MockStore) ListTips(ctx context.Context) ([]model.Tip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tip), args.Error(1)
}

// CreateTip mocks the CreateTip method
func (m *MockStore) CreateTip(ctx context.Context, t *model.Tip) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// IncrementReaction mocks the IncrementReaction method
func (m *MockStore) IncrementReaction(ctx context.Context, tipID string, r model.Reaction) error {
	args := m.Called(ctx, tipID, r)
	return args.Error(0)
}

// AppendTipComment mocks the AppendTipComment method
func (m *MockStore) AppendTipComment(ctx context.Context, tipID string, c model.TipComment) error {
	args := m.Called(ctx, tipID, c)
	return args.Error(0)
}

// GetProfile mocks the GetProfile method
func (m *MockStore) GetProfile(ctx context.Context, uid string) (*model.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

// MergeProfile mocks the MergeProfile method
func (m *MockStore) MergeProfile(ctx context.Context, uid string, patch docstore.ProfilePatch) error {
	args := m.Called(ctx, uid, patch)
	return args.Error(0)
}

// AddFavorite mocks the AddFavorite method
func (m *MockStore) AddFavorite(ctx context.Context, uid, recipeID string) error {
	args := m.Called(ctx, uid, recipeID)
	return args.Error(0)
}

// RemoveFavorite mocks the RemoveFavorite method
func (m *MockStore) RemoveFavorite(ctx context.Context, uid, recipeID string) error {
	args := m.Called(ctx, uid, recipeID)
	return args.Error(0)
}
