package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/mocks"
	"github.com/pageza/recetario/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregateRating(t *testing.T) {
	avg, count := AggregateRating(4.0, 3, 5)
	assert.InDelta(t, 4.25, avg, 1e-9)
	assert.Equal(t, 4, count)

	avg, count = AggregateRating(0, 0, 3)
	assert.InDelta(t, 3.0, avg, 1e-9)
	assert.Equal(t, 1, count)
}

func TestRateRecipe(t *testing.T) {
	store := newTestStore(t)
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()

	avg, count, err := e.RateRecipe(ctx, "r1", 5, 4.0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, avg, 1e-9)
	assert.Equal(t, 4, count)

	r, err := store.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.InDelta(t, 4.25, r.Rating, 1e-9)
	assert.Equal(t, 4, r.RatingCount)

	for _, stars := range []int{0, 6, -1} {
		_, _, err := e.RateRecipe(ctx, "r1", stars, 4.25, 4)
		assert.ErrorIs(t, err, ErrStarsOutOfRange)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestIncrementView(t *testing.T) {
	store := newTestStore(t)
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()

	require.NoError(t, e.IncrementView(ctx, "r2"))
	r, err := store.GetRecipe(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, int64(51), r.Views)

	err = e.IncrementView(ctx, "nope")
	assert.ErrorIs(t, err, ErrBackingStore)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestAddCommentValidation(t *testing.T) {
	store := mocks.NewMockStore()
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()

	_, err := e.AddComment(ctx, "r1", nil, nil, "rico")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = e.AddComment(ctx, "r1", &identity.Identity{UID: "u1"}, nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)

	store.AssertNotCalled(t, "AppendComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddComment(t *testing.T) {
	store := newTestStore(t)
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()
	who := &identity.Identity{UID: "u1", DisplayName: "Ana G", Email: "ana@example.com", PhotoURL: "https://img/ana.png"}

	c, err := e.AddComment(ctx, "r1", who, &model.UserProfile{DisplayName: "Chef Ana"}, "  ¡Deliciosa! ")
	require.NoError(t, err)
	assert.Equal(t, model.Comment{
		UID:      "u1",
		UserName: "Chef Ana",
		PhotoURL: "https://img/ana.png",
		Text:     "¡Deliciosa!",
		Date:     "2025-03-14T10:30:00Z",
	}, c)

	r, err := store.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []model.Comment{c}, r.Comments)
}

func TestResolveName(t *testing.T) {
	who := &identity.Identity{DisplayName: "Ana", Email: "ana.g@example.com"}
	assert.Equal(t, "Perfil", ResolveName(who, &model.UserProfile{DisplayName: "Perfil"}))
	assert.Equal(t, "Ana", ResolveName(who, &model.UserProfile{}))
	assert.Equal(t, "ana.g", ResolveName(&identity.Identity{Email: "ana.g@example.com"}, nil))
	assert.Equal(t, AnonymousName, ResolveName(&identity.Identity{}, nil))
	assert.Equal(t, AnonymousName, ResolveName(nil, nil))
}

func TestToggleFavoriteUsesAddAndRemove(t *testing.T) {
	store := mocks.NewMockStore()
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()
	who := &identity.Identity{UID: "u1"}

	store.On("AddFavorite", ctx, "u1", "r1").Return(nil).Once()
	added, err := e.ToggleFavorite(ctx, who, &model.UserProfile{}, "r1")
	require.NoError(t, err)
	assert.True(t, added)

	store.On("RemoveFavorite", ctx, "u1", "r1").Return(nil).Once()
	added, err = e.ToggleFavorite(ctx, who, &model.UserProfile{Favorites: []string{"r1"}}, "r1")
	require.NoError(t, err)
	assert.False(t, added)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MergeProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFavoriteTwiceRestoresSet(t *testing.T) {
	store := newTestStore(t)
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()
	who := &identity.Identity{UID: "u1"}
	require.NoError(t, store.AddFavorite(ctx, "u1", "r2"))

	before, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)

	_, err = e.ToggleFavorite(ctx, who, before, "r3")
	require.NoError(t, err)
	mid, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3"}, mid.Favorites)

	_, err = e.ToggleFavorite(ctx, who, mid, "r3")
	require.NoError(t, err)
	after, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.Favorites, after.Favorites)
}

func TestToggleFavoriteRequiresIdentity(t *testing.T) {
	e := NewEngagement(mocks.NewMockStore(), newTestClock())
	_, err := e.ToggleFavorite(context.Background(), nil, nil, "r1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestStoreFailureIsReported(t *testing.T) {
	store := newTestStore(t)
	e := NewEngagement(store, newTestClock())
	ctx := context.Background()
	store.FailWrites(errors.New("permission denied"))

	_, err := e.AddComment(ctx, "r1", &identity.Identity{UID: "u1"}, nil, "hola")
	assert.ErrorIs(t, err, ErrBackingStore)

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "add comment", serr.Op)

	added, err := e.ToggleFavorite(ctx, &identity.Identity{UID: "u1"}, nil, "r1")
	assert.ErrorIs(t, err, ErrBackingStore)
	assert.False(t, added)
}
