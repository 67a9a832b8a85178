package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func (r *recorder[T]) last(t *testing.T) T {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.values)
	return r.values[len(r.values)-1]
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

var testNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *docstore.Memory {
	t.Helper()
	m := docstore.NewMemory()
	ctx := context.Background()
	for i, r := range []model.Recipe{
		{ID: "r1", Title: "Pizza Margherita", Category: "Italiana", AuthorID: "u1", Views: 10, Rating: 4, RatingCount: 3},
		{ID: "r2", Title: "Tacos al pastor", Category: "Mexicana", AuthorID: "u2", Views: 50},
		{ID: "r3", Title: "Risotto", Category: "Italiana", AuthorID: "u1", Views: 5},
	} {
		r := r
		r.CreatedAt = testNow.Add(time.Duration(i) * time.Hour)
		require.NoError(t, m.CreateRecipe(ctx, &r))
	}
	return m
}

func newTestClock() *clock.Manual {
	return clock.NewManual(testNow)
}

func recipeIDs(recipes []model.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}
