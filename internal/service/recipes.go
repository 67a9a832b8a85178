package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/stream"
)

// RecipeStore exposes live queries over the recipe collection.
type RecipeStore struct {
	store docstore.Store
}

var _ IRecipeStore = (*RecipeStore)(nil)

func NewRecipeStore(store docstore.Store) *RecipeStore {
	return &RecipeStore{store: store}
}

// Recipes is a live query. Every subscriber receives the full matching list
// on subscription and again after every write to the collection. Predicates
// the store cannot serve are rejected here, before anything subscribes.
func (s *RecipeStore) Recipes(q docstore.Query) (stream.Source[[]model.Recipe], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return stream.Of([]model.Recipe{}), nil
	}
	if q.IDs != nil {
		q.IDs = slices.Clone(q.IDs)
	}
	if q.OrderBy != nil {
		order := *q.OrderBy
		q.OrderBy = &order
	}
	return s.query(q), nil
}

func (s *RecipeStore) query(q docstore.Query) stream.Source[[]model.Recipe] {
	return liveQuery[[]model.Recipe]{
		name:        fmt.Sprintf("recipes author=%q category=%q ids=%d", q.AuthorID, q.Category, len(q.IDs)),
		watcher:     s.store,
		collections: []string{docstore.Recipes},
		fetch: func(ctx context.Context) ([]model.Recipe, error) {
			return s.store.QueryRecipes(ctx, q)
		},
	}.source()
}

// All follows the whole collection in the store's native order.
func (s *RecipeStore) All() stream.Source[[]model.Recipe] {
	return s.query(docstore.Query{})
}

// Recipe follows a single recipe. It emits nil while the document does not
// exist.
func (s *RecipeStore) Recipe(id string) stream.Source[*model.Recipe] {
	if id == "" {
		return stream.Of[*model.Recipe](nil)
	}
	return liveQuery[*model.Recipe]{
		name:        "recipe " + id,
		watcher:     s.store,
		collections: []string{docstore.Recipes},
		relevant: func(c docstore.Change) bool {
			return c.ID == "" || c.ID == id
		},
		fetch: func(ctx context.Context) (*model.Recipe, error) {
			r, err := s.store.GetRecipe(ctx, id)
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, nil
			}
			return r, err
		},
	}.source()
}
