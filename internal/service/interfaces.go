package service

import (
	"context"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/stream"
)

// IRecipeStore defines live queries over recipes
type IRecipeStore interface {
	Recipes(q docstore.Query) (stream.Source[[]model.Recipe], error)
	All() stream.Source[[]model.Recipe]
	Recipe(id string) stream.Source[*model.Recipe]
}

// IProfileProjector defines the identity to profile join
type IProfileProjector interface {
	Profile(uid string) stream.Source[*model.UserProfile]
	Accounts(users stream.Source[*identity.Identity]) stream.Source[*Account]
	EnsureProfile(ctx context.Context, id *identity.Identity) error
	UpdateProfile(ctx context.Context, who *identity.Identity, u ProfileUpdate) error
}

// IComposer defines the derived recipe views
type IComposer interface {
	SetSearchTerm(term string)
	SetCategoryFilter(category string)
	Category() string
	SearchTerm() string
	FilteredRecipes() stream.Source[[]model.Recipe]
	SearchResults() stream.Source[[]model.Recipe]
	Featured(limit int) (stream.Source[[]model.Recipe], error)
	AuthoredBy(authorID string) (stream.Source[[]model.Recipe], error)
	Favorites(accounts stream.Source[*Account]) stream.Source[[]model.Recipe]
}

// ITipEngine defines tip rotation and reactions
type ITipEngine interface {
	Tips() stream.Source[[]model.Tip]
	TipOfTheDay() stream.Source[*model.Tip]
	React(ctx context.Context, tipID string, reaction model.Reaction) (model.Reaction, bool, error)
	MyReaction(ctx context.Context, tipID string) (model.Reaction, bool, error)
	AddComment(ctx context.Context, tipID string, who *identity.Identity, profile *model.UserProfile, text string) (model.TipComment, error)
}

// IEngagement defines the recipe mutators
type IEngagement interface {
	IncrementView(ctx context.Context, recipeID string) error
	AddComment(ctx context.Context, recipeID string, who *identity.Identity, profile *model.UserProfile, text string) (model.Comment, error)
	ToggleFavorite(ctx context.Context, who *identity.Identity, profile *model.UserProfile, recipeID string) (bool, error)
	RateRecipe(ctx context.Context, recipeID string, stars int, currentAverage float64, currentCount int) (float64, int, error)
}
