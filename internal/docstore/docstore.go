// Package docstore defines the boundary to the backing document store: the
// primitives the client core needs (queries, point reads, atomic counters,
// array union/remove, field merges) and the change notifications that make
// live queries possible. It also ships an in-memory implementation.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/recetario/internal/model"
)

// Collection names.
const (
	Recipes = "recipes"
	Tips    = "tips"
	Users   = "users"
)

// MaxInQuery is the batch-lookup capacity of an id-set predicate.
const MaxInQuery = 30

var (
	ErrNotFound          = errors.New("document not found")
	ErrPredicateTooLarge = errors.New("id set exceeds batch lookup capacity")
	ErrInvalidQuery      = errors.New("invalid query")
)

// OrderField names a recipe field a query can be ordered by.
type OrderField string

const (
	FieldCreatedAt OrderField = "createdAt"
	FieldViews     OrderField = "views"
	FieldRating    OrderField = "rating"
	FieldTitle     OrderField = "title"
)

// Order is a field and a direction.
type Order struct {
	Field OrderField
	Desc  bool
}

// Query is the predicate specification of a recipe live query.
type Query struct {
	AuthorID string
	Category string
	// IDs restricts results to the given ids when non-nil. A non-nil empty
	// slice matches nothing.
	IDs     []string
	OrderBy *Order
	Limit   int
}

// Validate rejects predicates the backing store cannot serve.
func (q Query) Validate() error {
	if len(q.IDs) > MaxInQuery {
		return fmt.Errorf("%w: %d ids, capacity is %d", ErrPredicateTooLarge, len(q.IDs), MaxInQuery)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if q.OrderBy != nil {
		switch q.OrderBy.Field {
		case FieldCreatedAt, FieldViews, FieldRating, FieldTitle:
		default:
			return fmt.Errorf("%w: cannot order by %q", ErrInvalidQuery, q.OrderBy.Field)
		}
	}
	return nil
}

// MatchesNothing reports whether the id filter excludes every document.
func (q Query) MatchesNothing() bool {
	return q.IDs != nil && len(q.IDs) == 0
}

// ProfilePatch is a field merge on a user profile. Nil fields are left as
// they are; the document is created when it does not exist.
type ProfilePatch struct {
	DisplayName *string
	Email       *string
	PhotoURL    *string
	Bio         *string
	Role        *model.Role
	Level       *model.Level
	MemberSince *time.Time
	Stats       *model.Stats
	Badges      []string
	Settings    *model.Settings
}

// Apply merges the patch into p.
func (pp ProfilePatch) Apply(p *model.UserProfile) {
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Email != nil {
		p.Email = *pp.Email
	}
	if pp.PhotoURL != nil {
		p.PhotoURL = *pp.PhotoURL
	}
	if pp.Bio != nil {
		p.Bio = *pp.Bio
	}
	if pp.Role != nil {
		p.Role = *pp.Role
	}
	if pp.Level != nil {
		p.Level = *pp.Level
	}
	if pp.MemberSince != nil {
		p.MemberSince = *pp.MemberSince
	}
	if pp.Stats != nil {
		p.Stats = *pp.Stats
	}
	if pp.Badges != nil {
		p.Badges = append([]string(nil), pp.Badges...)
	}
	if pp.Settings != nil {
		p.Settings = *pp.Settings
	}
}

// Change identifies a written document.
type Change struct {
	Collection string
	ID         string
}

// Watcher delivers change notifications for a collection.
type Watcher interface {
	// Watch calls fn after every write to collection until cancel is called.
	Watch(collection string, fn func(Change)) (cancel func())
}

// Store is the backing document store.
type Store interface {
	Watcher

	QueryRecipes(ctx context.Context, q Query) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, r *model.Recipe) error
	IncrementViews(ctx context.Context, recipeID string) error
	AppendComment(ctx context.Context, recipeID string, c model.Comment) error
	SetRating(ctx context.Context, recipeID string, average float64, count int) error
	CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)

	ListTips(ctx context.Context) ([]model.Tip, error)
	CreateTip(ctx context.Context, t *model.Tip) error
	IncrementReaction(ctx context.Context, tipID string, r model.Reaction) error
	AppendTipComment(ctx context.Context, tipID string, c model.TipComment) error

	GetProfile(ctx context.Context, uid string) (*model.UserProfile, error)
	MergeProfile(ctx context.Context, uid string, patch ProfilePatch) error
	AddFavorite(ctx context.Context, uid, recipeID string) error
	RemoveFavorite(ctx context.Context, uid, recipeID string) error
}
