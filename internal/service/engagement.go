package service

import (
	"context"
	"strings"
	"time"

	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/model"
)

// AnonymousName is shown for commenters without any usable name.
const AnonymousName = "Anónimo"

// Star bounds of a rating.
const (
	MinStars = 1
	MaxStars = 5
)

// Engagement performs the user-triggered writes on recipes. Inputs are
// validated before the store is touched; store failures are logged and
// returned, never retried.
type Engagement struct {
	store docstore.Store
	clock clock.Clock
}

var _ IEngagement = (*Engagement)(nil)

func NewEngagement(store docstore.Store, clk clock.Clock) *Engagement {
	return &Engagement{store: store, clock: clk}
}

// IncrementView counts one view of recipeID.
func (e *Engagement) IncrementView(ctx context.Context, recipeID string) error {
	if recipeID == "" {
		return invalid("recipeId", ErrMissingID)
	}
	if err := e.store.IncrementViews(ctx, recipeID); err != nil {
		return storeFailure("increment views", err)
	}
	return nil
}

// AddComment appends a comment by who to recipeID.
func (e *Engagement) AddComment(ctx context.Context, recipeID string, who *identity.Identity, profile *model.UserProfile, text string) (model.Comment, error) {
	if who == nil {
		return model.Comment{}, invalid("user", ErrUnauthenticated)
	}
	if recipeID == "" {
		return model.Comment{}, invalid("recipeId", ErrMissingID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, invalid("text", ErrEmptyText)
	}

	photo := who.PhotoURL
	if profile != nil && profile.PhotoURL != "" {
		photo = profile.PhotoURL
	}
	c := model.Comment{
		UID:      who.UID,
		UserName: ResolveName(who, profile),
		PhotoURL: photo,
		Text:     text,
		Date:     timestamp(e.clock),
	}
	if err := e.store.AppendComment(ctx, recipeID, c); err != nil {
		return model.Comment{}, storeFailure("add comment", err)
	}
	return c, nil
}

// ToggleFavorite adds recipeID to the favorites of who when absent and
// removes it when present, judged from profile. It reports whether the
// recipe was added.
func (e *Engagement) ToggleFavorite(ctx context.Context, who *identity.Identity, profile *model.UserProfile, recipeID string) (bool, error) {
	if who == nil {
		return false, invalid("user", ErrUnauthenticated)
	}
	if recipeID == "" {
		return false, invalid("recipeId", ErrMissingID)
	}
	if profile.HasFavorite(recipeID) {
		if err := e.store.RemoveFavorite(ctx, who.UID, recipeID); err != nil {
			return false, storeFailure("remove favorite", err)
		}
		return false, nil
	}
	if err := e.store.AddFavorite(ctx, who.UID, recipeID); err != nil {
		return false, storeFailure("add favorite", err)
	}
	return true, nil
}

// RateRecipe folds stars into the recipe's running mean and returns the new
// average and count.
func (e *Engagement) RateRecipe(ctx context.Context, recipeID string, stars int, currentAverage float64, currentCount int) (float64, int, error) {
	if recipeID == "" {
		return currentAverage, currentCount, invalid("recipeId", ErrMissingID)
	}
	if stars < MinStars || stars > MaxStars {
		return currentAverage, currentCount, invalid("stars", ErrStarsOutOfRange)
	}
	avg, count := AggregateRating(currentAverage, currentCount, stars)
	if err := e.store.SetRating(ctx, recipeID, avg, count); err != nil {
		return currentAverage, currentCount, storeFailure("rate recipe", err)
	}
	return avg, count, nil
}

// AggregateRating adds one rating of stars to a mean of average over count
// ratings.
func AggregateRating(average float64, count, stars int) (float64, int) {
	if count < 0 {
		count = 0
	}
	next := count + 1
	return (average*float64(count) + float64(stars)) / float64(next), next
}

// ResolveName picks the display name of a commenter: the profile name, then
// the identity name, then the email local part.
func ResolveName(who *identity.Identity, profile *model.UserProfile) string {
	if profile != nil {
		if n := strings.TrimSpace(profile.DisplayName); n != "" {
			return n
		}
	}
	if who != nil {
		if n := strings.TrimSpace(who.DisplayName); n != "" {
			return n
		}
		if local := who.EmailLocalPart(); local != "" {
			return local
		}
	}
	return AnonymousName
}

func timestamp(c clock.Clock) string {
	return c.Now().UTC().Format(time.RFC3339Nano)
}
