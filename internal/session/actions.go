package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
)

// ErrNoRecipeOpen is returned by step actions when no recipe is open.
var ErrNoRecipeOpen = errors.New("no recipe is open")

// SignIn authenticates and makes sure the user has a profile document. The
// identity is returned even when the profile could not be created.
func (s *Session) SignIn(ctx context.Context, credential string) (*identity.Identity, error) {
	id, err := s.identity.SignIn(ctx, credential)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.EnsureProfile(ctx, id); err != nil {
		return id, err
	}
	log.Printf("[Session] signed in %s", id.UID)
	return id, nil
}

func (s *Session) SignOut(ctx context.Context) error {
	return s.identity.SignOut(ctx)
}

// User returns the signed-in identity, or nil.
func (s *Session) User() *identity.Identity {
	return s.identity.Current()
}

func (s *Session) profile() *model.UserProfile {
	if a := s.CurrentAccount(); a != nil {
		return a.Profile
	}
	return nil
}

func (s *Session) UpdateProfile(ctx context.Context, u service.ProfileUpdate) error {
	return s.profiles.UpdateProfile(ctx, s.User(), u)
}

func (s *Session) SetSearchTerm(term string) { s.composer.SetSearchTerm(term) }

// SetCategoryFilter selects category, or clears it when already selected.
func (s *Session) SetCategoryFilter(category string) { s.composer.SetCategoryFilter(category) }

// OpenRecipe switches the opened recipe to id and counts a view. The
// previous recipe's subscription is torn down before the new one starts.
func (s *Session) OpenRecipe(ctx context.Context, id string) error {
	s.steps.reset(id)
	s.route.Emit(id)
	if id == "" {
		return nil
	}
	return s.engagement.IncrementView(ctx, id)
}

// CloseRecipe clears the opened recipe.
func (s *Session) CloseRecipe() {
	s.steps.reset("")
	s.route.Emit("")
}

// ToggleStep marks step i of the opened recipe done or not done.
func (s *Session) ToggleStep(i int) (Progress, error) {
	r, _ := s.recipe.Value()
	if r == nil {
		return Progress{}, ErrNoRecipeOpen
	}
	p, ok := s.steps.toggle(r.ID, i, len(r.Steps))
	if !ok {
		return p, &service.ValidationError{Field: "step", Message: fmt.Sprintf("recipe has no step %d", i)}
	}
	return p, nil
}

func (s *Session) AddComment(ctx context.Context, recipeID, text string) (model.Comment, error) {
	return s.engagement.AddComment(ctx, recipeID, s.User(), s.profile(), text)
}

// ToggleFavorite flips recipeID in the user's favorites and reports whether
// it is now a favorite. Membership is read from the store, not from the
// account view, which may not have caught up with the previous toggle yet.
func (s *Session) ToggleFavorite(ctx context.Context, recipeID string) (bool, error) {
	who := s.User()
	if who == nil || recipeID == "" {
		return s.engagement.ToggleFavorite(ctx, who, nil, recipeID)
	}
	profile, err := s.store.GetProfile(ctx, who.UID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return false, &service.StoreError{Op: "load profile", Err: err}
	}
	return s.engagement.ToggleFavorite(ctx, who, profile, recipeID)
}

// RateRecipe adds a rating of stars to recipeID. The current aggregate is
// read from the store so back-to-back ratings never fold into the same
// stale mean.
func (s *Session) RateRecipe(ctx context.Context, recipeID string, stars int) (float64, int, error) {
	if recipeID == "" {
		return s.engagement.RateRecipe(ctx, recipeID, stars, 0, 0)
	}
	r, err := s.store.GetRecipe(ctx, recipeID)
	if errors.Is(err, docstore.ErrNotFound) {
		return 0, 0, err
	}
	if err != nil {
		return 0, 0, &service.StoreError{Op: "load recipe", Err: err}
	}
	return s.engagement.RateRecipe(ctx, recipeID, stars, r.Rating, r.RatingCount)
}

// React records this client's reaction to a tip, once.
func (s *Session) React(ctx context.Context, tipID string, reaction model.Reaction) (model.Reaction, bool, error) {
	return s.tips.React(ctx, tipID, reaction)
}

func (s *Session) MyReaction(ctx context.Context, tipID string) (model.Reaction, bool, error) {
	return s.tips.MyReaction(ctx, tipID)
}

func (s *Session) CommentOnTip(ctx context.Context, tipID, text string) (model.TipComment, error) {
	return s.tips.AddComment(ctx, tipID, s.User(), s.profile(), text)
}
