package session

import (
	"github.com/pageza/recetario/internal/localstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
	"github.com/pageza/recetario/internal/stream"
)

// Account is the signed-in user and profile, nil when signed out.
func (s *Session) Account() stream.Source[*service.Account] { return s.account }

// Recipes is the collection narrowed to the active category.
func (s *Session) Recipes() stream.Source[[]model.Recipe] { return s.filtered }

func (s *Session) SearchResults() stream.Source[[]model.Recipe] { return s.search }

func (s *Session) Featured() stream.Source[[]model.Recipe] { return s.featured }

// MyRecipes lists the signed-in user's own recipes.
func (s *Session) MyRecipes() stream.Source[[]model.Recipe] { return s.mine }

func (s *Session) Favorites() stream.Source[[]model.Recipe] { return s.favorites }

// OpenedRecipe is the recipe selected with OpenRecipe, nil when none is
// open or it does not exist.
func (s *Session) OpenedRecipe() stream.Source[*model.Recipe] { return s.recipe }

func (s *Session) TipOfTheDay() stream.Source[*model.Tip] { return s.tip }

// Progress tracks completed steps of the opened recipe.
func (s *Session) Progress() stream.Source[Progress] { return s.steps.current }

func (s *Session) Preferences() *localstore.Preferences { return s.prefs }

// CurrentAccount returns the latest account snapshot.
func (s *Session) CurrentAccount() *service.Account {
	a, _ := s.account.Value()
	return a
}

func (s *Session) Category() string   { return s.composer.Category() }
func (s *Session) SearchTerm() string { return s.composer.SearchTerm() }

// Snapshot returns the current value of a view by name.
func (s *Session) Snapshot(view string) (any, bool) {
	switch view {
	case ViewAccount:
		return value(s.account)
	case ViewRecipes:
		return value(s.filtered)
	case ViewSearch:
		return value(s.search)
	case ViewFeatured:
		return value(s.featured)
	case ViewMyRecipes:
		return value(s.mine)
	case ViewFavorites:
		return value(s.favorites)
	case ViewRecipe:
		return value(s.recipe)
	case ViewTipOfTheDay:
		return value(s.tip)
	case ViewProgress:
		return value(s.steps.current)
	}
	return nil, false
}

func value[T any](s *stream.Subject[T]) (any, bool) {
	v, ok := s.Value()
	return v, ok
}

// Watch calls fn with the view name and value on every emission of every
// view, starting with their current values.
func (s *Session) Watch(fn func(view string, v any)) stream.Subscription {
	subs := []stream.Subscription{
		watch(s.account, ViewAccount, fn),
		watch(s.filtered, ViewRecipes, fn),
		watch(s.search, ViewSearch, fn),
		watch(s.featured, ViewFeatured, fn),
		watch(s.mine, ViewMyRecipes, fn),
		watch(s.favorites, ViewFavorites, fn),
		watch(s.recipe, ViewRecipe, fn),
		watch(s.tip, ViewTipOfTheDay, fn),
		watch(s.steps.current, ViewProgress, fn),
	}
	return stream.SubscriptionFunc(func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	})
}

func watch[T any](src stream.Source[T], name string, fn func(string, any)) stream.Subscription {
	return src.Subscribe(func(v T) { fn(name, v) })
}
