// Package session wires the identity, profile, recipe, tip and engagement
// components into the state of one client: a set of live views a UI renders
// and the actions it triggers.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/localstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
	"github.com/pageza/recetario/internal/stream"
)

// FeaturedLimit is the number of recipes on the featured shelf.
const FeaturedLimit = 4

// View names, as used in change events.
const (
	ViewAccount     = "account"
	ViewRecipes     = "recipes"
	ViewSearch      = "search"
	ViewFeatured    = "featured"
	ViewMyRecipes   = "myRecipes"
	ViewFavorites   = "favorites"
	ViewRecipe      = "recipe"
	ViewTipOfTheDay = "tipOfTheDay"
	ViewProgress    = "progress"
)

// Options configures a Session.
type Options struct {
	Store    docstore.Store
	Provider identity.Provider
	KV       localstore.KV
	Clock    clock.Clock
	// Days re-selects the tip of the day on every emission. Optional.
	Days  stream.Source[time.Time]
	Epoch time.Time
}

// Session is the state of one client. Its views stay subscribed until
// Close.
type Session struct {
	identity   *identity.Session
	profiles   service.IProfileProjector
	recipes    service.IRecipeStore
	composer   service.IComposer
	tips       service.ITipEngine
	engagement service.IEngagement
	store      docstore.Store
	prefs      *localstore.Preferences

	route *stream.Subject[string]
	steps *stepTracker

	account   *stream.Subject[*service.Account]
	filtered  *stream.Subject[[]model.Recipe]
	search    *stream.Subject[[]model.Recipe]
	featured  *stream.Subject[[]model.Recipe]
	mine      *stream.Subject[[]model.Recipe]
	favorites *stream.Subject[[]model.Recipe]
	recipe    *stream.Subject[*model.Recipe]
	tip       *stream.Subject[*model.Tip]

	mu   sync.Mutex
	subs []stream.Subscription
}

// New builds the components and subscribes every view.
func New(opts Options) (*Session, error) {
	if opts.Store == nil || opts.Provider == nil {
		return nil, errors.New("session needs a store and an identity provider")
	}
	if opts.KV == nil {
		opts.KV = localstore.NewMemory()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}

	recipes := service.NewRecipeStore(opts.Store)
	s := &Session{
		identity:   identity.NewSession(opts.Provider),
		profiles:   service.NewProfileProjector(opts.Store, opts.Clock),
		recipes:    recipes,
		composer:   service.NewComposer(recipes),
		tips:       service.NewTipEngine(opts.Store, localstore.NewReactionLog(opts.KV), opts.Clock, opts.Days, opts.Epoch),
		engagement: service.NewEngagement(opts.Store, opts.Clock),
		store:      opts.Store,
		prefs:      localstore.NewPreferences(opts.KV),
		route:      stream.NewSubjectWith(""),
		steps:      newStepTracker(),
	}

	featured, err := s.composer.Featured(FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("featured view: %w", err)
	}

	accounts := s.profiles.Accounts(s.identity.User())
	s.account = mirror(s, accounts)
	s.filtered = mirror(s, s.composer.FilteredRecipes())
	s.search = mirror(s, s.composer.SearchResults())
	s.featured = mirror(s, featured)
	s.mine = mirror(s, stream.SwitchMap(s.identity.User(), s.authoredBy))
	s.favorites = mirror(s, s.composer.Favorites(s.account))
	s.recipe = mirror(s, stream.SwitchMap(stream.Source[string](s.route), s.recipes.Recipe))
	s.tip = mirror(s, s.tips.TipOfTheDay())
	return s, nil
}

// mirror keeps src subscribed for the life of the session and replays its
// latest value to any number of readers.
func mirror[T any](s *Session, src stream.Source[T]) *stream.Subject[T] {
	out := stream.NewSubject[T]()
	sub := src.Subscribe(out.Emit)
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return out
}

func (s *Session) authoredBy(id *identity.Identity) stream.Source[[]model.Recipe] {
	if id == nil {
		return stream.Of([]model.Recipe{})
	}
	src, err := s.composer.AuthoredBy(id.UID)
	if err != nil {
		log.Printf("[Session] my recipes query rejected: %v", err)
		return stream.Of([]model.Recipe{})
	}
	return src
}

// Close tears down every view subscription.
func (s *Session) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
