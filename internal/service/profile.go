package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"unicode/utf8"

	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/stream"
)

// Account is the signed-in identity joined with its profile document.
// Profile is nil until the document exists.
type Account struct {
	Identity *identity.Identity
	Profile  *model.UserProfile
}

// ProfileProjector joins identities to their profile documents.
type ProfileProjector struct {
	store docstore.Store
	clock clock.Clock
}

var _ IProfileProjector = (*ProfileProjector)(nil)

func NewProfileProjector(store docstore.Store, clk clock.Clock) *ProfileProjector {
	return &ProfileProjector{store: store, clock: clk}
}

// Profile follows the profile of uid. Stats that can be derived are
// recomputed on every emission: the recipe count by counting the user's
// recipes and the favorites count from the favorites set.
func (p *ProfileProjector) Profile(uid string) stream.Source[*model.UserProfile] {
	if uid == "" {
		return stream.Of[*model.UserProfile](nil)
	}
	return liveQuery[*model.UserProfile]{
		name:        "profile " + uid,
		watcher:     p.store,
		collections: []string{docstore.Users, docstore.Recipes},
		relevant: func(c docstore.Change) bool {
			return c.Collection == docstore.Recipes || c.ID == "" || c.ID == uid
		},
		fetch: func(ctx context.Context) (*model.UserProfile, error) {
			prof, err := p.store.GetProfile(ctx, uid)
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			n, err := p.store.CountRecipesByAuthor(ctx, uid)
			if err != nil {
				return nil, err
			}
			prof.Stats.RecipesCount = int(n)
			prof.Stats.FavoritesCount = len(prof.Favorites)
			return prof, nil
		},
	}.source()
}

// Accounts joins every identity emission to the matching profile. Signing
// out or switching users tears down the previous profile subscription.
func (p *ProfileProjector) Accounts(users stream.Source[*identity.Identity]) stream.Source[*Account] {
	distinct := stream.Distinct(users, sameIdentity)
	return stream.SwitchMap(distinct, func(id *identity.Identity) stream.Source[*Account] {
		if id == nil {
			return stream.Of[*Account](nil)
		}
		return stream.Map(p.Profile(id.UID), func(prof *model.UserProfile) *Account {
			return &Account{Identity: id, Profile: prof}
		})
	})
}

func sameIdentity(a, b *identity.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EnsureProfile creates the profile of a freshly signed-in user. Existing
// profiles are left alone.
func (p *ProfileProjector) EnsureProfile(ctx context.Context, id *identity.Identity) error {
	if id == nil {
		return invalid("user", ErrUnauthenticated)
	}
	_, err := p.store.GetProfile(ctx, id.UID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return storeFailure("load profile", err)
	}

	name := id.DisplayName
	if name == "" {
		name = id.EmailLocalPart()
	}
	since := p.clock.Now().UTC()
	role := model.RoleUser
	level := model.LevelNovice
	settings := model.DefaultSettings()
	patch := docstore.ProfilePatch{
		DisplayName: &name,
		Email:       &id.Email,
		PhotoURL:    &id.PhotoURL,
		Role:        &role,
		Level:       &level,
		MemberSince: &since,
		Settings:    &settings,
		Badges:      []string{},
	}
	if err := p.store.MergeProfile(ctx, id.UID, patch); err != nil {
		return storeFailure("create profile", err)
	}
	log.Printf("[ProfileProjector] created profile for %s", id.UID)
	return nil
}

// ProfileUpdate holds the user-editable profile fields.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	PhotoURL    *string
	Settings    *model.Settings
}

// UpdateProfile merges the edited fields into the signed-in user's profile.
func (p *ProfileProjector) UpdateProfile(ctx context.Context, who *identity.Identity, u ProfileUpdate) error {
	if who == nil {
		return invalid("user", ErrUnauthenticated)
	}
	if u.Bio != nil && utf8.RuneCountInString(*u.Bio) > model.MaxBioLength {
		return &ValidationError{Field: "bio", Message: "bio is too long"}
	}
	if u.Settings != nil {
		if _, ok := model.ParseFontSize(string(u.Settings.FontSize)); !ok {
			return &ValidationError{Field: "settings.fontSize", Message: "unknown font size"}
		}
	}
	patch := docstore.ProfilePatch{
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		PhotoURL:    u.PhotoURL,
		Settings:    u.Settings,
	}
	if err := p.store.MergeProfile(ctx, who.UID, patch); err != nil {
		return storeFailure("update profile", err)
	}
	return nil
}

// favoriteIDs returns a copy of the favorites of the account, or nil.
func favoriteIDs(a *Account) []string {
	if a == nil || a.Profile == nil {
		return nil
	}
	return slices.Clone(a.Profile.Favorites)
}
