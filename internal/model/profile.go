package model

import (
	"slices"
	"strings"
	"time"
)

// MaxBioLength bounds the profile bio, in runes.
const MaxBioLength = 280

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Level is the activity level shown on a profile. It is assigned outside
// this client.
type Level string

const (
	LevelNovice Level = "Novato"
	LevelCook   Level = "Cocinero"
	LevelChef   Level = "Chef"
	LevelExpert Level = "Experto"
)

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// ParseFontSize returns the font size named by s, or false.
func ParseFontSize(s string) (FontSize, bool) {
	switch f := FontSize(strings.ToLower(strings.TrimSpace(s))); f {
	case FontSmall, FontMedium, FontLarge:
		return f, true
	}
	return "", false
}

type Stats struct {
	RecipesCount   int `json:"recipesCount" bson:"recipesCount"`
	FollowersCount int `json:"followersCount" bson:"followersCount"`
	FollowingCount int `json:"followingCount" bson:"followingCount"`
	FavoritesCount int `json:"favoritesCount" bson:"favoritesCount"`
	LikesReceived  int `json:"likesReceived" bson:"likesReceived"`
}

type Settings struct {
	DarkMode      bool     `json:"darkMode" bson:"darkMode"`
	FontSize      FontSize `json:"fontSize" bson:"fontSize"`
	Notifications bool     `json:"notifications" bson:"notifications"`
}

// DefaultSettings are applied to freshly created profiles.
func DefaultSettings() Settings {
	return Settings{FontSize: FontMedium, Notifications: true}
}

// UserProfile is the per-user document keyed by the identity uid.
// Favorites is the only source of truth for favorite membership.
type UserProfile struct {
	UID         string    `json:"uid" bson:"_id"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	Email       string    `json:"email" bson:"email"`
	PhotoURL    string    `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Bio         string    `json:"bio" bson:"bio"`
	Role        Role      `json:"role" bson:"role"`
	Level       Level     `json:"level" bson:"level"`
	MemberSince time.Time `json:"memberSince" bson:"memberSince"`
	Stats       Stats     `json:"stats" bson:"stats"`
	Badges      []string  `json:"badges" bson:"badges"`
	Settings    Settings  `json:"settings" bson:"settings"`
	Favorites   []string  `json:"favorites" bson:"favorites"`
}

// Normalize coerces a record read from the backing store into a valid shape.
func (p *UserProfile) Normalize() {
	switch p.Role {
	case RoleUser, RoleAdmin:
	default:
		p.Role = RoleUser
	}
	switch p.Level {
	case LevelNovice, LevelCook, LevelChef, LevelExpert:
	default:
		p.Level = LevelNovice
	}
	if _, ok := ParseFontSize(string(p.Settings.FontSize)); !ok {
		p.Settings.FontSize = FontMedium
	}
	p.Bio = TruncateRunes(p.Bio, MaxBioLength)
	p.Stats.RecipesCount = nonNegative(p.Stats.RecipesCount)
	p.Stats.FollowersCount = nonNegative(p.Stats.FollowersCount)
	p.Stats.FollowingCount = nonNegative(p.Stats.FollowingCount)
	p.Stats.FavoritesCount = nonNegative(p.Stats.FavoritesCount)
	p.Stats.LikesReceived = nonNegative(p.Stats.LikesReceived)
	p.Badges = dedupe(p.Badges)
	p.Favorites = dedupe(p.Favorites)
}

// HasFavorite reports whether recipeID is among the favorites.
func (p *UserProfile) HasFavorite(recipeID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.Favorites {
		if id == recipeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Badges = slices.Clone(p.Badges)
	out.Favorites = slices.Clone(p.Favorites)
	return out
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
