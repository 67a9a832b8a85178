package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeNormalize(t *testing.T) {
	r := Recipe{Title: "  Tacos ", Views: -3, Rating: 7.5, RatingCount: -1, PrepTime: -10}
	r.Normalize()

	assert.Equal(t, "Tacos", r.Title)
	assert.Equal(t, int64(0), r.Views)
	assert.Equal(t, float64(MaxRating), r.Rating)
	assert.Equal(t, 0, r.RatingCount)
	assert.Equal(t, 0, r.PrepTime)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Steps)
	assert.NotNil(t, r.Comments)
}

func TestRecipeCloneIsDeep(t *testing.T) {
	r := Recipe{Ingredients: []string{"harina"}, Comments: []Comment{{Text: "rico"}}}
	c := r.Clone()
	c.Ingredients[0] = "azúcar"
	c.Comments[0].Text = "otro"

	assert.Equal(t, "harina", r.Ingredients[0])
	assert.Equal(t, "rico", r.Comments[0].Text)
}

func TestParseReaction(t *testing.T) {
	r, err := ParseReaction(" Love ")
	require.NoError(t, err)
	assert.Equal(t, ReactionLove, r)

	_, err = ParseReaction("angry")
	assert.Error(t, err)
}

func TestReactionTally(t *testing.T) {
	tally := ReactionTally{Love: 2, Like: 1, Wow: 4}
	assert.Equal(t, int64(4), tally.Count(ReactionWow))
	assert.Equal(t, int64(7), tally.Total())
	assert.Equal(t, int64(0), tally.Count("meh"))
}

func TestProfileNormalize(t *testing.T) {
	long := make([]rune, MaxBioLength+20)
	for i := range long {
		long[i] = 'ñ'
	}
	p := UserProfile{
		Role:      "superuser",
		Level:     "",
		Bio:       string(long),
		Stats:     Stats{RecipesCount: -2, LikesReceived: 5},
		Badges:    []string{"foodie", "foodie", "", "chef-estrella"},
		Favorites: []string{"r1", "r2", "r1"},
		Settings:  Settings{FontSize: "huge"},
	}
	p.Normalize()

	assert.Equal(t, RoleUser, p.Role)
	assert.Equal(t, LevelNovice, p.Level)
	assert.Equal(t, FontMedium, p.Settings.FontSize)
	assert.Len(t, []rune(p.Bio), MaxBioLength)
	assert.Equal(t, 0, p.Stats.RecipesCount)
	assert.Equal(t, 5, p.Stats.LikesReceived)
	assert.Equal(t, []string{"foodie", "chef-estrella"}, p.Badges)
	assert.Equal(t, []string{"r1", "r2"}, p.Favorites)
}

func TestHasFavorite(t *testing.T) {
	var nilProfile *UserProfile
	assert.False(t, nilProfile.HasFavorite("r1"))

	p := &UserProfile{Favorites: []string{"r1"}}
	assert.True(t, p.HasFavorite("r1"))
	assert.False(t, p.HasFavorite("r2"))
}
