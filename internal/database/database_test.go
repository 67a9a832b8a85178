package database

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	db, err := Open(testhelpers.SQLiteConfig(t))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, ""))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedRecipes(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for i, r := range []model.Recipe{
		{ID: "r1", Title: "Pizza", Category: "Italiana", AuthorID: "u1", Views: 10, Ingredients: []string{"harina"}},
		{ID: "r2", Title: "Tacos", Category: "Mexicana", AuthorID: "u2", Views: 50},
		{ID: "r3", Title: "Risotto", Category: "Italiana", AuthorID: "u1", Views: 5},
	} {
		r.CreatedAt = created.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.CreateRecipe(ctx, &r))
	}
}

func ids(rs []model.Recipe) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestQueryRecipes(t *testing.T) {
	s := openSQLite(t)
	seedRecipes(t, s)
	ctx := context.Background()

	all, err := s.QueryRecipes(ctx, docstore.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(all))
	assert.Equal(t, []string{"harina"}, all[0].Ingredients)

	byAuthor, err := s.QueryRecipes(ctx, docstore.Query{AuthorID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3"}, ids(byAuthor))

	featured, err := s.QueryRecipes(ctx, docstore.Query{
		OrderBy: &docstore.Order{Field: docstore.FieldViews, Desc: true},
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1"}, ids(featured))

	some, err := s.QueryRecipes(ctx, docstore.Query{IDs: []string{"r3", "missing"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, ids(some))

	none, err := s.QueryRecipes(ctx, docstore.Query{IDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.QueryRecipes(ctx, docstore.Query{IDs: make([]string, docstore.MaxInQuery+1)})
	assert.ErrorIs(t, err, docstore.ErrPredicateTooLarge)
}

func TestRecipeWrites(t *testing.T) {
	s := openSQLite(t)
	seedRecipes(t, s)
	ctx := context.Background()

	var changes []docstore.Change
	cancel := s.Watch(docstore.Recipes, func(c docstore.Change) { changes = append(changes, c) })
	defer cancel()

	require.NoError(t, s.IncrementViews(ctx, "r1"))
	require.NoError(t, s.AppendComment(ctx, "r1", model.Comment{UID: "u2", UserName: "Luis", Text: "Rica", Date: "2025-03-14T10:30:00Z"}))
	require.NoError(t, s.AppendComment(ctx, "r1", model.Comment{UID: "u3", UserName: "Eva", Text: "Otra", Date: "2025-03-14T10:31:00Z"}))
	require.NoError(t, s.SetRating(ctx, "r1", 4.25, 4))

	r, err := s.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), r.Views)
	assert.Equal(t, 4.25, r.Rating)
	assert.Equal(t, 4, r.RatingCount)
	require.Len(t, r.Comments, 2)
	assert.Equal(t, "Rica", r.Comments[0].Text)
	assert.Equal(t, "Otra", r.Comments[1].Text)
	assert.Len(t, changes, 4)

	assert.ErrorIs(t, s.IncrementViews(ctx, "nope"), docstore.ErrNotFound)
	assert.ErrorIs(t, s.AppendComment(ctx, "nope", model.Comment{Text: "x"}), docstore.ErrNotFound)
	_, err = s.GetRecipe(ctx, "nope")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	n, err := s.CountRecipesByAuthor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTips(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.CreateTip(ctx, &model.Tip{ID: "t2", Text: "Sal al final"}))
	require.NoError(t, s.CreateTip(ctx, &model.Tip{ID: "t1", Text: "Agua fría"}))

	require.NoError(t, s.IncrementReaction(ctx, "t1", model.ReactionLove))
	require.NoError(t, s.IncrementReaction(ctx, "t1", model.ReactionLove))
	require.NoError(t, s.IncrementReaction(ctx, "t1", model.ReactionWow))
	require.NoError(t, s.AppendTipComment(ctx, "t1", model.TipComment{UserName: "Ana", Text: "Gracias"}))
	assert.ErrorIs(t, s.IncrementReaction(ctx, "t9", model.ReactionLike), docstore.ErrNotFound)

	tips, err := s.ListTips(ctx)
	require.NoError(t, err)
	require.Len(t, tips, 2)
	assert.Equal(t, "t1", tips[0].ID)
	assert.Equal(t, model.ReactionTally{Love: 2, Wow: 1}, tips[0].Reactions)
	require.Len(t, tips[0].Comments, 1)
	assert.Equal(t, "Gracias", tips[0].Comments[0].Text)
}

func TestProfilesAndFavorites(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	name := "Ana"
	bio := "Cocino los domingos"
	require.NoError(t, s.MergeProfile(ctx, "u1", docstore.ProfilePatch{DisplayName: &name}))
	require.NoError(t, s.MergeProfile(ctx, "u1", docstore.ProfilePatch{Bio: &bio}))

	require.NoError(t, s.AddFavorite(ctx, "u1", "r2"))
	require.NoError(t, s.AddFavorite(ctx, "u1", "r1"))
	require.NoError(t, s.AddFavorite(ctx, "u1", "r2"))

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, bio, p.Bio)
	assert.Equal(t, model.RoleUser, p.Role)
	assert.Equal(t, []string{"r2", "r1"}, p.Favorites)

	require.NoError(t, s.RemoveFavorite(ctx, "u1", "r2"))
	require.NoError(t, s.RemoveFavorite(ctx, "u1", "r2"))
	p, err = s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, p.Favorites)

	require.NoError(t, s.AddFavorite(ctx, "u9", "r1"))
	p, err = s.GetProfile(ctx, "u9")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, p.Favorites)
}

func TestPostgresChangeFeed(t *testing.T) {
	cfg := testhelpers.SetupPostgres(t)
	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, "../../migrations"))

	writer := NewStore(db)
	reader := NewStore(db)

	l, err := NewListener(DSN(cfg), reader)
	require.NoError(t, err)
	defer l.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	seen := make(chan docstore.Change, 4)
	stop := reader.Watch(docstore.Tips, func(c docstore.Change) { seen <- c })
	defer stop()

	require.NoError(t, writer.CreateTip(context.Background(), &model.Tip{ID: "t1", Text: "Hola"}))

	select {
	case c := <-seen:
		assert.Equal(t, docstore.Change{Collection: docstore.Tips, ID: "t1"}, c)
	case <-time.After(10 * time.Second):
		t.Fatal("change was not relayed")
	}
}
