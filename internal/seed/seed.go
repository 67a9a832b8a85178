// Package seed loads the bundled demo recipes and tips into a store.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// RecipeFixture is a recipe as written in the fixture files.
type RecipeFixture struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	ImageURL    string    `yaml:"imageUrl"`
	Category    string    `yaml:"category"`
	Difficulty  string    `yaml:"difficulty"`
	PrepTime    int       `yaml:"prepTime"`
	Servings    int       `yaml:"servings"`
	Ingredients []string  `yaml:"ingredients"`
	Steps       []string  `yaml:"steps"`
	AuthorID    string    `yaml:"authorId"`
	AuthorName  string    `yaml:"authorName"`
	AuthorPhoto string    `yaml:"authorPhoto"`
	Views       int64     `yaml:"views"`
	Rating      float64   `yaml:"rating"`
	RatingCount int       `yaml:"ratingCount"`
	CreatedAt   time.Time `yaml:"createdAt"`
}

func (f RecipeFixture) recipe() model.Recipe {
	return model.Recipe{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Category:    f.Category,
		Difficulty:  f.Difficulty,
		PrepTime:    f.PrepTime,
		Servings:    f.Servings,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
		AuthorID:    f.AuthorID,
		AuthorName:  f.AuthorName,
		AuthorPhoto: f.AuthorPhoto,
		Views:       f.Views,
		Rating:      f.Rating,
		RatingCount: f.RatingCount,
		CreatedAt:   f.CreatedAt,
	}
}

type TipFixture struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
	Date string `yaml:"date"`
}

// Fixtures are the parsed fixture files.
type Fixtures struct {
	Recipes []RecipeFixture
	Tips    []TipFixture
}

// Result counts what Load wrote.
type Result struct {
	Recipes int
	Tips    int
	Skipped int
}

// Bundled parses the embedded fixtures.
func Bundled() (*Fixtures, error) {
	f := &Fixtures{}
	if err := decode("fixtures/recipes.yaml", &f.Recipes); err != nil {
		return nil, err
	}
	if err := decode("fixtures/tips.yaml", &f.Tips); err != nil {
		return nil, err
	}
	return f, nil
}

func decode(name string, out any) error {
	data, err := fixtures.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Load writes the fixtures to store. Documents whose id already exists are
// left untouched, so running it twice is harmless.
func Load(ctx context.Context, store docstore.Store, f *Fixtures) (Result, error) {
	var res Result
	for _, rf := range f.Recipes {
		_, err := store.GetRecipe(ctx, rf.ID)
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, docstore.ErrNotFound):
			return res, fmt.Errorf("failed to look up recipe %s: %w", rf.ID, err)
		}
		r := rf.recipe()
		if err := store.CreateRecipe(ctx, &r); err != nil {
			return res, fmt.Errorf("failed to create recipe %s: %w", rf.ID, err)
		}
		res.Recipes++
	}

	existing, err := store.ListTips(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list tips: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.ID] = true
	}
	for _, tf := range f.Tips {
		if have[tf.ID] {
			res.Skipped++
			continue
		}
		t := model.Tip{ID: tf.ID, Text: tf.Text, Date: tf.Date}
		if err := store.CreateTip(ctx, &t); err != nil {
			return res, fmt.Errorf("failed to create tip %s: %w", tf.ID, err)
		}
		res.Tips++
	}

	log.Printf("[Seed] created %d recipes and %d tips, skipped %d existing", res.Recipes, res.Tips, res.Skipped)
	return res, nil
}
