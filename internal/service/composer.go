package service

import (
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/stream"
	"golang.org/x/text/cases"
)

// SearchLimit caps the quick-search result list.
const SearchLimit = 5

// Composer derives the recipe lists a view renders from the live recipe
// collection and the client's filter state.
type Composer struct {
	recipes  *RecipeStore
	all      stream.Source[[]model.Recipe]
	mu       sync.Mutex
	category *stream.Subject[string]
	term     *stream.Subject[string]
}

var _ IComposer = (*Composer)(nil)

// NewComposer starts with no category and an empty search term.
func NewComposer(recipes *RecipeStore) *Composer {
	return &Composer{
		recipes:  recipes,
		all:      recipes.All(),
		category: stream.NewSubjectWith(""),
		term:     stream.NewSubjectWith(""),
	}
}

func (c *Composer) SetSearchTerm(term string) {
	c.term.Emit(term)
}

// SetCategoryFilter selects category, or clears the filter when category is
// already the active one.
func (c *Composer) SetCategoryFilter(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := c.category.Value()
	if current == category {
		category = ""
	}
	c.category.Emit(category)
}

// Category returns the active category, "" when unfiltered.
func (c *Composer) Category() string {
	v, _ := c.category.Value()
	return v
}

func (c *Composer) SearchTerm() string {
	v, _ := c.term.Value()
	return v
}

// FilteredRecipes is the whole collection narrowed to the active category.
func (c *Composer) FilteredRecipes() stream.Source[[]model.Recipe] {
	return stream.CombineLatest(c.all, stream.Source[string](c.category), FilterByCategory)
}

// SearchResults is at most SearchLimit recipes matching the search term.
func (c *Composer) SearchResults() stream.Source[[]model.Recipe] {
	return stream.CombineLatest(c.all, stream.Source[string](c.term), func(rs []model.Recipe, term string) []model.Recipe {
		return SearchRecipes(rs, term, SearchLimit)
	})
}

// Featured is the most viewed recipes, most viewed first.
func (c *Composer) Featured(limit int) (stream.Source[[]model.Recipe], error) {
	return c.recipes.Recipes(docstore.Query{
		OrderBy: &docstore.Order{Field: docstore.FieldViews, Desc: true},
		Limit:   limit,
	})
}

// AuthoredBy lists the recipes published by authorID.
func (c *Composer) AuthoredBy(authorID string) (stream.Source[[]model.Recipe], error) {
	if authorID == "" {
		return stream.Of([]model.Recipe{}), nil
	}
	return c.recipes.Recipes(docstore.Query{AuthorID: authorID})
}

// Favorites lists the recipes in the signed-in user's favorites. The inner
// query is replaced only when the favorites set itself changes. Sets larger
// than the store's batch capacity are cut to their first docstore.MaxInQuery
// ids.
func (c *Composer) Favorites(accounts stream.Source[*Account]) stream.Source[[]model.Recipe] {
	ids := stream.Distinct(stream.Map(accounts, favoriteIDs), slices.Equal[[]string, string])
	return stream.SwitchMap(ids, func(ids []string) stream.Source[[]model.Recipe] {
		if len(ids) == 0 {
			return stream.Of([]model.Recipe{})
		}
		kept, truncated := TruncateIDs(ids, docstore.MaxInQuery)
		if truncated {
			log.Printf("[Composer] favorites has %d recipes, showing the first %d", len(ids), len(kept))
		}
		src, err := c.recipes.Recipes(docstore.Query{IDs: kept})
		if err != nil {
			log.Printf("[Composer] favorites query rejected: %v", err)
			return stream.Of([]model.Recipe{})
		}
		return src
	})
}

// FilterByCategory keeps the recipes whose category equals category exactly.
// An empty category keeps everything.
func FilterByCategory(recipes []model.Recipe, category string) []model.Recipe {
	if category == "" {
		return recipes
	}
	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// SearchRecipes returns up to limit recipes whose title or category contains
// term after normalization. A blank term matches nothing.
func SearchRecipes(recipes []model.Recipe, term string, limit int) []model.Recipe {
	needle := NormalizeTerm(term)
	out := []model.Recipe{}
	if needle == "" {
		return out
	}
	for _, r := range recipes {
		if len(out) >= limit {
			break
		}
		if strings.Contains(NormalizeTerm(r.Title), needle) || strings.Contains(NormalizeTerm(r.Category), needle) {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeTerm trims s and folds its case.
func NormalizeTerm(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// TruncateIDs keeps the first max ids in their existing order.
func TruncateIDs(ids []string, max int) (kept []string, truncated bool) {
	if len(ids) <= max {
		return ids, false
	}
	return ids[:max:max], true
}
