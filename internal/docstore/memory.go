package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recetario/internal/model"
)

// Memory is an in-process Store. Notifications are delivered synchronously
// on the writing goroutine.
type Memory struct {
	*Broker

	mu          sync.RWMutex
	recipes     map[string]model.Recipe
	recipeOrder []string
	tips        map[string]model.Tip
	profiles    map[string]model.UserProfile
	writeErr    error
	now         func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		Broker:   NewBroker(),
		recipes:  make(map[string]model.Recipe),
		tips:     make(map[string]model.Tip),
		profiles: make(map[string]model.UserProfile),
		now:      time.Now,
	}
}

// FailWrites makes every write return err until called again with nil.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *Memory) QueryRecipes(ctx context.Context, q Query) ([]model.Recipe, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []model.Recipe{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids map[string]struct{}
	if q.IDs != nil {
		ids = make(map[string]struct{}, len(q.IDs))
		for _, id := range q.IDs {
			ids[id] = struct{}{}
		}
	}

	out := make([]model.Recipe, 0, len(m.recipeOrder))
	for _, id := range m.recipeOrder {
		r := m.recipes[id]
		if q.AuthorID != "" && r.AuthorID != q.AuthorID {
			continue
		}
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if ids != nil {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		out = append(out, r.Clone())
	}
	if q.OrderBy != nil {
		SortRecipes(out, *q.OrderBy)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SortRecipes orders recipes in place; ties keep their existing order.
func SortRecipes(recipes []model.Recipe, o Order) {
	less := func(a, b model.Recipe) bool {
		switch o.Field {
		case FieldViews:
			return a.Views < b.Views
		case FieldRating:
			return a.Rating < b.Rating
		case FieldTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		if o.Desc {
			return less(recipes[j], recipes[i])
		}
		return less(recipes[i], recipes[j])
	})
}

func (m *Memory) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	out := r.Clone()
	return &out, nil
}

func (m *Memory) CreateRecipe(ctx context.Context, r *model.Recipe) error {
	m.mu.Lock()
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.now()
	}
	r.Normalize()
	if _, exists := m.recipes[r.ID]; !exists {
		m.recipeOrder = append(m.recipeOrder, r.ID)
	}
	m.recipes[r.ID] = r.Clone()
	m.mu.Unlock()

	m.Publish(Change{Collection: Recipes, ID: r.ID})
	return nil
}

// updateRecipe applies fn to a stored recipe under the write lock.
func (m *Memory) updateRecipe(id string, fn func(r *model.Recipe)) error {
	m.mu.Lock()
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	r, ok := m.recipes[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	r = r.Clone()
	fn(&r)
	m.recipes[id] = r
	m.mu.Unlock()

	m.Publish(Change{Collection: Recipes, ID: id})
	return nil
}

func (m *Memory) IncrementViews(ctx context.Context, recipeID string) error {
	return m.updateRecipe(recipeID, func(r *model.Recipe) { r.Views++ })
}

func (m *Memory) AppendComment(ctx context.Context, recipeID string, c model.Comment) error {
	return m.updateRecipe(recipeID, func(r *model.Recipe) { r.Comments = append(r.Comments, c) })
}

func (m *Memory) SetRating(ctx context.Context, recipeID string, average float64, count int) error {
	return m.updateRecipe(recipeID, func(r *model.Recipe) {
		r.Rating = average
		r.RatingCount = count
	})
}

func (m *Memory) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// ListTips returns every tip ordered by id.
func (m *Memory) ListTips(ctx context.Context) ([]model.Tip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Tip, 0, len(m.tips))
	for _, t := range m.tips {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateTip(ctx context.Context, t *model.Tip) error {
	m.mu.Lock()
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Normalize()
	m.tips[t.ID] = t.Clone()
	m.mu.Unlock()

	m.Publish(Change{Collection: Tips, ID: t.ID})
	return nil
}

func (m *Memory) updateTip(id string, fn func(t *model.Tip)) error {
	m.mu.Lock()
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	t, ok := m.tips[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("tip %s: %w", id, ErrNotFound)
	}
	t = t.Clone()
	fn(&t)
	m.tips[id] = t
	m.mu.Unlock()

	m.Publish(Change{Collection: Tips, ID: id})
	return nil
}

func (m *Memory) IncrementReaction(ctx context.Context, tipID string, r model.Reaction) error {
	if _, err := model.ParseReaction(string(r)); err != nil {
		return err
	}
	return m.updateTip(tipID, func(t *model.Tip) {
		switch r {
		case model.ReactionLove:
			t.Reactions.Love++
		case model.ReactionLike:
			t.Reactions.Like++
		case model.ReactionWow:
			t.Reactions.Wow++
		}
	})
}

func (m *Memory) AppendTipComment(ctx context.Context, tipID string, c model.TipComment) error {
	return m.updateTip(tipID, func(t *model.Tip) { t.Comments = append(t.Comments, c) })
}

func (m *Memory) GetProfile(ctx context.Context, uid string) (*model.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", uid, ErrNotFound)
	}
	out := p.Clone()
	return &out, nil
}

// updateProfile applies fn to the profile of uid, creating it if needed.
func (m *Memory) updateProfile(uid string, fn func(p *model.UserProfile)) error {
	m.mu.Lock()
	if m.writeErr != nil {
		m.mu.Unlock()
		return m.writeErr
	}
	p, ok := m.profiles[uid]
	if !ok {
		p = model.UserProfile{UID: uid}
	}
	p = p.Clone()
	fn(&p)
	p.Normalize()
	m.profiles[uid] = p
	m.mu.Unlock()

	m.Publish(Change{Collection: Users, ID: uid})
	return nil
}

func (m *Memory) MergeProfile(ctx context.Context, uid string, patch ProfilePatch) error {
	return m.updateProfile(uid, patch.Apply)
}

func (m *Memory) AddFavorite(ctx context.Context, uid, recipeID string) error {
	return m.updateProfile(uid, func(p *model.UserProfile) {
		if !p.HasFavorite(recipeID) {
			p.Favorites = append(p.Favorites, recipeID)
		}
	})
}

func (m *Memory) RemoveFavorite(ctx context.Context, uid, recipeID string) error {
	return m.updateProfile(uid, func(p *model.UserProfile) {
		kept := p.Favorites[:0]
		for _, id := range p.Favorites {
			if id != recipeID {
				kept = append(kept, id)
			}
		}
		p.Favorites = kept
	})
}
