package session

import (
	"slices"
	"sync"

	"github.com/pageza/recetario/internal/stream"
)

// Progress is the set of completed steps of the open recipe. It is local to
// the session and starts over whenever another recipe is opened.
type Progress struct {
	RecipeID  string `json:"recipeId"`
	Completed []int  `json:"completed"`
	Total     int    `json:"total"`
}

// Done reports whether step i is completed.
func (p Progress) Done(i int) bool {
	return slices.Contains(p.Completed, i)
}

type stepTracker struct {
	mu      sync.Mutex
	current *stream.Subject[Progress]
}

func newStepTracker() *stepTracker {
	return &stepTracker{current: stream.NewSubjectWith(Progress{Completed: []int{}})}
}

func (t *stepTracker) reset(recipeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.Emit(Progress{RecipeID: recipeID, Completed: []int{}})
}

// toggle flips step i of recipeID out of total steps. It reports false when
// recipeID is not the open recipe or i is out of range.
func (t *stepTracker) toggle(recipeID string, i, total int) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, _ := t.current.Value()
	if p.RecipeID != recipeID || i < 0 || i >= total {
		return p, false
	}
	next := Progress{RecipeID: recipeID, Total: total}
	if p.Done(i) {
		next.Completed = slices.DeleteFunc(slices.Clone(p.Completed), func(n int) bool { return n == i })
	} else {
		next.Completed = append(slices.Clone(p.Completed), i)
		slices.Sort(next.Completed)
	}
	t.current.Emit(next)
	return next, true
}
