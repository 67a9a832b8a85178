package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func TestSubjectReplaysCurrentValue(t *testing.T) {
	s := NewSubjectWith(1)
	rec := &recorder[int]{}
	sub := s.Subscribe(rec.add)
	s.Emit(2)
	sub.Unsubscribe()
	s.Emit(3)

	assert.Equal(t, []int{1, 2}, rec.all())
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 0, s.Len())
}

func TestSubjectWithoutValueDoesNotReplay(t *testing.T) {
	s := NewSubject[string]()
	rec := &recorder[string]{}
	s.Subscribe(rec.add)
	assert.Empty(t, rec.all())

	s.Emit("a")
	assert.Equal(t, []string{"a"}, rec.all())
}

func TestSubjectClose(t *testing.T) {
	s := NewSubjectWith(1)
	rec := &recorder[int]{}
	s.Subscribe(rec.add)
	s.Close()
	s.Emit(2)

	assert.Equal(t, []int{1}, rec.all())
	s.Subscribe(rec.add).Unsubscribe()
	assert.Equal(t, []int{1}, rec.all())
}

func TestMap(t *testing.T) {
	s := NewSubjectWith(2)
	rec := &recorder[int]{}
	Map[int, int](s, func(v int) int { return v * 10 }).Subscribe(rec.add)
	s.Emit(3)
	assert.Equal(t, []int{20, 30}, rec.all())
}

func TestCombineLatestWaitsForBoth(t *testing.T) {
	a := NewSubject[int]()
	b := NewSubject[string]()
	rec := &recorder[string]{}
	sub := CombineLatest[int, string, string](a, b, func(n int, s string) string {
		return s + ":" + string(rune('0'+n))
	}).Subscribe(rec.add)

	a.Emit(1)
	assert.Empty(t, rec.all())
	b.Emit("x")
	a.Emit(2)
	b.Emit("y")
	sub.Unsubscribe()
	a.Emit(3)

	assert.Equal(t, []string{"x:1", "x:2", "y:2"}, rec.all())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestSwitchMapTearsDownPreviousInner(t *testing.T) {
	route := NewSubject[string]()
	docs := map[string]*Subject[string]{
		"r1": NewSubjectWith("recipe one"),
		"r2": NewSubjectWith("recipe two"),
	}
	rec := &recorder[string]{}
	sub := SwitchMap[string, string](route, func(id string) Source[string] {
		return docs[id]
	}).Subscribe(rec.add)

	route.Emit("r1")
	require.Equal(t, 1, docs["r1"].Len())

	route.Emit("r2")
	assert.Equal(t, 0, docs["r1"].Len(), "previous document subscription must be released")
	assert.Equal(t, 1, docs["r2"].Len())

	docs["r1"].Emit("stale edit")
	docs["r2"].Emit("recipe two edited")

	sub.Unsubscribe()
	assert.Equal(t, 0, docs["r2"].Len())
	assert.Equal(t, []string{"recipe one", "recipe two", "recipe two edited"}, rec.all())
}

func TestSwitchMapNilInner(t *testing.T) {
	src := NewSubjectWith(0)
	rec := &recorder[int]{}
	SwitchMap[int, int](src, func(v int) Source[int] {
		if v == 0 {
			return nil
		}
		return Of(v)
	}).Subscribe(rec.add)
	src.Emit(4)
	assert.Equal(t, []int{4}, rec.all())
}

func TestDistinct(t *testing.T) {
	s := NewSubjectWith("a")
	rec := &recorder[string]{}
	Distinct[string](s, func(x, y string) bool { return x == y }).Subscribe(rec.add)
	s.Emit("a")
	s.Emit("b")
	s.Emit("b")
	s.Emit("a")
	assert.Equal(t, []string{"a", "b", "a"}, rec.all())
}

func TestLatest(t *testing.T) {
	v, ok := Latest[int](NewSubjectWith(7))
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = Latest[int](NewSubject[int]())
	assert.False(t, ok)
}
