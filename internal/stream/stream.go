// Package stream provides the live value primitives the client session is
// composed from: sources that push full snapshots to subscribers, and the
// operators used to derive views from them.
package stream

import (
	"sync"
	"sync/atomic"
)

// Subscription is a handle to a standing subscription.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

// Source is anything that pushes values to subscribers. Each emitted value is a
// complete snapshot, never a delta.
type Source[T any] interface {
	Subscribe(fn func(T)) Subscription
}

// SourceFunc adapts a subscribe function to Source.
type SourceFunc[T any] func(fn func(T)) Subscription

// Subscribe calls f.
func (f SourceFunc[T]) Subscribe(fn func(T)) Subscription {
	return f(fn)
}

type subscriber[T any] struct {
	id     int
	fn     func(T)
	active atomic.Bool
}

// Subject holds the latest value and replays it to new subscribers.
// Deliveries are serialized so every subscriber observes emissions in the
// order they were made.
type Subject[T any] struct {
	mu     sync.Mutex
	emitMu sync.Mutex
	value  T
	has    bool
	closed bool
	nextID int
	subs   []*subscriber[T]
}

// NewSubject returns a subject with no current value.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// NewSubjectWith returns a subject whose current value is v.
func NewSubjectWith[T any](v T) *Subject[T] {
	return &Subject[T]{value: v, has: true}
}

// Emit stores v as the current value and delivers it to every subscriber.
func (s *Subject[T]) Emit(v T) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value, s.has = v, true
	subs := make([]*subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
}

// Value returns the current value, if any.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Subscribe registers fn and immediately replays the current value to it.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SubscriptionFunc(nil)
	}
	s.nextID++
	sub := &subscriber[T]{id: s.nextID, fn: fn}
	sub.active.Store(true)
	s.subs = append(s.subs, sub)
	v, has := s.value, s.has
	s.mu.Unlock()

	if has {
		fn(v)
	}
	return SubscriptionFunc(func() { s.remove(sub) })
}

func (s *Subject[T]) remove(sub *subscriber[T]) {
	sub.active.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subs {
		if existing.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of live subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber; later emissions are ignored.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	s.closed = true
}

// Of returns a source that emits v once to each subscriber.
func Of[T any](v T) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		fn(v)
		return SubscriptionFunc(nil)
	})
}

// Latest subscribes to src, captures the value delivered during subscription
// and unsubscribes again. ok is false when src had nothing to deliver
// synchronously.
func Latest[T any](src Source[T]) (v T, ok bool) {
	var mu sync.Mutex
	sub := src.Subscribe(func(next T) {
		mu.Lock()
		v, ok = next, true
		mu.Unlock()
	})
	sub.Unsubscribe()
	mu.Lock()
	defer mu.Unlock()
	return v, ok
}
