package stream

import "sync"

// Map derives a source by applying f to every value of src.
func Map[T, U any](src Source[T], f func(T) U) Source[U] {
	return SourceFunc[U](func(fn func(U)) Subscription {
		return src.Subscribe(func(v T) { fn(f(v)) })
	})
}

// CombineLatest emits f(a, b) whenever either input emits, once both have
// produced at least one value. Deliveries happen under a per-subscription
// lock so downstream observes them in event order.
func CombineLatest[A, B, R any](a Source[A], b Source[B], f func(A, B) R) Source[R] {
	return SourceFunc[R](func(fn func(R)) Subscription {
		var (
			mu         sync.Mutex
			av         A
			bv         B
			hasA, hasB bool
			stopped    bool
		)
		subA := a.Subscribe(func(v A) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			av, hasA = v, true
			if hasB {
				fn(f(av, bv))
			}
		})
		subB := b.Subscribe(func(v B) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			bv, hasB = v, true
			if hasA {
				fn(f(av, bv))
			}
		})
		return SubscriptionFunc(func() {
			mu.Lock()
			stopped = true
			mu.Unlock()
			subA.Unsubscribe()
			subB.Unsubscribe()
		})
	})
}

// SwitchMap subscribes to f(v) for every value of src, tearing down the
// previous inner subscription before the next one is established. Values
// from a torn-down inner source are dropped.
func SwitchMap[T, U any](src Source[T], f func(T) Source[U]) Source[U] {
	return SourceFunc[U](func(fn func(U)) Subscription {
		var (
			mu      sync.Mutex
			inner   Subscription
			gen     int
			stopped bool
		)
		outer := src.Subscribe(func(v T) {
			mu.Lock()
			if stopped {
				mu.Unlock()
				return
			}
			prev := inner
			inner = nil
			gen++
			mine := gen
			mu.Unlock()

			if prev != nil {
				prev.Unsubscribe()
			}

			next := f(v)
			if next == nil {
				return
			}
			sub := next.Subscribe(func(u U) {
				mu.Lock()
				current := mine == gen && !stopped
				mu.Unlock()
				if current {
					fn(u)
				}
			})

			mu.Lock()
			if mine != gen || stopped {
				mu.Unlock()
				sub.Unsubscribe()
				return
			}
			inner = sub
			mu.Unlock()
		})
		return SubscriptionFunc(func() {
			outer.Unsubscribe()
			mu.Lock()
			stopped = true
			prev := inner
			inner = nil
			mu.Unlock()
			if prev != nil {
				prev.Unsubscribe()
			}
		})
	})
}

// Distinct suppresses consecutive values that equal reports as unchanged.
func Distinct[T any](src Source[T], equal func(a, b T) bool) Source[T] {
	return SourceFunc[T](func(fn func(T)) Subscription {
		var (
			mu   sync.Mutex
			last T
			has  bool
		)
		return src.Subscribe(func(v T) {
			mu.Lock()
			if has && equal(last, v) {
				mu.Unlock()
				return
			}
			last, has = v, true
			mu.Unlock()
			fn(v)
		})
	})
}
