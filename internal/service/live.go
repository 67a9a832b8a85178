package service

import (
	"context"
	"log"
	"sync"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/stream"
)

// liveQuery turns a fetch into a live source. Each subscriber gets its own
// watch registration and context; the fetch re-runs after every change that
// relevant accepts and the full result is emitted. A failed fetch is logged
// and the previous snapshot stays current.
type liveQuery[T any] struct {
	name        string
	watcher     docstore.Watcher
	collections []string
	relevant    func(docstore.Change) bool
	fetch       func(ctx context.Context) (T, error)
}

func (q liveQuery[T]) source() stream.Source[T] {
	return stream.SourceFunc[T](func(fn func(T)) stream.Subscription {
		ctx, cancel := context.WithCancel(context.Background())
		var mu sync.Mutex

		refresh := func() {
			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			v, err := q.fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[LiveQuery] %s: fetch failed, keeping last snapshot: %v", q.name, err)
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			fn(v)
		}

		stops := make([]func(), 0, len(q.collections))
		for _, c := range q.collections {
			stops = append(stops, q.watcher.Watch(c, func(ch docstore.Change) {
				if q.relevant == nil || q.relevant(ch) {
					refresh()
				}
			}))
		}
		refresh()

		return stream.SubscriptionFunc(func() {
			cancel()
			for _, stop := range stops {
				stop()
			}
		})
	})
}
