package docstore

import "sync"

// Broker fans change notifications out to watchers. Store implementations
// embed it and publish after every successful write.
type Broker struct {
	mu       sync.RWMutex
	nextID   int
	watchers map[string]map[int]func(Change)
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{watchers: make(map[string]map[int]func(Change))}
}

// Watch implements Watcher.
func (b *Broker) Watch(collection string, fn func(Change)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	m, ok := b.watchers[collection]
	if !ok {
		m = make(map[int]func(Change))
		b.watchers[collection] = m
	}
	m[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.watchers[collection], id)
		})
	}
}

// Publish delivers c synchronously to every watcher of its collection.
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	fns := make([]func(Change), 0, len(b.watchers[c.Collection]))
	for _, fn := range b.watchers[c.Collection] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Watchers reports how many watchers are registered for collection.
func (b *Broker) Watchers(collection string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.watchers[collection])
}
