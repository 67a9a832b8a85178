package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pageza/recetario/internal/docstore"
)

// Listener relays change events announced by other processes on
// ChangeChannel to the local watchers of a Store.
type Listener struct {
	store    *Store
	listener *pq.Listener
}

// NewListener subscribes to ChangeChannel using a dedicated connection.
func NewListener(dsn string, store *Store) (*Listener, error) {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("[Listener] connection event %d: %v", ev, err)
		}
	}
	l := pq.NewListener(dsn, 10*time.Second, time.Minute, report)
	if err := l.Listen(ChangeChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("listen on %s: %w", ChangeChannel, err)
	}
	return &Listener{store: store, listener: l}, nil
}

// Run forwards notifications until ctx is done.
func (l *Listener) Run(ctx context.Context) {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.listener.Notify:
			if n == nil {
				// Reconnected; events may have been missed, so refresh everything.
				for _, c := range []string{docstore.Recipes, docstore.Tips, docstore.Users} {
					l.store.Publish(docstore.Change{Collection: c})
				}
				continue
			}
			l.handle(n.Extra)
		case <-ping.C:
			if err := l.listener.Ping(); err != nil {
				log.Printf("[Listener] ping failed: %v", err)
			}
		}
	}
}

func (l *Listener) handle(payload string) {
	var ev changeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("[Listener] dropping malformed event: %v", err)
		return
	}
	if ev.Origin == l.store.Origin() {
		return
	}
	l.store.Publish(docstore.Change{Collection: ev.Collection, ID: ev.ID})
}

// Close releases the connection.
func (l *Listener) Close() error {
	return l.listener.Close()
}
