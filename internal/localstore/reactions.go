package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/pageza/recetario/internal/model"
)

// ReactionLog remembers which reaction this client gave each tip. It is
// stored as one JSON object mapping tip id to reaction.
type ReactionLog struct {
	kv KV
	mu sync.Mutex
}

func NewReactionLog(kv KV) *ReactionLog {
	return &ReactionLog{kv: kv}
}

// Get returns the stored reaction for tipID.
func (l *ReactionLog) Get(ctx context.Context, tipID string) (model.Reaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, err := l.load(ctx)
	if err != nil {
		return "", false, err
	}
	r, ok := entries[tipID]
	return r, ok, nil
}

// All returns a copy of every stored entry.
func (l *ReactionLog) All(ctx context.Context) (map[string]model.Reaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Claim records r for tipID unless an entry already exists. When there is no
// entry, apply runs first and the entry is written only if it succeeds. The
// lock is held throughout so concurrent claims for the same client see each
// other.
func (l *ReactionLog) Claim(ctx context.Context, tipID string, r model.Reaction, apply func(ctx context.Context) error) (stored model.Reaction, applied bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load(ctx)
	if err != nil {
		return "", false, err
	}
	if existing, ok := entries[tipID]; ok {
		return existing, false, nil
	}
	if err := apply(ctx); err != nil {
		return "", false, err
	}
	entries[tipID] = r
	if err := l.save(ctx, entries); err != nil {
		// The counter is already incremented; the entry is lost.
		log.Printf("reaction log: failed to record %s for tip %s: %v", r, tipID, err)
		return r, true, err
	}
	return r, true, nil
}

func (l *ReactionLog) load(ctx context.Context) (map[string]model.Reaction, error) {
	entries := make(map[string]model.Reaction)
	raw, ok, err := l.kv.Get(ctx, KeyTipReactions)
	if err != nil {
		return nil, fmt.Errorf("read reaction log: %w", err)
	}
	if !ok || raw == "" {
		return entries, nil
	}
	var stored map[string]string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("reaction log: discarding unreadable entries: %v", err)
		return entries, nil
	}
	for id, v := range stored {
		if r, err := model.ParseReaction(v); err == nil {
			entries[id] = r
		}
	}
	return entries, nil
}

func (l *ReactionLog) save(ctx context.Context, entries map[string]model.Reaction) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode reaction log: %w", err)
	}
	return l.kv.Set(ctx, KeyTipReactions, string(data))
}
