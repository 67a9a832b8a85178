package api

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// pendingViews coalesces view emissions: only the newest snapshot of each
// view waits to be sent.
type pendingViews struct {
	mu     sync.Mutex
	values map[string]any
	order  []string
	ready  chan struct{}
}

func newPendingViews() *pendingViews {
	return &pendingViews{values: make(map[string]any), ready: make(chan struct{}, 1)}
}

func (p *pendingViews) put(view string, v any) {
	p.mu.Lock()
	if _, ok := p.values[view]; !ok {
		p.order = append(p.order, view)
	}
	p.values[view] = v
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

func (p *pendingViews) take() ([]string, map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	order, values := p.order, p.values
	p.order, p.values = nil, make(map[string]any)
	return order, values
}

// Events streams every view emission as a server-sent event named after the
// view. The current value of every view is sent first.
func (h *Handler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	pending := newPendingViews()
	sub := h.session.Watch(pending.put)
	defer sub.Unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-pending.ready:
		}
		order, values := pending.take()
		d := h.decorator()
		for _, view := range order {
			c.SSEvent(view, d.viewPayload(ctx, values[view]))
		}
		return true
	})
}
