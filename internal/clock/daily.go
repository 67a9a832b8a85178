package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/pageza/recetario/internal/stream"
	"github.com/robfig/cron/v3"
)

// midnight fires at 00:00 every day.
const midnight = "0 0 * * *"

// Daily emits the current time once on creation and again at every local
// midnight, so views that depend on the calendar day are re-evaluated when
// the day rolls over.
type Daily struct {
	clock   Clock
	cron    *cron.Cron
	days    *stream.Subject[time.Time]
	mu      sync.Mutex
	started bool
}

// NewDaily schedules the rollover in loc.
func NewDaily(c Clock, loc *time.Location) (*Daily, error) {
	if loc == nil {
		loc = time.Local
	}
	d := &Daily{
		clock: c,
		cron:  cron.New(cron.WithLocation(loc)),
		days:  stream.NewSubjectWith(c.Now()),
	}
	if _, err := d.cron.AddFunc(midnight, d.Tick); err != nil {
		return nil, fmt.Errorf("add rollover job: %w", err)
	}
	return d, nil
}

// Days is the rollover signal. Subscribers receive the latest tick first.
func (d *Daily) Days() stream.Source[time.Time] {
	return d.days
}

// Tick emits the current time immediately.
func (d *Daily) Tick() {
	d.days.Emit(d.clock.Now())
}

// Start begins the scheduler.
func (d *Daily) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		d.cron.Start()
		d.started = true
	}
}

// Stop halts the scheduler and waits for a running tick to finish.
func (d *Daily) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		<-d.cron.Stop().Done()
		d.started = false
	}
}
