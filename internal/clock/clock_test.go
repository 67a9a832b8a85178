package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewManual(start)
	assert.Equal(t, start, c.Now())

	c.Advance(36 * time.Hour)
	assert.Equal(t, start.Add(36*time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestSystemUsesLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	assert.Equal(t, loc, System{Location: loc}.Now().Location())
}

func TestDailyTickEmitsCurrentTime(t *testing.T) {
	start := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	c := NewManual(start)
	d, err := NewDaily(c, time.UTC)
	require.NoError(t, err)

	var got []time.Time
	sub := d.Days().Subscribe(func(t time.Time) { got = append(got, t) })
	defer sub.Unsubscribe()

	c.Advance(2 * time.Minute)
	d.Tick()

	require.Len(t, got, 2)
	assert.Equal(t, start, got[0])
	assert.Equal(t, start.Add(2*time.Minute), got[1])
}

func TestDailyStartStop(t *testing.T) {
	d, err := NewDaily(NewManual(time.Now()), nil)
	require.NoError(t, err)
	d.Start()
	d.Start()
	d.Stop()
	d.Stop()
}
