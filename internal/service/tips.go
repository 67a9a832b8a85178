package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/localstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/stream"
)

// DefaultEpoch is the reference day of the tip rotation. Every client must
// use the same epoch to agree on the tip of the day.
var DefaultEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DaysElapsed counts calendar days from epoch to date, each taken in its own
// location. It is negative for dates before the epoch.
func DaysElapsed(epoch, date time.Time) int {
	// Unix seconds, not Time.Sub: a Duration saturates after about 292 years.
	const secondsPerDay = 24 * 60 * 60
	return int((civilDay(date).Unix() - civilDay(epoch).Unix()) / secondsPerDay)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SelectTip picks the tip for date: the element at DaysElapsed mod len(tips).
// It reports false when there are no tips.
func SelectTip(tips []model.Tip, date, epoch time.Time) (model.Tip, bool) {
	n := len(tips)
	if n == 0 {
		return model.Tip{}, false
	}
	i := DaysElapsed(epoch, date) % n
	if i < 0 {
		i += n
	}
	return tips[i], true
}

// TipEngine serves the tip of the day and enforces one reaction per tip per
// client.
type TipEngine struct {
	store     docstore.Store
	reactions *localstore.ReactionLog
	clock     clock.Clock
	days      stream.Source[time.Time]
	epoch     time.Time
}

var _ ITipEngine = (*TipEngine)(nil)

// NewTipEngine re-selects the tip whenever days emits. A nil days source
// selects once per tips emission only.
func NewTipEngine(store docstore.Store, reactions *localstore.ReactionLog, clk clock.Clock, days stream.Source[time.Time], epoch time.Time) *TipEngine {
	if days == nil {
		days = stream.Of(clk.Now())
	}
	if epoch.IsZero() {
		epoch = DefaultEpoch
	}
	return &TipEngine{
		store:     store,
		reactions: reactions,
		clock:     clk,
		days:      days,
		epoch:     epoch,
	}
}

// Tips follows every tip in rotation order.
func (e *TipEngine) Tips() stream.Source[[]model.Tip] {
	return liveQuery[[]model.Tip]{
		name:        "tips",
		watcher:     e.store,
		collections: []string{docstore.Tips},
		fetch:       e.store.ListTips,
	}.source()
}

// TipOfTheDay emits the selected tip, or nil when there are none. The clock
// is read on every evaluation.
func (e *TipEngine) TipOfTheDay() stream.Source[*model.Tip] {
	return stream.CombineLatest(e.Tips(), e.days, func(tips []model.Tip, _ time.Time) *model.Tip {
		t, ok := SelectTip(tips, e.clock.Now(), e.epoch)
		if !ok {
			return nil
		}
		return &t
	})
}

// React records reaction for tipID unless this client already reacted to it.
// It returns the reaction on record and whether this call applied it.
func (e *TipEngine) React(ctx context.Context, tipID string, reaction model.Reaction) (model.Reaction, bool, error) {
	if tipID == "" {
		return "", false, invalid("tipId", ErrMissingID)
	}
	r, err := model.ParseReaction(string(reaction))
	if err != nil {
		return "", false, &ValidationError{Field: "reaction", Message: err.Error(), Err: ErrUnknownReaction}
	}
	stored, applied, err := e.reactions.Claim(ctx, tipID, r, func(ctx context.Context) error {
		if err := e.store.IncrementReaction(ctx, tipID, r); err != nil {
			return storeFailure("react to tip", err)
		}
		return nil
	})
	if err != nil {
		return stored, applied, err
	}
	if !applied {
		log.Printf("[TipEngine] tip %s already has reaction %s from this client", tipID, stored)
	}
	return stored, applied, nil
}

// MyReaction returns this client's reaction to tipID, if any.
func (e *TipEngine) MyReaction(ctx context.Context, tipID string) (model.Reaction, bool, error) {
	return e.reactions.Get(ctx, tipID)
}

// AddComment appends a comment to a tip.
func (e *TipEngine) AddComment(ctx context.Context, tipID string, who *identity.Identity, profile *model.UserProfile, text string) (model.TipComment, error) {
	if who == nil {
		return model.TipComment{}, invalid("user", ErrUnauthenticated)
	}
	if tipID == "" {
		return model.TipComment{}, invalid("tipId", ErrMissingID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.TipComment{}, invalid("text", ErrEmptyText)
	}
	c := model.TipComment{
		UserName: ResolveName(who, profile),
		Text:     text,
		Date:     timestamp(e.clock),
	}
	if err := e.store.AppendTipComment(ctx, tipID, c); err != nil {
		return model.TipComment{}, storeFailure("comment on tip", err)
	}
	return c, nil
}
