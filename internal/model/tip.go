package model

import (
	"fmt"
	"slices"
	"strings"
)

// Reaction is one of the fixed reaction categories a tip can receive.
type Reaction string

const (
	ReactionLove Reaction = "love"
	ReactionLike Reaction = "like"
	ReactionWow  Reaction = "wow"
)

// Reactions lists every reaction category.
var Reactions = []Reaction{ReactionLove, ReactionLike, ReactionWow}

// ParseReaction maps a raw category name to a Reaction.
func ParseReaction(s string) (Reaction, error) {
	switch r := Reaction(strings.ToLower(strings.TrimSpace(s))); r {
	case ReactionLove, ReactionLike, ReactionWow:
		return r, nil
	default:
		return "", fmt.Errorf("unknown reaction %q", s)
	}
}

// ReactionTally counts reactions per category.
type ReactionTally struct {
	Love int64 `json:"love" bson:"love"`
	Like int64 `json:"like" bson:"like"`
	Wow  int64 `json:"wow" bson:"wow"`
}

// Count returns the tally for r.
func (t ReactionTally) Count(r Reaction) int64 {
	switch r {
	case ReactionLove:
		return t.Love
	case ReactionLike:
		return t.Like
	case ReactionWow:
		return t.Wow
	}
	return 0
}

// Total is the sum over all categories.
func (t ReactionTally) Total() int64 {
	return t.Love + t.Like + t.Wow
}

// TipComment is a comment left on a tip.
type TipComment struct {
	UserName string `json:"userName" bson:"userName"`
	Text     string `json:"text" bson:"text"`
	Date     string `json:"date" bson:"date"`
}

// Tip is a cooking tip. Date is the authoring day (YYYY-MM-DD) and is only
// displayed; rotation never looks at it.
type Tip struct {
	ID        string        `json:"id" bson:"_id"`
	Text      string        `json:"text" bson:"text"`
	Date      string        `json:"date" bson:"date"`
	Reactions ReactionTally `json:"reactions" bson:"reactions"`
	Comments  []TipComment  `json:"comments" bson:"comments"`
}

// Normalize coerces a record read from the backing store into a valid shape.
func (t *Tip) Normalize() {
	if t.Reactions.Love < 0 {
		t.Reactions.Love = 0
	}
	if t.Reactions.Like < 0 {
		t.Reactions.Like = 0
	}
	if t.Reactions.Wow < 0 {
		t.Reactions.Wow = 0
	}
	if t.Comments == nil {
		t.Comments = []TipComment{}
	}
}

// Clone returns a deep copy of t.
func (t Tip) Clone() Tip {
	out := t
	out.Comments = slices.Clone(t.Comments)
	return out
}
