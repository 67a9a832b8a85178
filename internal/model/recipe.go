package model

import (
	"slices"
	"strings"
	"time"
)

// MaxRating is the top of the star scale.
const MaxRating = 5

// Comment is an immutable entry appended to a recipe's discussion.
type Comment struct {
	UID      string `json:"uid" bson:"uid"`
	UserName string `json:"userName" bson:"userName"`
	PhotoURL string `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Text     string `json:"text" bson:"text"`
	Date     string `json:"date" bson:"date"`
}

// Recipe is a published recipe as stored in the recipes collection.
type Recipe struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl"`
	Category    string    `json:"category" bson:"category"`
	Difficulty  string    `json:"difficulty" bson:"difficulty"`
	PrepTime    int       `json:"prepTime" bson:"prepTime"`
	Servings    int       `json:"servings" bson:"servings"`
	Ingredients []string  `json:"ingredients" bson:"ingredients"`
	Steps       []string  `json:"steps" bson:"steps"`
	AuthorID    string    `json:"authorId" bson:"authorId"`
	AuthorName  string    `json:"authorName" bson:"authorName"`
	AuthorPhoto string    `json:"authorPhoto,omitempty" bson:"authorPhoto,omitempty"`
	Views       int64     `json:"views" bson:"views"`
	Rating      float64   `json:"rating" bson:"rating"`
	RatingCount int       `json:"ratingCount" bson:"ratingCount"`
	Comments    []Comment `json:"comments" bson:"comments"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Normalize coerces a record read from the backing store into a valid shape.
func (r *Recipe) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.PrepTime < 0 {
		r.PrepTime = 0
	}
	if r.Servings < 0 {
		r.Servings = 0
	}
	if r.Views < 0 {
		r.Views = 0
	}
	if r.RatingCount < 0 {
		r.RatingCount = 0
	}
	switch {
	case r.Rating < 0:
		r.Rating = 0
	case r.Rating > MaxRating:
		r.Rating = MaxRating
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Comments == nil {
		r.Comments = []Comment{}
	}
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = slices.Clone(r.Ingredients)
	out.Steps = slices.Clone(r.Steps)
	out.Comments = slices.Clone(r.Comments)
	return out
}
