package api

import (
	"context"

	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/present"
	"github.com/pageza/recetario/internal/service"
)

// CommentResponse is a recipe comment with its avatar resolved.
type CommentResponse struct {
	model.Comment
	Avatar      string `json:"avatar"`
	Initials    string `json:"initials"`
	AvatarColor string `json:"avatarColor"`
}

// RecipeResponse is a recipe decorated for display.
type RecipeResponse struct {
	model.Recipe
	Comments        []CommentResponse `json:"comments"`
	DifficultyStyle present.StyleTag  `json:"difficultyStyle"`
	Stars           []bool            `json:"stars"`
	AuthorAvatar    string            `json:"authorAvatar"`
	Favorite        bool              `json:"favorite"`
}

// BadgeResponse is a profile badge with its icon and label.
type BadgeResponse struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// ProfileResponse is the signed-in user's profile decorated for display.
type ProfileResponse struct {
	model.UserProfile
	Avatar      string          `json:"avatar"`
	Initials    string          `json:"initials"`
	AvatarColor string          `json:"avatarColor"`
	BadgeList   []BadgeResponse `json:"badgeList"`
}

// TipResponse is the tip of the day with this client's reaction.
type TipResponse struct {
	model.Tip
	MyReaction model.Reaction `json:"myReaction,omitempty"`
}

type signInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type ratingRequest struct {
	Stars int `json:"stars"`
}

type reactionRequest struct {
	Reaction string `json:"reaction"`
}

type stepRequest struct {
	Step int `json:"step"`
}

type profileRequest struct {
	DisplayName *string         `json:"displayName"`
	Bio         *string         `json:"bio"`
	PhotoURL    *string         `json:"photoURL"`
	Settings    *model.Settings `json:"settings"`
}

func (r profileRequest) update() service.ProfileUpdate {
	return service.ProfileUpdate{
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		PhotoURL:    r.PhotoURL,
		Settings:    r.Settings,
	}
}

type preferencesRequest struct {
	Theme    string `json:"theme"`
	FontSize string `json:"fontSize"`
}

// decorator builds responses in the context of the current account.
type decorator struct {
	images  ImageResolver
	account *service.Account
}

func (d decorator) recipe(ctx context.Context, r model.Recipe) RecipeResponse {
	r.ImageURL = d.images.Resolve(ctx, r.ImageURL)
	comments := make([]CommentResponse, len(r.Comments))
	for i, c := range r.Comments {
		comments[i] = CommentResponse{
			Comment:     c,
			Avatar:      present.AvatarFor(c.UID, c.PhotoURL),
			Initials:    present.Initials(c.UserName),
			AvatarColor: present.AvatarColor(c.UserName),
		}
	}
	var profile *model.UserProfile
	if d.account != nil {
		profile = d.account.Profile
	}
	return RecipeResponse{
		Recipe:          r,
		Comments:        comments,
		DifficultyStyle: present.DifficultyStyle(r.Difficulty),
		Stars:           present.Stars(r.Rating),
		AuthorAvatar:    present.AvatarFor(r.AuthorID, r.AuthorPhoto),
		Favorite:        profile.HasFavorite(r.ID),
	}
}

func (d decorator) recipes(ctx context.Context, rs []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(rs))
	for i, r := range rs {
		out[i] = d.recipe(ctx, r)
	}
	return out
}

func (d decorator) profile(p *model.UserProfile) ProfileResponse {
	badges := make([]BadgeResponse, len(p.Badges))
	for i, b := range p.Badges {
		badges[i] = BadgeResponse{ID: b, Icon: present.BadgeIcon(b), Label: present.BadgeLabel(b)}
	}
	return ProfileResponse{
		UserProfile: *p,
		Avatar:      present.AvatarFor(p.UID, p.PhotoURL),
		Initials:    present.Initials(p.DisplayName),
		AvatarColor: present.AvatarColor(p.DisplayName),
		BadgeList:   badges,
	}
}

// viewPayload decorates a session view value for the event stream.
func (d decorator) viewPayload(ctx context.Context, v any) any {
	switch x := v.(type) {
	case []model.Recipe:
		return d.recipes(ctx, x)
	case *model.Recipe:
		if x == nil {
			return nil
		}
		return d.recipe(ctx, *x)
	case *service.Account:
		if x == nil || x.Profile == nil {
			return nil
		}
		return d.profile(x.Profile)
	}
	return v
}
