package database

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pageza/recetario/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is a list of strings stored as a JSON array.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// GormDBDataType picks jsonb on postgres and text elsewhere.
func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

type recipeRecord struct {
	ID          string          `gorm:"primaryKey;size:64"`
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"size:1024"`
	Category    string          `gorm:"size:100;index"`
	Difficulty  string          `gorm:"size:50"`
	PrepTime    int             `gorm:"not null;default:0"`
	Servings    int             `gorm:"not null;default:0"`
	Ingredients StringArray     `gorm:"not null"`
	Steps       StringArray     `gorm:"not null"`
	AuthorID    string          `gorm:"size:128;index"`
	AuthorName  string          `gorm:"size:255"`
	AuthorPhoto string          `gorm:"size:1024"`
	Views       int64           `gorm:"not null;default:0"`
	Rating      float64         `gorm:"not null;default:0"`
	RatingCount int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"index"`
	Comments    []commentRecord `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (recipeRecord) TableName() string { return "recipes" }

type commentRecord struct {
	ID       uint   `gorm:"primaryKey"`
	RecipeID string `gorm:"size:64;index;not null"`
	UID      string `gorm:"size:128"`
	UserName string `gorm:"size:255"`
	PhotoURL string `gorm:"size:1024"`
	Text     string `gorm:"type:text;not null"`
	Date     string `gorm:"size:64"`
}

func (commentRecord) TableName() string { return "recipe_comments" }

type tipRecord struct {
	ID        string             `gorm:"primaryKey;size:64"`
	Text      string             `gorm:"type:text;not null"`
	Date      string             `gorm:"size:32"`
	LoveCount int64              `gorm:"not null;default:0"`
	LikeCount int64              `gorm:"not null;default:0"`
	WowCount  int64              `gorm:"not null;default:0"`
	Comments  []tipCommentRecord `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE"`
}

func (tipRecord) TableName() string { return "tips" }

type tipCommentRecord struct {
	ID       uint   `gorm:"primaryKey"`
	TipID    string `gorm:"size:64;index;not null"`
	UserName string `gorm:"size:255"`
	Text     string `gorm:"type:text;not null"`
	Date     string `gorm:"size:64"`
}

func (tipCommentRecord) TableName() string { return "tip_comments" }

type profileRecord struct {
	UID            string `gorm:"primaryKey;size:128"`
	DisplayName    string `gorm:"size:255"`
	Email          string `gorm:"size:255"`
	PhotoURL       string `gorm:"size:1024"`
	Bio            string `gorm:"type:text"`
	Role           string `gorm:"size:20"`
	Level          string `gorm:"size:20"`
	MemberSince    time.Time
	FollowersCount int
	FollowingCount int
	LikesReceived  int
	Badges         StringArray `gorm:"not null"`
	DarkMode       bool
	FontSize       string `gorm:"size:10"`
	Notifications  bool
}

func (profileRecord) TableName() string { return "user_profiles" }

type favoriteRecord struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"size:128;not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID string `gorm:"size:64;not null;uniqueIndex:idx_favorite_user_recipe"`
}

func (favoriteRecord) TableName() string { return "recipe_favorites" }

// allRecords lists every table, in creation order.
var allRecords = []interface{}{
	&recipeRecord{},
	&commentRecord{},
	&tipRecord{},
	&tipCommentRecord{},
	&profileRecord{},
	&favoriteRecord{},
}

func recipeFromModel(r *model.Recipe) recipeRecord {
	return recipeRecord{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		PrepTime:    r.PrepTime,
		Servings:    r.Servings,
		Ingredients: StringArray(r.Ingredients),
		Steps:       StringArray(r.Steps),
		AuthorID:    r.AuthorID,
		AuthorName:  r.AuthorName,
		AuthorPhoto: r.AuthorPhoto,
		Views:       r.Views,
		Rating:      r.Rating,
		RatingCount: r.RatingCount,
		CreatedAt:   r.CreatedAt,
	}
}

func (rec recipeRecord) toModel() model.Recipe {
	r := model.Recipe{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		ImageURL:    rec.ImageURL,
		Category:    rec.Category,
		Difficulty:  rec.Difficulty,
		PrepTime:    rec.PrepTime,
		Servings:    rec.Servings,
		Ingredients: []string(rec.Ingredients),
		Steps:       []string(rec.Steps),
		AuthorID:    rec.AuthorID,
		AuthorName:  rec.AuthorName,
		AuthorPhoto: rec.AuthorPhoto,
		Views:       rec.Views,
		Rating:      rec.Rating,
		RatingCount: rec.RatingCount,
		CreatedAt:   rec.CreatedAt.UTC(),
	}
	r.Comments = make([]model.Comment, len(rec.Comments))
	for i, c := range rec.Comments {
		r.Comments[i] = model.Comment{UID: c.UID, UserName: c.UserName, PhotoURL: c.PhotoURL, Text: c.Text, Date: c.Date}
	}
	r.Normalize()
	return r
}

func (rec tipRecord) toModel() model.Tip {
	t := model.Tip{
		ID:        rec.ID,
		Text:      rec.Text,
		Date:      rec.Date,
		Reactions: model.ReactionTally{Love: rec.LoveCount, Like: rec.LikeCount, Wow: rec.WowCount},
	}
	t.Comments = make([]model.TipComment, len(rec.Comments))
	for i, c := range rec.Comments {
		t.Comments[i] = model.TipComment{UserName: c.UserName, Text: c.Text, Date: c.Date}
	}
	t.Normalize()
	return t
}

func profileFromModel(p *model.UserProfile) profileRecord {
	return profileRecord{
		UID:            p.UID,
		DisplayName:    p.DisplayName,
		Email:          p.Email,
		PhotoURL:       p.PhotoURL,
		Bio:            p.Bio,
		Role:           string(p.Role),
		Level:          string(p.Level),
		MemberSince:    p.MemberSince,
		FollowersCount: p.Stats.FollowersCount,
		FollowingCount: p.Stats.FollowingCount,
		LikesReceived:  p.Stats.LikesReceived,
		Badges:         StringArray(p.Badges),
		DarkMode:       p.Settings.DarkMode,
		FontSize:       string(p.Settings.FontSize),
		Notifications:  p.Settings.Notifications,
	}
}

func (rec profileRecord) toModel(favorites []string) model.UserProfile {
	p := model.UserProfile{
		UID:         rec.UID,
		DisplayName: rec.DisplayName,
		Email:       rec.Email,
		PhotoURL:    rec.PhotoURL,
		Bio:         rec.Bio,
		Role:        model.Role(rec.Role),
		Level:       model.Level(rec.Level),
		MemberSince: rec.MemberSince.UTC(),
		Stats: model.Stats{
			FollowersCount: rec.FollowersCount,
			FollowingCount: rec.FollowingCount,
			LikesReceived:  rec.LikesReceived,
		},
		Badges: []string(rec.Badges),
		Settings: model.Settings{
			DarkMode:      rec.DarkMode,
			FontSize:      model.FontSize(rec.FontSize),
			Notifications: rec.Notifications,
		},
		Favorites: favorites,
	}
	p.Normalize()
	return p
}
