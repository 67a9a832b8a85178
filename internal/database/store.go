package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChangeChannel is the postgres NOTIFY channel carrying change events.
const ChangeChannel = "recetario_changes"

// changeEvent is the NOTIFY payload.
type changeEvent struct {
	Origin     string `json:"origin"`
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// Store implements docstore.Store on a gorm database. Writes notify local
// watchers directly; on postgres they are also announced on ChangeChannel so
// other processes can refresh.
type Store struct {
	*docstore.Broker
	db     *gorm.DB
	origin string
	now    func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// NewStore wraps db. The schema must already be migrated.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Broker: docstore.NewBroker(),
		db:     db,
		origin: uuid.NewString(),
		now:    time.Now,
	}
}

// Origin identifies this process in change events.
func (s *Store) Origin() string { return s.origin }

func (s *Store) changed(ctx context.Context, collection, id string) {
	c := docstore.Change{Collection: collection, ID: id}
	if s.db.Dialector.Name() == "postgres" {
		payload, err := json.Marshal(changeEvent{Origin: s.origin, Collection: collection, ID: id})
		if err == nil {
			err = s.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", ChangeChannel, string(payload)).Error
		}
		if err != nil {
			log.Printf("[Store] failed to announce change %s/%s: %v", collection, id, err)
		}
	}
	s.Publish(c)
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, docstore.ErrNotFound)
	}
	return err
}

var orderColumns = map[docstore.OrderField]string{
	docstore.FieldCreatedAt: "created_at",
	docstore.FieldViews:     "views",
	docstore.FieldRating:    "rating",
	docstore.FieldTitle:     "title",
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (s *Store) QueryRecipes(ctx context.Context, q docstore.Query) ([]model.Recipe, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []model.Recipe{}, nil
	}

	tx := s.db.WithContext(ctx).Preload("Comments", orderComments)
	if q.AuthorID != "" {
		tx = tx.Where("author_id = ?", q.AuthorID)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.IDs != nil {
		tx = tx.Where("id IN ?", q.IDs)
	}
	if q.OrderBy != nil {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: orderColumns[q.OrderBy.Field]}, Desc: q.OrderBy.Desc})
	}
	tx = tx.Order("created_at").Order("id")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var records []recipeRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	out := make([]model.Recipe, len(records))
	for i, rec := range records {
		out[i] = rec.toModel()
	}
	return out, nil
}

func (s *Store) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var rec recipeRecord
	err := s.db.WithContext(ctx).Preload("Comments", orderComments).Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, notFound("recipe", id, err)
	}
	r := rec.toModel()
	return &r, nil
}

func (s *Store) CreateRecipe(ctx context.Context, r *model.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	r.Normalize()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := recipeFromModel(r)
		if err := tx.Omit("Comments").Create(&rec).Error; err != nil {
			return err
		}
		for _, c := range r.Comments {
			if err := tx.Create(&commentRecord{RecipeID: r.ID, UID: c.UID, UserName: c.UserName, PhotoURL: c.PhotoURL, Text: c.Text, Date: c.Date}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	s.changed(ctx, docstore.Recipes, r.ID)
	return nil
}

// updateRecipe runs a single-statement update and maps zero affected rows
// to docstore.ErrNotFound.
func (s *Store) updateRecipe(ctx context.Context, id string, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&recipeRecord{}).Where("id = ?", id).UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe %s: %w", id, docstore.ErrNotFound)
	}
	s.changed(ctx, docstore.Recipes, id)
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, recipeID string) error {
	return s.updateRecipe(ctx, recipeID, map[string]interface{}{"views": gorm.Expr("views + ?", 1)})
}

func (s *Store) AppendComment(ctx context.Context, recipeID string, c model.Comment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&recipeRecord{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("recipe %s: %w", recipeID, docstore.ErrNotFound)
		}
		return tx.Create(&commentRecord{RecipeID: recipeID, UID: c.UID, UserName: c.UserName, PhotoURL: c.PhotoURL, Text: c.Text, Date: c.Date}).Error
	})
	if err != nil {
		return err
	}
	s.changed(ctx, docstore.Recipes, recipeID)
	return nil
}

func (s *Store) SetRating(ctx context.Context, recipeID string, average float64, count int) error {
	return s.updateRecipe(ctx, recipeID, map[string]interface{}{"rating": average, "rating_count": count})
}

func (s *Store) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&recipeRecord{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// ListTips returns every tip ordered by id.
func (s *Store) ListTips(ctx context.Context) ([]model.Tip, error) {
	var records []tipRecord
	if err := s.db.WithContext(ctx).Preload("Comments", orderComments).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	out := make([]model.Tip, len(records))
	for i, rec := range records {
		out[i] = rec.toModel()
	}
	return out, nil
}

func (s *Store) CreateTip(ctx context.Context, t *model.Tip) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Normalize()
	rec := tipRecord{
		ID:        t.ID,
		Text:      t.Text,
		Date:      t.Date,
		LoveCount: t.Reactions.Love,
		LikeCount: t.Reactions.Like,
		WowCount:  t.Reactions.Wow,
	}
	for _, c := range t.Comments {
		rec.Comments = append(rec.Comments, tipCommentRecord{UserName: c.UserName, Text: c.Text, Date: c.Date})
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create tip: %w", err)
	}
	s.changed(ctx, docstore.Tips, t.ID)
	return nil
}

var reactionColumns = map[model.Reaction]string{
	model.ReactionLove: "love_count",
	model.ReactionLike: "like_count",
	model.ReactionWow:  "wow_count",
}

func (s *Store) IncrementReaction(ctx context.Context, tipID string, r model.Reaction) error {
	col, ok := reactionColumns[r]
	if !ok {
		return fmt.Errorf("unknown reaction %q", r)
	}
	res := s.db.WithContext(ctx).Model(&tipRecord{}).Where("id = ?", tipID).
		UpdateColumn(col, gorm.Expr(col+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tip %s: %w", tipID, docstore.ErrNotFound)
	}
	s.changed(ctx, docstore.Tips, tipID)
	return nil
}

func (s *Store) AppendTipComment(ctx context.Context, tipID string, c model.TipComment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&tipRecord{}).Where("id = ?", tipID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("tip %s: %w", tipID, docstore.ErrNotFound)
		}
		return tx.Create(&tipCommentRecord{TipID: tipID, UserName: c.UserName, Text: c.Text, Date: c.Date}).Error
	})
	if err != nil {
		return err
	}
	s.changed(ctx, docstore.Tips, tipID)
	return nil
}

func (s *Store) favorites(tx *gorm.DB, uid string) ([]string, error) {
	var ids []string
	err := tx.Model(&favoriteRecord{}).Where("user_id = ?", uid).Order("id").Pluck("recipe_id", &ids).Error
	return ids, err
}

func (s *Store) GetProfile(ctx context.Context, uid string) (*model.UserProfile, error) {
	db := s.db.WithContext(ctx)
	var rec profileRecord
	if err := db.Where("uid = ?", uid).First(&rec).Error; err != nil {
		return nil, notFound("profile", uid, err)
	}
	favs, err := s.favorites(db, uid)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	p := rec.toModel(favs)
	return &p, nil
}

// ensureProfile creates an empty profile row for uid when there is none.
func ensureProfile(tx *gorm.DB, uid string) error {
	p := model.UserProfile{UID: uid}
	p.Normalize()
	rec := profileFromModel(&p)
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

func (s *Store) MergeProfile(ctx context.Context, uid string, patch docstore.ProfilePatch) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, uid); err != nil {
			return err
		}
		var rec profileRecord
		if err := tx.Where("uid = ?", uid).First(&rec).Error; err != nil {
			return err
		}
		p := rec.toModel(nil)
		patch.Apply(&p)
		p.Normalize()
		next := profileFromModel(&p)
		return tx.Save(&next).Error
	})
	if err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	s.changed(ctx, docstore.Users, uid)
	return nil
}

func (s *Store) AddFavorite(ctx context.Context, uid, recipeID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, uid); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&favoriteRecord{UserID: uid, RecipeID: recipeID}).Error
	})
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	s.changed(ctx, docstore.Users, uid)
	return nil
}

func (s *Store) RemoveFavorite(ctx context.Context, uid, recipeID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", uid, recipeID).
		Delete(&favoriteRecord{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	s.changed(ctx, docstore.Users, uid)
	return nil
}
