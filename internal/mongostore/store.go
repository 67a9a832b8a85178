// Package mongostore is the MongoDB backing store. Documents are the model
// types themselves; counters and arrays are updated with server-side
// operators so concurrent clients never lose each other's writes.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store implements docstore.Store on a MongoDB database.
type Store struct {
	*docstore.Broker
	client  *mongo.Client
	recipes *mongo.Collection
	tips    *mongo.Collection
	users   *mongo.Collection
	now     func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB database %s", database)
	return New(client, database), nil
}

// New wraps an already connected client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		Broker:  docstore.NewBroker(),
		client:  client,
		recipes: db.Collection(docstore.Recipes),
		tips:    db.Collection(docstore.Tips),
		users:   db.Collection(docstore.Users),
		now:     time.Now,
	}
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the live queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.recipes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create recipe indexes: %w", err)
	}
	return nil
}

// changed publishes a write locally as soon as it is acknowledged. With a
// change stream open the write arrives a second time through Follow; the
// extra refetch is harmless.
func (s *Store) changed(collection, id string) {
	s.Publish(docstore.Change{Collection: collection, ID: id})
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, docstore.ErrNotFound)
	}
	return err
}

var orderFields = map[docstore.OrderField]string{
	docstore.FieldCreatedAt: "createdAt",
	docstore.FieldViews:     "views",
	docstore.FieldRating:    "rating",
	docstore.FieldTitle:     "title",
}

// recipeFilter translates q into a filter document.
func recipeFilter(q docstore.Query) bson.M {
	filter := bson.M{}
	if q.AuthorID != "" {
		filter["authorId"] = q.AuthorID
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": q.IDs}
	}
	return filter
}

// recipeSort orders by the requested field, then by creation and id.
func recipeSort(q docstore.Query) bson.D {
	sort := bson.D{}
	if q.OrderBy != nil {
		dir := 1
		if q.OrderBy.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: orderFields[q.OrderBy.Field], Value: dir})
	}
	return append(sort, bson.E{Key: "createdAt", Value: 1}, bson.E{Key: "_id", Value: 1})
}

func (s *Store) QueryRecipes(ctx context.Context, q docstore.Query) ([]model.Recipe, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []model.Recipe{}, nil
	}

	opts := options.Find().SetSort(recipeSort(q))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cursor, err := s.recipes.Find(ctx, recipeFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer cursor.Close(ctx)

	out := []model.Recipe{}
	for cursor.Next(ctx) {
		var r model.Recipe
		if err := cursor.Decode(&r); err != nil {
			log.Printf("[MongoStore] skipping undecodable recipe: %v", err)
			continue
		}
		r.Normalize()
		out = append(out, r)
	}
	return out, cursor.Err()
}

func (s *Store) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var r model.Recipe
	if err := s.recipes.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, notFound("recipe", id, err)
	}
	r.Normalize()
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
	if _, err := s.recipes.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	s.changed(docstore.Recipes, r.ID)
	return nil
}

func (s *Store) updateOne(ctx context.Context, coll *mongo.Collection, kind, id string, update bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", kind, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, docstore.ErrNotFound)
	}
	s.changed(coll.Name(), id)
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, recipeID string) error {
	return s.updateOne(ctx, s.recipes, "recipe", recipeID, bson.M{"$inc": bson.M{"views": 1}})
}

func (s *Store) AppendComment(ctx context.Context, recipeID string, c model.Comment) error {
	return s.updateOne(ctx, s.recipes, "recipe", recipeID, bson.M{"$push": bson.M{"comments": c}})
}

func (s *Store) SetRating(ctx context.Context, recipeID string, average float64, count int) error {
	return s.updateOne(ctx, s.recipes, "recipe", recipeID, bson.M{"$set": bson.M{"rating": average, "ratingCount": count}})
}

func (s *Store) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	return s.recipes.CountDocuments(ctx, bson.M{"authorId": authorID})
}

// ListTips returns every tip ordered by id.
func (s *Store) ListTips(ctx context.Context) ([]model.Tip, error) {
	cursor, err := s.tips.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	defer cursor.Close(ctx)

	out := []model.Tip{}
	for cursor.Next(ctx) {
		var t model.Tip
		if err := cursor.Decode(&t); err != nil {
			log.Printf("[MongoStore] skipping undecodable tip: %v", err)
			continue
		}
		t.Normalize()
		out = append(out, t)
	}
	return out, cursor.Err()
}

func (s *Store) CreateTip(ctx context.Context, t *model.Tip) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Normalize()
	if _, err := s.tips.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("create tip: %w", err)
	}
	s.changed(docstore.Tips, t.ID)
	return nil
}

func (s *Store) IncrementReaction(ctx context.Context, tipID string, r model.Reaction) error {
	if _, err := model.ParseReaction(string(r)); err != nil {
		return err
	}
	return s.updateOne(ctx, s.tips, "tip", tipID, bson.M{"$inc": bson.M{"reactions." + string(r): 1}})
}

func (s *Store) AppendTipComment(ctx context.Context, tipID string, c model.TipComment) error {
	return s.updateOne(ctx, s.tips, "tip", tipID, bson.M{"$push": bson.M{"comments": c}})
}

func (s *Store) GetProfile(ctx context.Context, uid string) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		return nil, notFound("profile", uid, err)
	}
	p.Normalize()
	return &p, nil
}

// patchFields lists the fields a patch sets, keyed by document field name.
func patchFields(pp docstore.ProfilePatch) bson.M {
	set := bson.M{}
	if pp.DisplayName != nil {
		set["displayName"] = *pp.DisplayName
	}
	if pp.Email != nil {
		set["email"] = *pp.Email
	}
	if pp.PhotoURL != nil {
		set["photoURL"] = *pp.PhotoURL
	}
	if pp.Bio != nil {
		set["bio"] = model.TruncateRunes(*pp.Bio, model.MaxBioLength)
	}
	if pp.Role != nil {
		set["role"] = *pp.Role
	}
	if pp.Level != nil {
		set["level"] = *pp.Level
	}
	if pp.MemberSince != nil {
		set["memberSince"] = *pp.MemberSince
	}
	if pp.Stats != nil {
		set["stats"] = *pp.Stats
	}
	if pp.Badges != nil {
		set["badges"] = pp.Badges
	}
	if pp.Settings != nil {
		set["settings"] = *pp.Settings
	}
	return set
}

func (s *Store) upsertProfile(ctx context.Context, uid string, update bson.M) error {
	opts := options.Update().SetUpsert(true)
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": uid}, update, opts); err != nil {
		return fmt.Errorf("update profile %s: %w", uid, err)
	}
	s.changed(docstore.Users, uid)
	return nil
}

func (s *Store) MergeProfile(ctx context.Context, uid string, patch docstore.ProfilePatch) error {
	set := patchFields(patch)
	if len(set) == 0 {
		return s.upsertProfile(ctx, uid, bson.M{"$setOnInsert": bson.M{"favorites": []string{}}})
	}
	return s.upsertProfile(ctx, uid, bson.M{"$set": set})
}

func (s *Store) AddFavorite(ctx context.Context, uid, recipeID string) error {
	return s.upsertProfile(ctx, uid, bson.M{"$addToSet": bson.M{"favorites": recipeID}})
}

func (s *Store) RemoveFavorite(ctx context.Context, uid, recipeID string) error {
	return s.upsertProfile(ctx, uid, bson.M{"$pull": bson.M{"favorites": recipeID}})
}
