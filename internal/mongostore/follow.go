package mongostore

import (
	"context"
	"fmt"
	"log"

	"github.com/pageza/recetario/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeEvent is the subset of a change stream event the store reads.
type changeEvent struct {
	NS struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

// Follow opens a change stream on the database and publishes every write,
// from this process or any other, to local watchers until ctx is done.
// Change streams need a replica set; the error is returned when the server
// cannot provide one and writes keep being published locally.
func (s *Store) Follow(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ns.coll": bson.M{"$in": []string{docstore.Recipes, docstore.Tips, docstore.Users}}}}},
	}
	cs, err := s.recipes.Database().Watch(ctx, pipeline, options.ChangeStream())
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer cs.Close(context.Background())

	log.Printf("[MongoStore] following change stream")

	for cs.Next(ctx) {
		var ev changeEvent
		if err := cs.Decode(&ev); err != nil {
			log.Printf("[MongoStore] dropping undecodable change: %v", err)
			continue
		}
		s.Publish(docstore.Change{Collection: ev.NS.Coll, ID: ev.DocumentKey.ID})
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return nil
}
