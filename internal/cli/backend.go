package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recetario/config"
	"github.com/pageza/recetario/internal/database"
	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/localstore"
	"github.com/pageza/recetario/internal/mongostore"
	"github.com/pageza/recetario/internal/seed"
)

// backend is an opened backing store plus what it needs to stay live.
type backend struct {
	store docstore.Store
	// follow relays changes made by other clients; nil when the store has no
	// external writers.
	follow  func(ctx context.Context)
	health  func(ctx context.Context) error
	closers []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Printf("[Backend] close failed: %v", err)
		}
	}
}

// openBackend connects to the store selected by cfg.StoreDriver. SQL stores
// are migrated on open. The memory store starts with the bundled fixtures.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := docstore.NewMemory()
		f, err := seed.Bundled()
		if err != nil {
			return nil, err
		}
		if _, err := seed.Load(ctx, store, f); err != nil {
			return nil, err
		}
		return &backend{store: store}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		b := &backend{
			health: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
		}
		if sqlDB, err := db.DB(); err == nil {
			b.closers = append(b.closers, sqlDB.Close)
		}
		if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
			b.Close()
			return nil, err
		}
		store := database.NewStore(db)
		b.store = store

		if cfg.StoreDriver == config.DriverPostgres {
			listener, err := database.NewListener(database.DSN(cfg), store)
			if err != nil {
				b.Close()
				return nil, err
			}
			b.follow = listener.Run
			b.closers = append(b.closers, listener.Close)
		}
		return b, nil

	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		b := &backend{
			store: store,
			follow: func(ctx context.Context) {
				if err := store.Follow(ctx); err != nil && ctx.Err() == nil {
					log.Printf("[Backend] mongo change stream stopped: %v", err)
				}
			},
			closers: []func() error{func() error { return store.Close(context.Background()) }},
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			b.Close()
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openKV opens the client-local store. The redis client is returned so the
// gateway can share it; it is nil for the other drivers.
func openKV(ctx context.Context, cfg *config.Config) (localstore.KV, *redis.Client, error) {
	switch cfg.KVDriver {
	case config.KVMemory:
		return localstore.NewMemory(), nil, nil
	case config.KVFile:
		kv, err := localstore.OpenFile(cfg.KVPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, nil, nil
	case config.KVRedis:
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return localstore.NewRedis(client, cfg.ClientID), client, nil
	}
	return nil, nil, fmt.Errorf("unknown kv driver %q", cfg.KVDriver)
}
