package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pageza/recetario/config"
	"github.com/pageza/recetario/internal/api"
	"github.com/pageza/recetario/internal/clock"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/middleware"
	"github.com/pageza/recetario/internal/router"
	"github.com/pageza/recetario/internal/server"
	"github.com/pageza/recetario/internal/session"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local gateway",
		Long: `Run the local HTTP gateway for one client session.

The UI shell talks to the gateway over /api/v1 and follows live view
updates on /api/v1/events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts.Config)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer b.Close()
	if b.follow != nil {
		go b.follow(ctx)
	}

	kv, redisClient, err := openKV(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	loc := cfg.Location()
	clk := clock.System{Location: loc}
	daily, err := clock.NewDaily(clk, loc)
	if err != nil {
		return err
	}
	daily.Start()
	defer daily.Stop()

	s, err := session.New(session.Options{
		Store:    b.store,
		Provider: identity.NewTokenProvider(cfg.TokenSecret),
		KV:       kv,
		Clock:    clk,
		Days:     daily.Days(),
		Epoch:    cfg.TipEpoch,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	var images api.ImageResolver
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to configure image storage: %w", err)
		}
		images = api.S3Images{S3: s3cfg}
	}

	opts := router.Options{CORSOrigins: cfg.CORSOrigins}
	if redisClient != nil {
		opts.CommentLimit = middleware.NewCommentRateLimiter(redisClient, cfg.ClientID).Middleware()
	}
	if b.health != nil {
		opts.Health = func() error { return b.health(ctx) }
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(api.NewHandler(s, images), opts)

	log.Printf("[Serve] store=%s kv=%s client=%s", cfg.StoreDriver, cfg.KVDriver, cfg.ClientID)
	return server.New(cfg, r).Start(ctx)
}
