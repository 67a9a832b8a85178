package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/api"
	"github.com/pageza/recetario/internal/middleware"
)

// Options configure the gateway router.
type Options struct {
	CORSOrigins []string
	// CommentLimit throttles comment writes; nil disables it.
	CommentLimit gin.HandlerFunc
	// Health reports backing store health; nil always reports ok.
	Health func() error
}

// SetupRouter configures the application routes
func SetupRouter(h *api.Handler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.RegisterRoutes(router.Group("/api/v1"), opts.CommentLimit)
	return router
}
