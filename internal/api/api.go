// Package api is the local gateway: JSON endpoints and a server-sent event
// stream over one client session, for a UI shell to render.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/middleware"
	"github.com/pageza/recetario/internal/session"
)

// Handler serves one session.
type Handler struct {
	session *session.Session
	images  ImageResolver
}

func NewHandler(s *session.Session, images ImageResolver) *Handler {
	if images == nil {
		images = PassThrough{}
	}
	return &Handler{session: s, images: images}
}

func (h *Handler) decorator() decorator {
	return decorator{images: h.images, account: h.session.CurrentAccount()}
}

// RegisterRoutes mounts the endpoints on v1. commentLimit, when not nil,
// runs before comment endpoints.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, commentLimit gin.HandlerFunc) {
	auth := middleware.RequireIdentity(h.session)
	comment := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if commentLimit != nil {
			return []gin.HandlerFunc{auth, commentLimit, h}
		}
		return []gin.HandlerFunc{auth, h}
	}

	v1.POST("/session", h.SignIn)
	v1.DELETE("/session", h.SignOut)

	profile := v1.Group("/profile", auth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/recipes", h.MyRecipes)
		profile.GET("/favorites", h.Favorites)
	}

	v1.PUT("/filters/category", h.SetCategory)

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/featured", h.Featured)
		recipes.GET("/search", h.Search)
		recipes.GET("/:id", h.OpenRecipe)
		recipes.DELETE("/:id", h.CloseRecipe)
		recipes.POST("/:id/steps", h.ToggleStep)
		recipes.POST("/:id/comments", comment(h.AddComment)...)
		recipes.POST("/:id/favorite", auth, h.ToggleFavorite)
		recipes.POST("/:id/rating", h.RateRecipe)
	}

	tips := v1.Group("/tips")
	{
		tips.GET("/today", h.TipOfTheDay)
		tips.POST("/:id/reactions", h.React)
		tips.POST("/:id/comments", comment(h.CommentOnTip)...)
	}

	v1.GET("/preferences", h.GetPreferences)
	v1.PUT("/preferences", h.UpdatePreferences)
	v1.GET("/events", h.Events)
}
