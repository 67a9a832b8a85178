package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/service"
)

// GetProfile returns the signed-in user's profile with derived stats.
func (h *Handler) GetProfile(c *gin.Context) {
	a := h.session.CurrentAccount()
	if a == nil || a.Profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": h.decorator().profile(a.Profile)})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if err := h.session.UpdateProfile(c.Request.Context(), req.update()); err != nil {
		c.Error(err)
		return
	}
	h.GetProfile(c)
}

// MyRecipes lists the recipes the signed-in user published.
func (h *Handler) MyRecipes(c *gin.Context) {
	h.recipeList(c, h.session.MyRecipes())
}

func (h *Handler) Favorites(c *gin.Context) {
	h.recipeList(c, h.session.Favorites())
}
