package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
	"github.com/pageza/recetario/internal/stream"
)

func (h *Handler) recipeList(c *gin.Context, src stream.Source[[]model.Recipe]) {
	rs, _ := stream.Latest(src)
	if rs == nil {
		rs = []model.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": h.decorator().recipes(c.Request.Context(), rs)})
}

// ListRecipes returns the collection narrowed to the active category.
func (h *Handler) ListRecipes(c *gin.Context) {
	h.recipeList(c, h.session.Recipes())
}

func (h *Handler) Featured(c *gin.Context) {
	h.recipeList(c, h.session.Featured())
}

// Search sets the search term from ?q= and returns the matches.
func (h *Handler) Search(c *gin.Context) {
	h.session.SetSearchTerm(c.Query("q"))
	h.recipeList(c, h.session.SearchResults())
}

// SetCategory toggles the category filter.
func (h *Handler) SetCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "category", Message: err.Error()})
		return
	}
	h.session.SetCategoryFilter(req.Category)
	c.JSON(http.StatusOK, gin.H{"category": h.session.Category()})
}

// OpenRecipe navigates to the recipe, counting a view, and returns it.
func (h *Handler) OpenRecipe(c *gin.Context) {
	id := c.Param("id")
	err := h.session.OpenRecipe(c.Request.Context(), id)

	r, _ := stream.Latest(h.session.OpenedRecipe())
	if r == nil || r.ID != id {
		if err == nil || errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.Error(err)
		return
	}
	if err != nil {
		log.Printf("Failed to count view of recipe %s: %v", id, err)
	}
	progress, _ := stream.Latest(h.session.Progress())
	c.JSON(http.StatusOK, gin.H{
		"recipe":   h.decorator().recipe(c.Request.Context(), *r),
		"progress": progress,
	})
}

func (h *Handler) CloseRecipe(c *gin.Context) {
	h.session.CloseRecipe()
	c.Status(http.StatusNoContent)
}

// ToggleStep marks a step of the opened recipe done or not done.
func (h *Handler) ToggleStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "step", Message: err.Error()})
		return
	}
	r, _ := stream.Latest(h.session.OpenedRecipe())
	if r == nil || r.ID != c.Param("id") {
		c.JSON(http.StatusConflict, gin.H{"error": "recipe is not open"})
		return
	}
	p, err := h.session.ToggleStep(req.Step)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": p})
}

func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "text", Message: err.Error()})
		return
	}
	comment, err := h.session.AddComment(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	added, err := h.session.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": added})
}

func (h *Handler) RateRecipe(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "stars", Message: err.Error()})
		return
	}
	avg, count, err := h.session.RateRecipe(c.Request.Context(), c.Param("id"), req.Stars)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": avg, "ratingCount": count})
}
