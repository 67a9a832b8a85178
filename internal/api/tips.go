package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
	"github.com/pageza/recetario/internal/stream"
)

// TipOfTheDay returns today's tip, or null when there are no tips.
func (h *Handler) TipOfTheDay(c *gin.Context) {
	tip, _ := stream.Latest(h.session.TipOfTheDay())
	if tip == nil {
		c.JSON(http.StatusOK, gin.H{"tip": nil})
		return
	}
	resp := TipResponse{Tip: *tip}
	if r, ok, err := h.session.MyReaction(c.Request.Context(), tip.ID); err == nil && ok {
		resp.MyReaction = r
	}
	c.JSON(http.StatusOK, gin.H{"tip": resp})
}

// React records this client's reaction. A repeated reaction is not an
// error; applied reports whether it counted.
func (h *Handler) React(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "reaction", Message: err.Error()})
		return
	}
	stored, applied, err := h.session.React(c.Request.Context(), c.Param("id"), model.Reaction(req.Reaction))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reaction": stored, "applied": applied})
}

func (h *Handler) CommentOnTip(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "text", Message: err.Error()})
		return
	}
	comment, err := h.session.CommentOnTip(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
