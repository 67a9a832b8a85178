package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/service"
)

// SignIn exchanges a provider credential for a signed-in session.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "credential", Message: err.Error()})
		return
	}

	id, err := h.session.SignIn(c.Request.Context(), req.Credential)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": id})
}

func (h *Handler) SignOut(c *gin.Context) {
	if err := h.session.SignOut(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
