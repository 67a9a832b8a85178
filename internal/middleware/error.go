package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/docstore"
	"github.com/pageza/recetario/internal/identity"
	"github.com/pageza/recetario/internal/service"
)

// StoreAlert is shown to the user when a write did not reach the store.
const StoreAlert = "No se pudo completar la acción. Inténtalo de nuevo."

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Alert string `json:"alert,omitempty"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, docstore.ErrPredicateTooLarge),
		errors.Is(err, docstore.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, docstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBackingStore):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Response builds the body for err.
func Response(err error) ErrorResponse {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	switch status {
	case http.StatusBadGateway:
		resp.Alert = StoreAlert
	case http.StatusInternalServerError:
		resp.Error = "Internal Server Error"
	}
	return resp
}

// ErrorHandler renders the last error a handler attached with c.Error as a
// JSON error response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, Response(err))
	}
}
