package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/identity"
)

// ContextUserID is the gin context key holding the signed-in uid.
const ContextUserID = "user_id"

// IdentitySource reports the signed-in user, nil when signed out.
type IdentitySource interface {
	User() *identity.Identity
}

// RequireIdentity rejects requests while nobody is signed in.
func RequireIdentity(src IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := src.User()
		if id == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "sign-in required"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, id.UID)
		c.Next()
	}
}
