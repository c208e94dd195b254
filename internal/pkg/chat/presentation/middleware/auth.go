package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// AuthMiddleware resolves the bearer token into an identity and stores both on
// the request context. Requests without a valid token are rejected.
func AuthMiddleware(authn authport.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token := strings.TrimPrefix(h, "Bearer ")
		identity, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// MustIdentity returns the identity stored by AuthMiddleware.
func MustIdentity(c *gin.Context) authport.Identity {
	v, _ := c.Get(identityKey)
	return v.(authport.Identity)
}

// MustToken returns the raw bearer token stored by AuthMiddleware.
func MustToken(c *gin.Context) string {
	v, _ := c.Get(tokenKey)
	return v.(string)
}
