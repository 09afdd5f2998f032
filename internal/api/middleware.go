package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/roles"
)

const userIDKey = "userID"

// Identity trusts the X-User-ID header injected by the fronting auth
// proxy. The hosted identity provider itself lives outside this service.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on the cumulative role hierarchy. This is the
// only enforcement point; there is no second client-side check to fall
// back on.
func RequireRole(resolver *roles.Resolver, required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !resolver.HasRole(c.Request.Context(), userID, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient role",
			})
			return
		}
		c.Next()
	}
}
