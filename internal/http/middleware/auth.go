package middleware

import (
	"net/http"
	"strings"

	"point-arena/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// context keys set for downstream handlers
	CtxSubject = "subject"
	CtxRoles   = "roles"
)

// JWT validates the Authorization bearer token and stores the subject and
// roles on the request context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		subject, roles, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxSubject, subject)
		c.Set(CtxRoles, roles)
		c.Next()
	}
}

// RequireRole gates a route on a role claim. Must run after JWT().
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, ok := c.Get(CtxRoles)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		roles, _ := rolesVal.([]string)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
