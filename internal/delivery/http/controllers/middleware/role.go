package middleware

import (
	"SkillTrack/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through when the caller holds any of the
// allowed roles. Admins always pass.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(allowedRoles)+1)
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	roleSet[models.AdminRole] = struct{}{}

	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		for _, role := range identity.Roles {
			if _, allowed := roleSet[role]; allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}
