package middleware

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
	IdentityCtx    = "client_identity"
)

type TokenVerifier interface {
	Identity(token string) (models.Identity, error)
}

type AuthMiddlewareProvider struct {
	log      logger.Log
	verifier TokenVerifier
}

func NewAuthMiddlewareProvider(log logger.Log, v TokenVerifier) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:      log,
		verifier: v,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = strings.TrimSpace(parts[1])
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	identity, err := h.verifier.Identity(token)
	if err != nil {
		h.log.Debug("failed to verify token", "err", err.Error())
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(ClientIDCtx, identity.UserID)
	c.Set(ClientRolesCtx, identity.Roles)
	c.Set(IdentityCtx, identity)
	c.Next()
}

// Identity returns the caller attached by AuthMiddleware.
func Identity(c *gin.Context) (models.Identity, bool) {
	raw, ok := c.Get(IdentityCtx)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := raw.(models.Identity)
	return identity, ok
}

// MustIdentity answers 401 when no caller is attached.
func MustIdentity(c *gin.Context) (models.Identity, bool) {
	identity, ok := Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	}
	return identity, ok
}
