package auth

import (
	"SkillTrack/internal/delivery/http/controllers/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the identity resolved from the caller's token. Sign-up,
// login and refresh are served by the identity provider.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type meResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	roles := identity.Roles
	if roles == nil {
		roles = []string{}
	}
	c.JSON(http.StatusOK, meResponse{UserID: identity.UserID.String(), Roles: roles})
}
