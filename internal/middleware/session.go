package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
)

// ContextKeyUser is the Gin context key for the account behind a session.
const ContextKeyUser = "user"

// RequireKnownUser rejects tokens whose account no longer exists, e.g. a
// cookie that outlived a restart of the in-memory store. Must run after
// RequireSession.
func RequireKnownUser(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
			return
		}

		user, err := authService.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetUser returns the account stored by RequireKnownUser.
func GetUser(c *gin.Context) (model.User, bool) {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return model.User{}, false
	}
	user, ok := val.(model.User)
	return user, ok
}
