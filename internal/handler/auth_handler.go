package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/middleware"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
	"github.com/edugen/studio/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Register godoc
// POST /api/auth/register
// Creates an account and starts a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user,
	})
}

// Login godoc
// POST /api/auth/login
// Validates email + password and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout godoc
// POST /api/auth/logout
// Clears the session cookie. Succeeds without a session too.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookie, "", -1, "/", "", h.cfg.SecureCookie, true)
	response.JSON(c, http.StatusOK, gin.H{"message": "Logout successful"})
}

// Me godoc
// GET /api/auth/me
// Returns the account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) startSession(c *gin.Context, user model.User) bool {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookie, token, int(h.cfg.JWTExpiry.Seconds()), "/", "", h.cfg.SecureCookie, true)
	return true
}
