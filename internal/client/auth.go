package client

import (
	"context"
	"net/http"

	"github.com/edugen/studio/internal/model"
)

type userEnvelope struct {
	User model.User `json:"user"`
}

// Me resolves the current session.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

// Register creates an account. The backend logs the new user in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}
