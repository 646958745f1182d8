// Package auth holds the signed-in user for the lifetime of the
// application. The backend is the source of truth; the provider only
// remembers what it last said.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/validator"
	"github.com/rs/zerolog"
)

// API is the part of the backend client the provider needs.
type API interface {
	Me(ctx context.Context) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Logout(ctx context.Context) error
}

// Provider is the shared store of the current user. Create one at startup
// and pass it to whatever needs the session.
type Provider struct {
	api API
	log zerolog.Logger

	mu      sync.RWMutex
	user    *model.User
	checked bool
}

// NewProvider creates a Provider. Call Check before relying on Current.
func NewProvider(api API, log zerolog.Logger) *Provider {
	return &Provider{
		api: api,
		log: log.With().Str("component", "auth").Logger(),
	}
}

// Check asks the backend who is signed in. Any failure signs the user out
// locally.
func (p *Provider) Check(ctx context.Context) error {
	user, err := p.api.Me(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = true
	if err != nil {
		p.user = nil
		p.log.Debug().Err(err).Msg("No active session")
		return err
	}
	p.user = &user
	return nil
}

// Login validates the credentials locally, then signs in.
func (p *Provider) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Check(req); err != nil {
		return model.User{}, err
	}

	user, err := p.api.Login(ctx, req)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}
	p.set(&user)
	p.log.Info().Int64("user_id", user.ID).Msg("Signed in")
	return user, nil
}

// Register validates the form locally, including the password
// confirmation, then creates the account and signs in.
func (p *Provider) Register(ctx context.Context, form model.RegisterForm) (model.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validator.Check(form); err != nil {
		return model.User{}, err
	}

	user, err := p.api.Register(ctx, form.Request())
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	p.set(&user)
	p.log.Info().Int64("user_id", user.ID).Msg("Registered")
	return user, nil
}

// Logout ends the session. The user is cleared only once the backend has
// confirmed.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.api.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	p.set(nil)
	return nil
}

// Current returns the signed-in user.
func (p *Provider) Current() (model.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return model.User{}, false
	}
	return *p.user, true
}

// Loading reports whether the first session check is still outstanding.
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.checked
}

func (p *Provider) set(user *model.User) {
	p.mu.Lock()
	p.user = user
	p.checked = true
	p.mu.Unlock()
}
