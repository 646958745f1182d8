package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://studio.example.com/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "15")
	t.Setenv("SECURE_COOKIE", "true")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "https://studio.example.com", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}
