package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://db.example.com:5432/postgres?sslmode=require")
	t.Setenv("DATABASE_ANON_KEY", "anon-key")
	t.Setenv("DATABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "anon", cfg.DatabaseAnonRole)
	assert.Equal(t, "service_role", cfg.DatabaseServiceRole)
}

func TestLoadNamesMissingVariable(t *testing.T) {
	for _, name := range []string{
		"DATABASE_URL",
		"DATABASE_ANON_KEY",
		"DATABASE_SERVICE_ROLE_KEY",
		"JWT_SECRET",
		"STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET",
		"FRONTEND_URL",
	} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadRejectsNonPostgresURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "https://project.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestDSNs(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	privileged, err := url.Parse(cfg.PrivilegedDSN())
	require.NoError(t, err)
	assert.Equal(t, "service_role", privileged.User.Username())
	pass, _ := privileged.User.Password()
	assert.Equal(t, "service-key", pass)
	assert.Equal(t, "db.example.com:5432", privileged.Host)
	assert.Equal(t, "require", privileged.Query().Get("sslmode"))
	assert.Equal(t, "UTC", privileged.Query().Get("timezone"))

	restricted, err := url.Parse(cfg.RestrictedDSN())
	require.NoError(t, err)
	assert.Equal(t, "anon", restricted.User.Username())
	pass, _ = restricted.User.Password()
	assert.Equal(t, "anon-key", pass)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://app.example.com"}
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000", "https://app.example.com"}, cfg.AllowedOrigins())

	cfg.FrontendURL = "http://localhost:3000"
	assert.Len(t, cfg.AllowedOrigins(), 2)
}
