package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Hosted database. The URL carries host, port, database and options;
	// credentials come from the role/key pairs below.
	DatabaseURL            string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseAnonKey        string `env:"DATABASE_ANON_KEY,required,notEmpty"`
	DatabaseServiceRoleKey string `env:"DATABASE_SERVICE_ROLE_KEY,required,notEmpty"`
	DatabaseAnonRole       string `env:"DATABASE_ANON_ROLE" envDefault:"anon"`
	DatabaseServiceRole    string `env:"DATABASE_SERVICE_ROLE" envDefault:"service_role"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	// Stripe
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`

	// Server
	FrontendURL string `env:"FRONTEND_URL,required,notEmpty"`
	Port        string `env:"PORT" envDefault:"8000"`

	// Error tracking
	SentryDSN string `env:"SENTRY_DSN"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`

	dbURL *url.URL
}

// Load reads the process environment (after an optional .env file) and
// fails with an error naming the first missing or malformed variable.
func Load() (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") || u.Host == "" {
		return nil, fmt.Errorf("config: DATABASE_URL must be a postgres:// URL with a host")
	}
	cfg.dbURL = u

	return &cfg, nil
}

// PrivilegedDSN connects as the service role; it bypasses row-level policies.
func (c *Config) PrivilegedDSN() string {
	return c.dsn(c.DatabaseServiceRole, c.DatabaseServiceRoleKey)
}

// RestrictedDSN connects as the anonymous role.
func (c *Config) RestrictedDSN() string {
	return c.dsn(c.DatabaseAnonRole, c.DatabaseAnonKey)
}

func (c *Config) dsn(role, key string) string {
	u := *c.dbURL
	u.User = url.UserPassword(role, key)

	q := u.Query()
	if q.Get("timezone") == "" && q.Get("TimeZone") == "" {
		q.Set("timezone", "UTC")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// AllowedOrigins lists the browser origins permitted by CORS.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://localhost:8000"}
	for _, o := range origins {
		if o == c.FrontendURL {
			return origins
		}
	}
	return append(origins, c.FrontendURL)
}
