package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ProviderCredentials holds the OAuth client pair for one provider.
// The secret must never appear in logs or error messages.
type ProviderCredentials struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	AppEnv  string `env:"APP_ENV" envDefault:"production"`

	// BaseURL is the externally visible origin of this service.
	// Callback redirect URIs are derived from it.
	BaseURL           string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	PostLoginRedirect string `env:"POST_LOGIN_REDIRECT" envDefault:"/"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	StateTTL   time.Duration `env:"STATE_TTL" envDefault:"10m"`

	Google   ProviderCredentials `envPrefix:"GOOGLE_"`
	Facebook ProviderCredentials `envPrefix:"FACEBOOK_"`
	LinkedIn ProviderCredentials `envPrefix:"LINKEDIN_"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

// maxStateTTL caps the anti-forgery state lifetime. A longer window
// only widens the replay surface, so larger configured values are
// clamped.
const maxStateTTL = 10 * time.Minute

// Load reads configuration from the environment, with an optional
// .env file applied first.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.StateTTL <= 0 || cfg.StateTTL > maxStateTTL {
		cfg.StateTTL = maxStateTTL
	}

	return cfg, nil
}

// RedirectURL derives the callback redirect URI for a provider.
func (c Config) RedirectURL(provider string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/auth/" + provider + "/callback"
}

// DevMode reports whether the service runs with in-memory stores
// instead of Postgres and Redis.
func (c Config) DevMode() bool {
	return c.AppEnv == "dev"
}
