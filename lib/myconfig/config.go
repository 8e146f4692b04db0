package myconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file in the working directory.
type Config struct {
	Port    string `env:"PORT" envDefault:"8888"`
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:8888/"`
	// BaseURL is where this service itself is reachable, used for push subscriptions.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8888"`

	FacebookAppID      string `env:"FACEBOOK_APP_ID"`
	FacebookAppSecret  string `env:"FACEBOOK_APP_SECRET"`
	FacebookAPIVersion string `env:"FACEBOOK_API_VERSION" envDefault:"v11.0"`
	FacebookDialogHost string `env:"FACEBOOK_DIALOG_HOSTNAME" envDefault:"https://www.facebook.com"`
	FacebookGraphHost  string `env:"FACEBOOK_GRAPH_HOSTNAME" envDefault:"https://graph.facebook.com"`
	FacebookScopes     string `env:"FACEBOOK_SCOPES" envDefault:"public_profile email"`

	UserDBPath      string        `env:"USER_DB_PATH" envDefault:"fblogin.db"`
	LoginSessionTTL time.Duration `env:"LOGIN_SESSION_TTL" envDefault:"10m"`

	// Both select the backend of the session store, see mystore.New.
	RedisAddr          string `env:"REDIS_ADDR"`
	GoogleCloudProject string `env:"GOOGLE_CLOUD_PROJECT"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.FacebookAppID == "" {
		return fmt.Errorf("FACEBOOK_APP_ID is required")
	}
	if c.FacebookAppSecret == "" {
		return fmt.Errorf("FACEBOOK_APP_SECRET is required")
	}
	if !strings.HasPrefix(c.FacebookAPIVersion, "v") {
		return fmt.Errorf("FACEBOOK_API_VERSION must look like v11.0, got %q", c.FacebookAPIVersion)
	}
	if c.LoginSessionTTL <= 0 {
		return fmt.Errorf("LOGIN_SESSION_TTL must be positive")
	}
	return nil
}

// StoreBackend names the backend mystore.New will pick.
func (c *Config) StoreBackend() string {
	switch {
	case c.GoogleCloudProject != "":
		return "datastore"
	case c.RedisAddr != "":
		return "redis"
	default:
		return "memory"
	}
}
