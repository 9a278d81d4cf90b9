package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/revhook/internal/config"
	appenv "github.com/garrettladley/revhook/internal/env"
	xredis "github.com/garrettladley/revhook/internal/redis"
)

// WebhookPath is where Revolut delivers notifications.
const WebhookPath = "/webhooks/revolut"

type Config struct {
	Port      string             `env:"PORT" envDefault:"8000"`
	Env       appenv.Environment `env:"ENV" envDefault:"development"`
	PublicURL string             `env:"PUBLIC_URL"`
	Revolut   config.Revolut     `envPrefix:"REVOLUT_"`
	Webhook   Webhook            `envPrefix:"REVOLUT_WEBHOOK_"`
	RateLimit RateLimit          `envPrefix:"RATE_"`
	Redis     xredis.Config      `envPrefix:"REDIS_"`
}

type Webhook struct {
	// Secret, when set, is used as-is and no registration happens.
	Secret        string        `env:"SECRET"`
	RotateEvery   time.Duration `env:"ROTATE_EVERY"`
	RotationGrace time.Duration `env:"ROTATION_GRACE" envDefault:"1h"`
}

type RateLimit struct {
	Limit float64 `env:"LIMIT" envDefault:"10"`
	Burst int     `env:"BURST" envDefault:"20"`
}

// WebhookURL is the endpoint registered with Revolut.
func (c Config) WebhookURL() string {
	return strings.TrimRight(c.PublicURL, "/") + WebhookPath
}

// Registers reports whether the secret comes from registering the webhook.
func (c Config) Registers() bool {
	return c.Webhook.Secret == "" && c.PublicURL != ""
}

func (c Config) Validate() error {
	var errs []error

	switch c.Env {
	case appenv.Development, appenv.Production:
	default:
		errs = append(errs, fmt.Errorf("ENV must be %q or %q, got %q", appenv.Development, appenv.Production, c.Env))
	}

	if c.Env.IsProduction() && c.Redis.URL == "" {
		errs = append(errs, errors.New("REDIS_URL is required in production"))
	}

	if c.Webhook.Secret == "" && c.PublicURL == "" {
		errs = append(errs, errors.New("either REVOLUT_WEBHOOK_SECRET or PUBLIC_URL must be set"))
	}

	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PUBLIC_URL must be an absolute URL, got %q", c.PublicURL))
		}
	}

	if c.Registers() {
		if err := c.Revolut.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Webhook.RotateEvery < 0 || c.Webhook.RotationGrace < 0 {
		errs = append(errs, errors.New("webhook rotation durations must not be negative"))
	}
	if c.Webhook.RotateEvery > 0 && !c.Registers() {
		errs = append(errs, errors.New("REVOLUT_WEBHOOK_ROTATE_EVERY requires registration via PUBLIC_URL"))
	}

	if c.RateLimit.Limit <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT and RATE_BURST must be positive"))
	}

	return errors.Join(errs...)
}

func ReadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
