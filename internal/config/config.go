package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/revhook/internal/client/revolut"
)

// Revolut holds Merchant API settings shared by the server and the CLI.
type Revolut struct {
	Secret     string `env:"SECRET"`
	BaseURL    string `env:"BASE_URL" envDefault:"https://sandbox-merchant.revolut.com"`
	APIVersion string `env:"API_VERSION" envDefault:"2024-09-01"`
}

func (r Revolut) Validate() error {
	if r.Secret == "" {
		return fmt.Errorf("REVOLUT_SECRET is required")
	}
	return nil
}

func (r Revolut) Options() []revolut.Option {
	return []revolut.Option{
		revolut.WithBaseURL(r.BaseURL),
		revolut.WithAPIVersion(r.APIVersion),
	}
}

type Config struct {
	Revolut Revolut `envPrefix:"REVOLUT_"`
	// DBPath overrides the ledger location under the user config directory.
	DBPath string `env:"REVHOOK_DB"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
