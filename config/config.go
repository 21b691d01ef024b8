package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Abacus (destination) configuration
	AbacusDSN    string `envconfig:"ABACUS_DSN"`
	AbacusSchema string `envconfig:"ABACUS_SCHEMA" default:"abacus"`

	// Centaur (source) configuration
	CentaurDSN        string `envconfig:"CENTAUR_DSN"`
	CentaurServiceURL string `envconfig:"CENTAUR_SERVICE_URL"`

	// Remote call timeouts. The paylink transfer and the delinquency
	// computation are long-running blocking calls on the Centaur side.
	PaylinkTimeout     time.Duration `envconfig:"PAYLINK_TIMEOUT" default:"2m"`
	DelinquencyTimeout time.Duration `envconfig:"DELINQUENCY_TIMEOUT" default:"15m"`

	// Flat status file written after each run; empty disables it.
	StatusFilePath string `envconfig:"STATUS_FILE_PATH"`

	// Environment: "development", "production" or "test"
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.AbacusDSN == "" {
			return nil, fmt.Errorf("ABACUS_DSN is required")
		}
		if config.CentaurDSN == "" {
			return nil, fmt.Errorf("CENTAUR_DSN is required")
		}
		if config.CentaurServiceURL == "" {
			return nil, fmt.Errorf("CENTAUR_SERVICE_URL is required")
		}
	}

	return &config, nil
}
