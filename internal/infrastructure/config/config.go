package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Storage StorageConfig
	Session SessionConfig
	Auth    AuthConfig
}

type StorageConfig struct {
	// DataDir holds the per-user files, the user index, and the session log.
	DataDir string `env:"DATA_DIR, default=./data"`
}

type SessionConfig struct {
	// TTL is the fixed (non-sliding) session lifetime from issuance.
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
