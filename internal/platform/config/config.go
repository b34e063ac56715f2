package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	StrategyServer = "server"
	StrategyClient = "client"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Log         struct {
		Level  string `env:"LEVEL" envDefault:"info"`
		Format string `env:"FORMAT" envDefault:"text"`
	} `envPrefix:"LOG_"`
	Server struct {
		Port              string        `env:"PORT" envDefault:"8080"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	} `envPrefix:"SERVER_"`
	Storage struct {
		Backend string `env:"BACKEND" envDefault:"memory"`
	} `envPrefix:"STORAGE_"`
	Database struct {
		URL          string        `env:"URL"`
		MaxConns     int32         `env:"MAX_CONNS" envDefault:"10"`
		QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		// URL enables the search cache when set.
		URL string        `env:"URL"`
		TTL time.Duration `env:"TTL" envDefault:"30s"`
	} `envPrefix:"REDIS_"`
	Search struct {
		ExtendedFields bool `env:"EXTENDED_FIELDS" envDefault:"false"`
		MaxTermLength  int  `env:"MAX_TERM_LENGTH" envDefault:"256"`
	} `envPrefix:"SEARCH_"`
	Directory struct {
		APIURL     string        `env:"API_URL" envDefault:"http://localhost:8080"`
		Debounce   time.Duration `env:"DEBOUNCE" envDefault:"200ms"`
		MinLoading time.Duration `env:"MIN_LOADING" envDefault:"500ms"`
		Strategy   string        `env:"STRATEGY" envDefault:"server"`
	} `envPrefix:"DIRECTORY_"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return parse(env.Options{})
}

// ParseEnvironment builds a config from the given variables only.
func ParseEnvironment(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// Only the first error keeps the log readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %s or %s, got %q", StorageMemory, StoragePostgres, c.Storage.Backend)
	}
	switch c.Directory.Strategy {
	case StrategyServer, StrategyClient:
	default:
		return fmt.Errorf("DIRECTORY_STRATEGY must be %s or %s, got %q", StrategyServer, StrategyClient, c.Directory.Strategy)
	}
	if c.Search.MaxTermLength < 0 {
		return errors.New("SEARCH_MAX_TERM_LENGTH must not be negative")
	}
	if c.Directory.Debounce < 0 || c.Directory.MinLoading < 0 {
		return errors.New("DIRECTORY_DEBOUNCE and DIRECTORY_MIN_LOADING must not be negative")
	}
	return nil
}
