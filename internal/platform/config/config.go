package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	DBDSN         string `env:"DB_DSN"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	// LockTimeout bounds every row-lock wait inside a transaction.
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`

	AgreementInterval time.Duration `env:"AGREEMENT_INTERVAL" envDefault:"1h"`
	AgreementWorkers  int           `env:"AGREEMENT_WORKERS" envDefault:"4"`
	WeatherInterval   time.Duration `env:"WEATHER_INTERVAL" envDefault:"15m"`
	SpawnChance       float64       `env:"WEATHER_SPAWN_CHANCE" envDefault:"0.2"`
	// TransitUnit is the wall-clock length of one travel-time unit.
	TransitUnit time.Duration `env:"TRANSIT_UNIT" envDefault:"1h"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON"`

	DemoSeed bool `env:"DEMO_SEED" envDefault:"true"`
}

const envPrefix = "GALAXY_"

// Load reads an optional .env file, then parses GALAXY_* variables.
// Variables already set in the process environment win over the file.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("%w: http addr is empty", ErrInvalidConfig)
	case c.LockTimeout <= 0:
		return fmt.Errorf("%w: lock timeout must be positive", ErrInvalidConfig)
	case c.AgreementInterval <= 0 || c.WeatherInterval <= 0:
		return fmt.Errorf("%w: job intervals must be positive", ErrInvalidConfig)
	case c.AgreementWorkers <= 0:
		return fmt.Errorf("%w: agreement workers must be positive", ErrInvalidConfig)
	case c.SpawnChance < 0 || c.SpawnChance > 1:
		return fmt.Errorf("%w: spawn chance must be within [0,1]", ErrInvalidConfig)
	case c.TransitUnit <= 0:
		return fmt.Errorf("%w: transit unit must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// UsesPostgres reports whether a database is configured. Without one the
// server runs on the in-memory store.
func (c Config) UsesPostgres() bool {
	return c.DBDSN != ""
}
