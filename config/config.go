package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Queue         QueueConfig         `yaml:"queue"`
}

// PostgresConfig holds database configuration. Driver is "postgres" (default)
// or "sqlite".
type PostgresConfig struct {
	DSN    string `yaml:"dsn" env:"DATABASE_URL"`
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL      string `yaml:"url" env:"NATS_URL"`
	NKeySeed string `yaml:"nkey_seed" env:"NATS_NKEY_SEED"`
	// InMemory replaces NATS with an in-process bus.
	InMemory bool `yaml:"in_memory" env:"NATS_IN_MEMORY"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
}

// HTTPConfig holds the HTTP API configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment  string  `yaml:"environment" env:"ENV"`
	LogLevel     string  `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat    string  `yaml:"log_format" env:"LOG_FORMAT"` // json|text
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	SampleRate   float64 `yaml:"sample_rate" env:"TRACE_SAMPLE_RATE"`
}

// defaultGrantWindows is how many ledger growth windows the default initial
// grant pays for.
const defaultGrantWindows = 100

// ScoringConfig holds ledger growth and storage pricing. InitialGrant is
// deposited into every new player owner's storage account.
type ScoringConfig struct {
	InitialCapacity int   `yaml:"initial_capacity" env:"SCORING_INITIAL_CAPACITY"`
	GrowthWindow    int   `yaml:"growth_window" env:"SCORING_GROWTH_WINDOW"`
	CostPerByte     int64 `yaml:"cost_per_byte" env:"SCORING_COST_PER_BYTE"`
	InitialGrant    int64 `yaml:"initial_grant" env:"SCORING_INITIAL_GRANT"`
}

// WindowCost is the charge for growing one ledger by a single window.
func (s ScoringConfig) WindowCost() int64 {
	return int64(s.GrowthWindow*sharedtypes.ScoreRecordSize) * s.CostPerByte
}

// QueueConfig holds River job queue configuration.
type QueueConfig struct {
	Enabled    bool `yaml:"enabled" env:"QUEUE_ENABLED"`
	MaxWorkers int  `yaml:"max_workers" env:"QUEUE_MAX_WORKERS"`
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A missing file means environment only.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Postgres.Driver == "" {
		c.Postgres.Driver = "postgres"
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "scorekeeper"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 5
	}
	if c.HTTP.RateBurst == 0 {
		c.HTTP.RateBurst = 10
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1
	}
	if c.Scoring.InitialCapacity == 0 {
		c.Scoring.InitialCapacity = 10
	}
	if c.Scoring.GrowthWindow == 0 {
		c.Scoring.GrowthWindow = 10
	}
	if c.Scoring.CostPerByte == 0 {
		c.Scoring.CostPerByte = 1
	}
	if c.Scoring.InitialGrant == 0 {
		c.Scoring.InitialGrant = c.Scoring.WindowCost() * defaultGrantWindows
	}
	if c.Queue.MaxWorkers == 0 {
		c.Queue.MaxWorkers = 10
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Postgres.DSN == "" && c.Postgres.Driver != "sqlite" {
		errs = append(errs, errors.New("postgres.dsn (DATABASE_URL) is required"))
	}
	if c.Postgres.Driver != "postgres" && c.Postgres.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("postgres.driver %q is not supported", c.Postgres.Driver))
	}
	if c.NATS.URL == "" && !c.NATS.InMemory {
		errs = append(errs, errors.New("nats.url (NATS_URL) is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.Scoring.GrowthWindow < 0 || c.Scoring.InitialCapacity < 0 {
		errs = append(errs, errors.New("scoring capacities must not be negative"))
	}
	if c.Scoring.InitialGrant < 0 || c.Scoring.CostPerByte < 0 {
		errs = append(errs, errors.New("scoring grant and cost must not be negative"))
	}
	if c.Queue.Enabled && c.Postgres.Driver != "postgres" {
		errs = append(errs, errors.New("queue requires the postgres driver"))
	}
	return errors.Join(errs...)
}
