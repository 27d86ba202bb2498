package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// validatorInstance caches struct information across calls to Validate.
var validatorInstance = validator.New()

func init() {
	_ = validatorInstance.RegisterValidation("loglevel", validateLogLevel)
}

// validateLogLevel accepts any name slog understands, such as "info" or "warn+2".
func validateLogLevel(fl validator.FieldLevel) bool {
	var level slog.Level
	return level.UnmarshalText([]byte(fl.Field().String())) == nil
}

// Config holds all configuration for the application.
type Config struct {
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"debug" validate:"loglevel"`

	DebugTag         string `env:"HOSTKIT_DEBUG_TAG" envDefault:"Aviso: "`
	DebugTimestamps  bool   `env:"HOSTKIT_DEBUG_TIMESTAMPS" envDefault:"true"`
	ActionBarCadence int    `env:"HOSTKIT_ACTIONBAR_CADENCE" envDefault:"1" validate:"min=1,max=200"`
	DisconnectPolicy string `env:"HOSTKIT_DISCONNECT_POLICY" envDefault:"ignore" validate:"oneof=ignore fail"`

	ScriptsDir         string        `env:"HOSTKIT_SCRIPTS_DIR" envDefault:"scripts" validate:"required"`
	HotReload          bool          `env:"HOSTKIT_HOT_RELOAD" envDefault:"true"`
	ScriptTimeout      time.Duration `env:"HOSTKIT_SCRIPT_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	ScriptMaxMemoryMiB int64         `env:"HOSTKIT_SCRIPT_MAX_MEMORY" envDefault:"32" validate:"min=1"`

	TracingEnabled     bool   `env:"PUBSUB_TRACING_ENABLED" envDefault:"false"`
	TracingServiceName string `env:"PUBSUB_TRACING_SERVICE_NAME" envDefault:"hostkit"`
	TracingZipkinURL   string `env:"PUBSUB_TRACING_ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans" validate:"omitempty,url"`
}

// New loads configuration from a .env file, when there is one, and the
// environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return Parse()
}

// Parse reads the environment into a Config and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validatorInstance.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ScriptMaxMemoryBytes converts the memory ceiling to bytes.
func (c *Config) ScriptMaxMemoryBytes() int64 {
	return c.ScriptMaxMemoryMiB * 1024 * 1024
}

// SlogLevel returns the configured log level. Validate guarantees it parses.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
