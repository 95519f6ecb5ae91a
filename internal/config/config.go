package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "FORMFILL_"

// Counter backends.
const (
	CounterNone    = "none"
	CounterJSONBin = "jsonbin"
	CounterSQLite  = "sqlite"
)

// Config is the process configuration shared by every command.
type Config struct {
	// RegistryPath points at a YAML/JSON registry. Empty uses the embedded one.
	RegistryPath string `env:"REGISTRY"`

	FeeWaiverTemplate string `env:"FEE_WAIVER_TEMPLATE"`
	StatewideTemplate string `env:"STATEWIDE_TEMPLATE"`

	// TemplateDir backs fs: template locations.
	TemplateDir     string        `env:"TEMPLATE_DIR"`
	TemplateTimeout time.Duration `env:"TEMPLATE_TIMEOUT" envDefault:"30s" validate:"gte=0"`
	DisableHTTP     bool          `env:"DISABLE_HTTP"`

	// TemplateMaxBytes rejects larger templates. Zero keeps the loader default.
	TemplateMaxBytes int64 `env:"TEMPLATE_MAX_BYTES" validate:"gte=0"`

	OutputDir     string `env:"OUTPUT_DIR" envDefault:"."`
	StrictNumbers bool   `env:"STRICT_NUMBERS"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// SanitizeMarkup strips HTML from free-text answers. Off by default so
	// answers reach the form as typed.
	SanitizeMarkup bool `env:"SANITIZE_MARKUP"`

	Counter CounterConfig `envPrefix:"COUNTER_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
}

// CounterConfig selects the delivery counter store. Keys are read from the
// environment only.
type CounterConfig struct {
	Backend    string `env:"BACKEND" envDefault:"none" validate:"oneof=none jsonbin sqlite"`
	URL        string `env:"URL" validate:"required_if=Backend jsonbin,omitempty,url"`
	MasterKey  string `env:"MASTER_KEY"`
	AccessKey  string `env:"ACCESS_KEY"`
	SQLitePath string `env:"SQLITE_PATH" validate:"required_if=Backend sqlite"`
	Name       string `env:"NAME" envDefault:"statewidePacket" validate:"required"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string `env:"ADDR" envDefault:":8080" validate:"required"`
	Mode         string `env:"MODE" envDefault:"release" validate:"oneof=debug release test"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`
}

var validate = validator.New()

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads values from environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. Call it again after flag overrides.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Errorf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
