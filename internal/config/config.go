package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read into Config.
const EnvPrefix = "CASEREPORT"

// Config holds all runtime configuration for a casereport run.
type Config struct {
	DSN       string `yaml:"dsn" envconfig:"DSN"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	// Report command.
	Format  string `yaml:"format" envconfig:"FORMAT" default:"xlsx" validate:"oneof=xlsx html text parquet json"`
	Out     string `yaml:"out" envconfig:"OUT"`
	Archive bool   `yaml:"archive" envconfig:"ARCHIVE"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Listen        string        `yaml:"listen" envconfig:"LISTEN" default:":8080" validate:"required"`
	MaxUploadMB   int64         `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" default:"32" validate:"gt=0"`
	RatePerSecond float64       `yaml:"rate_per_second" envconfig:"RATE_PER_SECOND" default:"5" validate:"gt=0"`
	RateBurst     int           `yaml:"rate_burst" envconfig:"RATE_BURST" default:"10" validate:"gt=0"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s" validate:"gt=0"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
}

// Load builds a Config from defaults, then the optional dotenv file, then
// CASEREPORT_* environment variables, then the optional YAML file. Later
// sources win. Empty envFile or path skips that source; a missing envFile
// is ignored.
func Load(envFile, path string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if path != "" {
		if err := c.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Keys absent from the file keep their current value.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// ApplyFlags overlays every flag in fs that was set on the command line.
// Flags the command does not define are skipped.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"dsn":        &c.DSN,
		"log-format": &c.LogFormat,
		"log-level":  &c.LogLevel,
		"format":     &c.Format,
		"out":        &c.Out,
		"listen":     &c.Server.Listen,
	}
	for name, dst := range strs {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	if f := fs.Lookup("archive"); f != nil && f.Changed {
		v, err := fs.GetBool("archive")
		if err != nil {
			return err
		}
		c.Archive = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and returns one error listing every
// violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s, got %v", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// RequireDSN checks that a database connection string is configured.
func (c *Config) RequireDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or %s_DSN is required", EnvPrefix)
	}
	return nil
}
