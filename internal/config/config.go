// Package config loads settings for the cipherbox command from defaults,
// an optional .env file and CIPHERBOX_* environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/illarion/cipherbox/internal/crypto"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads
const EnvPrefix = "CIPHERBOX"

// DefaultEnvFile is loaded when present and no explicit file is given
const DefaultEnvFile = ".env"

var ErrMissingSalt = errors.New("salt is required (use -salt or CIPHERBOX_SALT)")

// Config holds the command settings.
type Config struct {
	Iterations int    `mapstructure:"iterations" validate:"gte=1"`
	Salt       string `mapstructure:"salt" validate:"omitempty,base64"`
	LogLevel   string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat  string `mapstructure:"log_format" validate:"oneof=console json"`
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Load reads the configuration. envFile names a .env file that must exist;
// when empty, DefaultEnvFile is loaded if present. Variables already set in
// the environment win over the file.
func Load(envFile string) (*Config, error) {
	switch {
	case envFile != "":
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	case fileExists(DefaultEnvFile):
		if err := godotenv.Load(DefaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", DefaultEnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("iterations", crypto.DefaultIters)
	v.SetDefault("salt", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return &cfg, nil
}

// Validate checks the settings against their constraints.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, toSnakeCase(e.Field())+" "+formatValidationError(e))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// SaltBytes decodes the base64 salt.
func (c *Config) SaltBytes() ([]byte, error) {
	if c.Salt == "" {
		return nil, ErrMissingSalt
	}
	salt, err := base64.StdEncoding.DecodeString(c.Salt)
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}
	return salt, nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "gte":
		return "must be at least " + e.Param()
	case "base64":
		return "must be standard base64"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
