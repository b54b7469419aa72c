// Package config loads CLI configuration in layers: built-in defaults, an
// optional YAML file, then APP_ environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for the customer form CLI.
type Config struct {
	Log  LogConfig  `koanf:"log"`
	Form FormConfig `koanf:"form"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// FormConfig tunes the customer form behaviour.
type FormConfig struct {
	// Debounce is the quiet window before the live email message updates.
	Debounce time.Duration `koanf:"debounce" validate:"gt=0"`
	// TestData pre-fills the form with sample values before prompting.
	TestData bool `koanf:"test_data"`
	// RequireValid refuses to save an invalid form.
	RequireValid bool `koanf:"require_valid"`
	// ReviewRounds caps how often invalid fields are offered for correction.
	// Zero skips the review.
	ReviewRounds int `koanf:"review_rounds" validate:"gte=0"`
}

// Validate checks the configuration using its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
