package tts

import (
	"log/slog"
	"time"
)

// Config holds synthesis provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Provider credentials
	APIKey string

	// APIURL is the full endpoint URL of the synthesis API.
	APIURL string

	// Voice is the fallback voice preset when a call passes none.
	Voice string

	// Timeout bounds a single synthesis call. Rendering is slow upstream,
	// so the default is far above typical REST budgets.
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring synthesizers.
type Option func(*Config)

// WithAPIKey sets the API key for the provider.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithAPIURL overrides the synthesis endpoint URL.
func WithAPIURL(url string) Option {
	return func(c *Config) {
		c.APIURL = url
	}
}

// WithVoice sets the fallback voice preset.
func WithVoice(voiceID string) Option {
	return func(c *Config) {
		c.Voice = voiceID
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the structured logger for the provider.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Voice:   DefaultVoice,
		Timeout: 90 * time.Second,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
