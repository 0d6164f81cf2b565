// Package config provides the configuration structure for the tts-dashboard.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Default values applied when the project TOML leaves a field unset.
const (
	DefaultHost               = "127.0.0.1"
	DefaultPort               = 8080
	DefaultReadTimeoutSeconds = 30
	DefaultSynthesisTimeout   = 120
	DefaultRateWPM            = 175
	DefaultGender             = "male"
	DefaultBucket             = "TTS_DASHBOARD_AUDIO"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// SpeechConfig holds the speech engine configuration.
type SpeechConfig struct {
	Engine                  string `toml:"engine"`
	DefaultGender           string `toml:"default_gender"`
	RateWPM                 int    `toml:"rate_wpm"`
	SynthesisTimeoutSeconds int    `toml:"synthesis_timeout_seconds"`
}

// StorageConfig holds the audio object store configuration. An empty URL
// selects the embedded JetStream server.
type StorageConfig struct {
	NATSURL string `toml:"nats_url"`
	Bucket  string `toml:"bucket"`
	DataDir string `toml:"data_dir"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Speech  SpeechConfig  `toml:"speech"`
	Storage StorageConfig `toml:"storage"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration for the tts-dashboard and fills in defaults.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = DefaultReadTimeoutSeconds
	}

	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = DefaultReadTimeoutSeconds
	}

	if c.Speech.Engine == "" {
		c.Speech.Engine = "auto"
	}

	if c.Speech.DefaultGender == "" {
		c.Speech.DefaultGender = DefaultGender
	}

	if c.Speech.RateWPM == 0 {
		c.Speech.RateWPM = DefaultRateWPM
	}

	if c.Speech.SynthesisTimeoutSeconds == 0 {
		c.Speech.SynthesisTimeoutSeconds = DefaultSynthesisTimeout
	}

	if c.Storage.Bucket == "" {
		c.Storage.Bucket = DefaultBucket
	}
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
