// Package config provides the configuration structure for the narration-service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                    string `toml:"url"`
	NarrationSubject       string `toml:"narration_subject"`
	AudioStoredSubject     string `toml:"audio_stored_subject"`
	AudioObjectStoreBucket string `toml:"audio_object_store_bucket"`
}

// SynthesisConfig holds the configuration for the speech synthesis provider.
type SynthesisConfig struct {
	ServiceURL     string `toml:"service_url"`
	Voice          string `toml:"voice"`
	OutputFormat   string `toml:"output_format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StorageConfig holds the configuration for addressing stored objects.
type StorageConfig struct {
	PublicHost string `toml:"public_host"`
}

// HTTPConfig holds the configuration for the HTTP gateway.
type HTTPConfig struct {
	ListenAddress string `toml:"listen_address"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS      NATSConfig      `toml:"nats"`
	Synthesis SynthesisConfig `toml:"synthesis"`
	Storage   StorageConfig   `toml:"storage"`
	HTTP      HTTPConfig      `toml:"http"`
	Paths     PathsConfig     `toml:"paths"`
}

// Load loads the configuration for the narration-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
