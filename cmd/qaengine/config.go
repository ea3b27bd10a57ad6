package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/greentic-ai/qa-spec-go/internal/logging"
)

// Config is the qaengine CLI's YAML configuration: where the form spec
// lives, how secrets are gated at runtime, and how the logger is set up.
type Config struct {
	Version int `yaml:"version"`

	Form struct {
		Path string `yaml:"path"`
	} `yaml:"form"`

	Secrets struct {
		HostAvailable bool `yaml:"host_available"`
	} `yaml:"secrets"`

	Logging struct {
		Style string `yaml:"style"`
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Version == 0 {
		config.Version = 1
	}
	if config.Logging.Style == "" {
		config.Logging.Style = string(logging.StyleTerminal)
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	return config, nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	c := &Config{Version: 1}
	c.Logging.Style = string(logging.StyleTerminal)
	c.Logging.Level = "info"
	return c
}

func (c *Config) loggingConfig() *logging.Config {
	return &logging.Config{Style: logging.Style(c.Logging.Style), Level: c.Logging.Level}
}
