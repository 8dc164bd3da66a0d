// Package config loads ohap.yml, the caller-side settings file: where the
// gateway lives, who the local actor is, and how the reference server runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models ohap.yml.
type Config struct {
	Gateway struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"gateway"`
	Actor struct {
		ID   string `yaml:"id"`
		Type string `yaml:"type"`
		Name string `yaml:"name"`
	} `yaml:"actor"`
	Serve struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"serve"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create it with ohap config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("config.gateway.base_url is required")
	}
	if c.Gateway.TimeoutSeconds < 0 {
		return fmt.Errorf("config.gateway.timeout_seconds must not be negative")
	}
	switch c.Actor.Type {
	case "", "human", "agent", "system", "broker":
	default:
		return fmt.Errorf("config.actor.type must be one of human, agent, system, broker")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "ohap.yml")
}

// Default returns the default Config struct for an actor.
func Default(actorID string) *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(GenerateDefault(actorID)), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault(actorID string) string {
	return fmt.Sprintf(defaultTemplate, actorID)
}

const defaultTemplate = `gateway:
  base_url: http://localhost:8488
  api_key: ""
  timeout_seconds: 10

actor:
  id: %s
  type: human
  name: ""

serve:
  addr: :8488
  base_path: /
`
