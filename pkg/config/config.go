package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/spacereport/pkg/registry"
)

const (
	xdgAppName = "spacereport"
	configFile = "config.yaml"

	// IgnoreSpacesEnv carries a JSON array of bare space ids to exclude,
	// e.g. `["AAAA1234","BBBB5678"]`. The ids get the "spaces/" resource
	// prefix added here so deployment config can stay short.
	IgnoreSpacesEnv = "IGNORE_SPACES"
)

type Config struct {
	// AllowSpaces restricts reports to these space ids when non-empty.
	AllowSpaces []string `yaml:"allow_spaces,omitempty"`
	// DenySpaces excludes these space ids regardless of the allow list.
	DenySpaces []string `yaml:"deny_spaces,omitempty"`
	// ListenAddr is the dashboard server bind address.
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withDefaults(&Config{}), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return withDefaults(&cfg), nil
}

func withDefaults(cfg *Config) *Config {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:5000"
	}
	return cfg
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, b, 0600)
}

// Policy builds the space inclusion policy from the config file plus the
// IGNORE_SPACES environment override.
func (c *Config) Policy() (registry.SpacePolicy, error) {
	deny := append([]string(nil), c.DenySpaces...)

	if raw := os.Getenv(IgnoreSpacesEnv); raw != "" {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return registry.SpacePolicy{}, fmt.Errorf("failed to parse %s: %w", IgnoreSpacesEnv, err)
		}
		for _, id := range ids {
			deny = append(deny, "spaces/"+id)
		}
	}
	return registry.NewSpacePolicy(c.AllowSpaces, deny), nil
}
