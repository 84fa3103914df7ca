package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/imamik/towerctl/internal/errs"
)

// DefaultConfigFile is the configuration file auto-detected in the working
// directory when no path is given.
const DefaultConfigFile = "towerctl.yaml"

// LoadFile reads and parses the configuration from a YAML file, applies
// environment overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.KindConfiguration, "", "load_config",
			fmt.Errorf("failed to read config file: %w", err)).
			WithRemedy("create " + DefaultConfigFile + " or pass --config")
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, errs.New(errs.KindConfiguration, "", "load_config",
			fmt.Errorf("failed to unmarshal yaml: %w", err))
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, errs.New(errs.KindConfiguration, "", "load_config",
			fmt.Errorf("failed to decode config: %w", err))
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills unset fields before env overrides and validation run.
func applyDefaults(cfg *Config) {
	if cfg.Organization.SecurityOUName == "" {
		cfg.Organization.SecurityOUName = "Security"
	}
	if cfg.LandingZone.Version == "" {
		cfg.LandingZone.Version = "3.3"
	}
	if cfg.Security.Tier == "" {
		cfg.Security.Tier = "standard"
	}
}
