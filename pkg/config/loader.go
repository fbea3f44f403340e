package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, ORBIT_CONFIG env, ./orbit.yaml, /etc/orbit/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. ORBIT_CONFIG environment variable
// 3. ./orbit.yaml in the current directory
// 4. /etc/orbit/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("ORBIT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"orbit.yaml",
		"/etc/orbit/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps ORBIT_* environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ORBIT_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("ORBIT_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("ORBIT_REFERER"); v != "" {
		cfg.API.Referer = v
	}
	if v := os.Getenv("ORBIT_TITLE"); v != "" {
		cfg.API.Title = v
	}
	if v := os.Getenv("ORBIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("ORBIT_MODEL"); v != "" {
		cfg.Defaults.Model = v
	}
	if v := os.Getenv("ORBIT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Defaults.Temperature = f
		}
	}
	if v := os.Getenv("ORBIT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.MaxTokens = n
		}
	}
	if v := os.Getenv("ORBIT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. The value field wins when both are set.
func resolveFileReferences(cfg *Config) error {
	if cfg.API.KeyFile != "" && cfg.API.Key == "" {
		val, err := readSecretFile(cfg.API.KeyFile)
		if err != nil {
			return fmt.Errorf("api.key_file: %w", err)
		}
		cfg.API.Key = val
	}
	return nil
}

// readSecretFile reads a secret value from a file, trimming whitespace.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
