package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trydeps/internal/schema"
)

// DefaultPackageManager is used when the configuration does not set one.
const DefaultPackageManager = "npm"

// fileNames are the configuration files probed, in order, when no explicit
// path is given.
var fileNames = []string{"trydeps.yaml", "trydeps.yml", "trydeps.json"}

// Find locates the configuration file in dir.
func Find(dir string) (string, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no trydeps configuration found in %s (tried %v)", dir, fileNames)
}

// Load reads and parses a configuration file. YAML and JSON are both
// accepted; the format is picked by file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Schema validation works on JSON documents; YAML configs are converted
	// through a generic decode first.
	jsonData := data
	if isYAML(path) {
		jsonData, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := schema.ValidateConfig(jsonData); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate reads a config file, applies defaults and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.PackageManager == "" {
		cfg.PackageManager = DefaultPackageManager
	}
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
