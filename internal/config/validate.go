package config

import (
	"fmt"
)

// packageManagers lists the supported npm-family install binaries.
var packageManagers = map[string]bool{
	"npm":  true,
	"yarn": true,
	"pnpm": true,
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors the schema cannot express.
func Validate(cfg *Config) error {
	if len(cfg.Scenarios) == 0 {
		return &ValidationError{Field: "scenarios", Message: "at least one scenario is required"}
	}

	if !packageManagers[cfg.PackageManager] {
		return &ValidationError{
			Field:   "packageManager",
			Message: fmt.Sprintf("%q is not supported (npm, yarn, pnpm)", cfg.PackageManager),
		}
	}

	seen := make(map[string]bool)
	for i, sc := range cfg.Scenarios {
		field := fmt.Sprintf("scenarios[%d]", i)
		if sc.Name == "" {
			return &ValidationError{Field: field + ".name", Message: "is required"}
		}
		if seen[sc.Name] {
			return &ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate scenario name %q", sc.Name),
			}
		}
		seen[sc.Name] = true
	}

	return nil
}
