// Package config provides configuration loading and validation for trydeps.
package config

import "trydeps/internal/scenario"

// Config represents the complete trydeps configuration file.
type Config struct {
	Command        string           `yaml:"command" json:"command,omitempty"`
	PackageManager string           `yaml:"packageManager" json:"packageManager,omitempty"`
	Scenarios      []ScenarioConfig `yaml:"scenarios" json:"scenarios"`
}

// ScenarioConfig defines one scenario entry. Dependency sets are keyed by
// manager kind; a nil set means the scenario does not touch that manager.
type ScenarioConfig struct {
	Name          string                  `yaml:"name" json:"name"`
	Command       string                  `yaml:"command" json:"command,omitempty"`
	AllowedToFail bool                    `yaml:"allowedToFail" json:"allowedToFail,omitempty"`
	Env           map[string]string       `yaml:"env" json:"env,omitempty"`
	Npm           *scenario.DependencySet `yaml:"npm" json:"npm,omitempty"`
	Bower         *scenario.DependencySet `yaml:"bower" json:"bower,omitempty"`
}

// BuildScenarios converts the configured entries into the immutable scenario
// list the runner consumes, preserving declaration order.
func (c *Config) BuildScenarios() []scenario.Scenario {
	scenarios := make([]scenario.Scenario, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		s := scenario.Scenario{
			Name:          sc.Name,
			Command:       sc.Command,
			AllowedToFail: sc.AllowedToFail,
			Env:           sc.Env,
		}
		sets := make(map[string]scenario.DependencySet)
		if sc.Npm != nil {
			sets["npm"] = *sc.Npm
		}
		if sc.Bower != nil {
			sets["bower"] = *sc.Bower
		}
		if len(sets) > 0 {
			s.DependencySets = sets
		}
		scenarios = append(scenarios, s)
	}
	return scenarios
}

// Scenario returns the configured entry with the given name.
func (c *Config) Scenario(name string) (ScenarioConfig, bool) {
	for _, sc := range c.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return ScenarioConfig{}, false
}
