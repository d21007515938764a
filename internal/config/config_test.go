package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const yamlConfig = `
command: npm test
packageManager: yarn
scenarios:
  - name: lib-lts
    npm:
      dependencies:
        left-pad: "~4.12.0"
      devDependencies:
        qunit: "^2.19.0"
  - name: lib-release
    command: npm run test:all
    allowedToFail: true
    env:
      APP_ENV: development
    npm:
      dependencies:
        left-pad: "~5.0.0"
      resolutions:
        left-pad: "5.0.1"
`

const jsonConfig = `{
  "scenarios": [
    {
      "name": "only",
      "bower": {
        "dependencies": {"jquery": "3.6.0"}
      }
    }
  ]
}`

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "trydeps.yaml", yamlConfig)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error: %v", err)
	}

	if cfg.Command != "npm test" {
		t.Errorf("Command = %q", cfg.Command)
	}
	if cfg.PackageManager != "yarn" {
		t.Errorf("PackageManager = %q", cfg.PackageManager)
	}
	if len(cfg.Scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(cfg.Scenarios))
	}

	lts := cfg.Scenarios[0]
	if lts.Name != "lib-lts" || lts.Npm == nil {
		t.Fatalf("first scenario = %+v", lts)
	}
	if lts.Npm.Dependencies["left-pad"] != "~4.12.0" {
		t.Errorf("dependencies = %v", lts.Npm.Dependencies)
	}

	release := cfg.Scenarios[1]
	if !release.AllowedToFail {
		t.Error("allowedToFail not parsed")
	}
	if release.Env["APP_ENV"] != "development" {
		t.Errorf("env = %v", release.Env)
	}
	if release.Npm.Resolutions["left-pad"] != "5.0.1" {
		t.Errorf("resolutions = %v", release.Npm.Resolutions)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "trydeps.json", jsonConfig)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error: %v", err)
	}

	if cfg.PackageManager != DefaultPackageManager {
		t.Errorf("PackageManager = %q, want default %q", cfg.PackageManager, DefaultPackageManager)
	}
	if cfg.Scenarios[0].Bower == nil || cfg.Scenarios[0].Bower.Dependencies["jquery"] != "3.6.0" {
		t.Errorf("bower set = %+v", cfg.Scenarios[0].Bower)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no scenarios", "command: npm test\n"},
		{"unknown field", "scenarios:\n  - name: a\nparallel: true\n"},
		{"bad package manager", "packageManager: cargo\nscenarios:\n  - name: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "trydeps.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() accepted invalid config")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "trydeps.yaml")); err == nil {
		t.Error("Load() succeeded for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "trydeps.yaml", "scenarios: [\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			PackageManager: "npm",
			Scenarios:      []ScenarioConfig{{Name: "a"}, {Name: "b"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no scenarios", func(c *Config) { c.Scenarios = nil }, true},
		{"empty name", func(c *Config) { c.Scenarios[0].Name = "" }, true},
		{"duplicate names", func(c *Config) { c.Scenarios[1].Name = "a" }, true},
		{"bad package manager", func(c *Config) { c.PackageManager = "bower" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "trydeps.yml", "scenarios:\n  - name: a\n")

	path, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if filepath.Base(path) != "trydeps.yml" {
		t.Errorf("Find() = %q", path)
	}
}

func TestFind_PrefersYAMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "trydeps.json", jsonConfig)
	writeConfig(t, dir, "trydeps.yaml", yamlConfig)

	path, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if filepath.Base(path) != "trydeps.yaml" {
		t.Errorf("Find() = %q, want trydeps.yaml first", path)
	}
}

func TestFind_Missing(t *testing.T) {
	if _, err := Find(t.TempDir()); err == nil {
		t.Error("Find() succeeded in empty directory")
	}
}

func TestBuildScenarios(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "trydeps.yaml", yamlConfig)
	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatal(err)
	}

	scenarios := cfg.BuildScenarios()
	if len(scenarios) != 2 {
		t.Fatalf("got %d scenarios", len(scenarios))
	}
	if scenarios[0].Name != "lib-lts" || scenarios[1].Name != "lib-release" {
		t.Errorf("order not preserved: %s, %s", scenarios[0].Name, scenarios[1].Name)
	}

	set, ok := scenarios[0].Set("npm")
	if !ok {
		t.Fatal("npm set missing")
	}
	if v, _ := set.RequestedVersion("left-pad"); v != "~4.12.0" {
		t.Errorf("requested version = %q", v)
	}
	if _, ok := scenarios[0].Set("bower"); ok {
		t.Error("undeclared bower set present")
	}
}

func TestScenarioLookup(t *testing.T) {
	cfg := &Config{Scenarios: []ScenarioConfig{{Name: "a"}, {Name: "b"}}}

	if sc, ok := cfg.Scenario("b"); !ok || sc.Name != "b" {
		t.Errorf("Scenario(b) = %+v, %v", sc, ok)
	}
	if _, ok := cfg.Scenario("missing"); ok {
		t.Error("Scenario(missing) found")
	}
}
