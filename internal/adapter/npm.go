package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trydeps/internal/execute"
	"trydeps/internal/scenario"
)

// npm-family lockfiles backed up alongside the manifest so the install step
// cannot rewrite them behind the user's back.
var npmLockfiles = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml"}

// installBinaries maps the configured package manager to its install argv.
var installBinaries = map[string][]string{
	"npm":  {"npm", "install"},
	"yarn": {"yarn", "install"},
	"pnpm": {"pnpm", "install"},
}

// resolutionsFieldFor picks the manifest field resolutions are written to:
// yarn reads "resolutions", npm and pnpm read "overrides".
func resolutionsFieldFor(packageManager string) string {
	if packageManager == "yarn" {
		return "resolutions"
	}
	return "overrides"
}

// Npm applies a scenario's npm-family dependency set to package.json and runs
// the configured package manager's install step.
type Npm struct {
	dir            string
	packageManager string
	install        func(ctx context.Context) error
}

// NewNpm creates the npm-family adapter for a project directory.
// packageManager is "npm", "yarn" or "pnpm"; empty defaults to "npm".
func NewNpm(dir, packageManager string, exec *execute.Executor) *Npm {
	if packageManager == "" {
		packageManager = "npm"
	}
	a := &Npm{dir: dir, packageManager: packageManager}
	a.install = func(ctx context.Context) error {
		argv, ok := installBinaries[a.packageManager]
		if !ok {
			return fmt.Errorf("unsupported package manager %q", a.packageManager)
		}
		code := exec.RunArgv(ctx, argv, nil, execute.Options{Cwd: dir})
		if code != 0 {
			return fmt.Errorf("%s install exited with code %d", a.packageManager, code)
		}
		return nil
	}
	return a
}

func (a *Npm) Kind() string { return "npm" }

// IsApplicable reports whether the scenario declares an npm-family dependency
// set and the project carries a package.json to apply it to.
func (a *Npm) IsApplicable(s scenario.Scenario) bool {
	set, ok := s.Set("npm")
	if !ok || set.IsEmpty() {
		return false
	}
	_, err := os.Stat(filepath.Join(a.dir, "package.json"))
	return err == nil
}

// Setup backs up the manifest and lockfile, writes the scenario's versions,
// and runs the install step. On install failure the original files are
// restored before the error is returned.
func (a *Npm) Setup(ctx context.Context, s scenario.Scenario) ([]PlanRow, Cleanup, error) {
	set, ok := s.Set("npm")
	if !ok {
		return nil, nil, fmt.Errorf("scenario %q declares no npm dependency set", s.Name)
	}

	manifestPath := filepath.Join(a.dir, "package.json")
	doc, err := readManifest(manifestPath)
	if err != nil {
		return nil, nil, err
	}

	restore, err := backupFiles(a.dir, append([]string{"package.json"}, npmLockfiles...))
	if err != nil {
		return nil, nil, err
	}

	applyDependencySet(doc, set, resolutionsFieldFor(a.packageManager))
	if err := writeManifest(manifestPath, doc); err != nil {
		_ = restore()
		return nil, nil, err
	}

	if err := a.install(ctx); err != nil {
		_ = restore()
		return nil, nil, err
	}

	cleanup := once(func() error {
		if err := restore(); err != nil {
			return err
		}
		// Reinstall so node_modules matches the restored manifest again.
		return a.install(ctx)
	})

	return a.plan(set), cleanup, nil
}

// plan builds the install-plan table: requested constraint per dependency and
// the version actually present under node_modules after the install.
func (a *Npm) plan(set scenario.DependencySet) []PlanRow {
	var rows []PlanRow
	for _, name := range declaredNames(set) {
		requested, _ := set.RequestedVersion(name)
		rows = append(rows, PlanRow{
			Dependency: name,
			Requested:  requested,
			Resolved:   a.installedVersion(name),
			Manager:    a.Kind(),
		})
	}
	return rows
}

// installedVersion reads the version field of an installed package.
// Returns "-" when the package is absent or unreadable; the install step has
// already succeeded at this point, so this is informational only.
func (a *Npm) installedVersion(name string) string {
	data, err := os.ReadFile(filepath.Join(a.dir, "node_modules", name, "package.json"))
	if err != nil {
		return "-"
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil || pkg.Version == "" {
		return "-"
	}
	return pkg.Version
}
