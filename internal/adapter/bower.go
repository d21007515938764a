package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"trydeps/internal/execute"
	"trydeps/internal/scenario"
)

// Bower applies a scenario's bower-family dependency set to bower.json.
// It exists alongside the npm adapter so scenarios touching both manager
// kinds exercise the multi-adapter path; the set keys are disjoint.
type Bower struct {
	dir     string
	install func(ctx context.Context) error
}

// NewBower creates the bower-family adapter for a project directory.
func NewBower(dir string, exec *execute.Executor) *Bower {
	a := &Bower{dir: dir}
	a.install = func(ctx context.Context) error {
		code := exec.RunArgv(ctx, []string{"bower", "install"}, nil, execute.Options{Cwd: dir})
		if code != 0 {
			return fmt.Errorf("bower install exited with code %d", code)
		}
		return nil
	}
	return a
}

func (a *Bower) Kind() string { return "bower" }

// IsApplicable reports whether the scenario declares a bower dependency set
// and the project carries a bower.json.
func (a *Bower) IsApplicable(s scenario.Scenario) bool {
	set, ok := s.Set("bower")
	if !ok || set.IsEmpty() {
		return false
	}
	_, err := os.Stat(filepath.Join(a.dir, "bower.json"))
	return err == nil
}

// Setup mirrors the npm adapter's backup/merge/install cycle over bower.json.
// Bower always reads resolutions from the "resolutions" field.
func (a *Bower) Setup(ctx context.Context, s scenario.Scenario) ([]PlanRow, Cleanup, error) {
	set, ok := s.Set("bower")
	if !ok {
		return nil, nil, fmt.Errorf("scenario %q declares no bower dependency set", s.Name)
	}

	manifestPath := filepath.Join(a.dir, "bower.json")
	doc, err := readManifest(manifestPath)
	if err != nil {
		return nil, nil, err
	}

	restore, err := backupFiles(a.dir, []string{"bower.json"})
	if err != nil {
		return nil, nil, err
	}

	applyDependencySet(doc, set, "resolutions")
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
		return a.install(ctx)
	})

	var rows []PlanRow
	for _, name := range declaredNames(set) {
		requested, _ := set.RequestedVersion(name)
		rows = append(rows, PlanRow{
			Dependency: name,
			Requested:  requested,
			Resolved:   requested, // bower has no local metadata to resolve against
			Manager:    a.Kind(),
		})
	}
	return rows, cleanup, nil
}
