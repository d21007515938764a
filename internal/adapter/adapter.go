// Package adapter provides the dependency-manager contract and the adapters
// that apply a scenario's dependency versions to the working tree.
package adapter

import (
	"context"
	"sync"

	"trydeps/internal/execute"
	"trydeps/internal/scenario"
)

// BackupSuffix is appended to manifest and lockfile names while a scenario's
// dependency state is installed. Leftover backup files after a crash are
// recovered by the reset command.
const BackupSuffix = ".trydeps-backup"

// Cleanup restores the pre-setup manifest/lockfile/install state.
// Handles returned by Setup are single-use and idempotent: calling one twice
// performs the restore once.
type Cleanup func() error

// PlanRow is one line of the install-plan table emitted during setup.
type PlanRow struct {
	Dependency string
	Requested  string
	Resolved   string
	Manager    string
}

// Adapter applies and reverts one manager kind's dependency versions.
//
// IsApplicable is a pure predicate over the scenario's dependency-set keys and
// the ambient project files; it must not have side effects. Setup mutates the
// shared working tree and returns the cleanup that undoes it; when Setup
// returns an error it has already restored its own changes and the cleanup is
// nil.
type Adapter interface {
	Kind() string
	IsApplicable(s scenario.Scenario) bool
	Setup(ctx context.Context, s scenario.Scenario) ([]PlanRow, Cleanup, error)
}

// Applicable filters adapters to those applicable for the scenario,
// preserving registration order. The runner applies every applicable adapter,
// not just the first; their set keys are disjoint by convention.
func Applicable(adapters []Adapter, s scenario.Scenario) []Adapter {
	var out []Adapter
	for _, a := range adapters {
		if a.IsApplicable(s) {
			out = append(out, a)
		}
	}
	return out
}

// DefaultAdapters returns the adapters available for a project directory, in
// registration order. packageManager selects the npm-family install binary.
func DefaultAdapters(dir, packageManager string, exec *execute.Executor) []Adapter {
	return []Adapter{
		NewNpm(dir, packageManager, exec),
		NewBower(dir, exec),
	}
}

// once wraps a cleanup so repeated calls release exactly once.
func once(fn Cleanup) Cleanup {
	var o sync.Once
	var err error
	return func() error {
		o.Do(func() { err = fn() })
		return err
	}
}
