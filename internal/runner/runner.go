// Package runner drives the per-scenario lifecycle across the ordered
// scenario list and reports the aggregate result.
package runner

import (
	"context"
	"fmt"

	"trydeps/internal/adapter"
	"trydeps/internal/errors"
	"trydeps/internal/execute"
	"trydeps/internal/output"
	"trydeps/internal/scenario"
)

// setupFailureExit is the exit code recorded when an adapter's setup fails
// before the scenario's command could run.
const setupFailureExit = 1

var planHeaders = []string{"dependency", "requested", "resolved", "manager"}

// Executor runs one external command and reports its exit code.
// *execute.Executor satisfies this; tests substitute fakes.
type Executor interface {
	Run(ctx context.Context, command string, args []string, opts execute.Options) int
}

// Options configures a run. These are per-invocation parameters, not tied to
// any single scenario.
type Options struct {
	Command   string   // run-level default command
	Args      []string // extra arguments appended to every scenario's command
	Cwd       string   // working directory for commands
	TimeoutMs int      // per-command timeout; 0 means none

	Adapters []adapter.Adapter // ordered; every applicable adapter is applied
	Executor Executor
	Out      *output.Writer
}

// Runner executes scenarios strictly sequentially. At most one scenario's
// dependency state is installed at any instant: setup for scenario N+1 does
// not begin until cleanup for scenario N has completed, including on failure.
type Runner struct {
	opts Options
	out  *output.Writer
}

// New creates a Runner. A nil Executor or Out falls back to the real
// executor and the process stdout/stderr writer.
func New(opts Options) *Runner {
	if opts.Executor == nil {
		opts.Executor = execute.New()
	}
	if opts.Out == nil {
		opts.Out = output.New()
	}
	return &Runner{opts: opts, out: opts.Out}
}

// Run executes every scenario in input order and returns the summary.
// A failing scenario never stops subsequent scenarios; only the caller's
// context can end the loop early.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) *scenario.Summary {
	reporter := NewReporter(r.out)

	for _, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		r.out.ScenarioStart(s.Name)
		outcome := scenario.Classify(s, r.runScenario(ctx, s))
		reporter.Report(outcome)
	}

	return reporter.Finish()
}

// runScenario walks one scenario through setup, execution and cleanup and
// returns the exit code to classify. Cleanup is unconditional: every adapter
// that completed setup is released, in reverse registration order, whatever
// happens afterwards.
func (r *Runner) runScenario(ctx context.Context, s scenario.Scenario) (exitCode int) {
	var cleanups []adapter.Cleanup
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil {
				r.out.Warning("%v", errors.ScenarioError(s.Name, "cleanup", err.Error()))
			}
		}
	}()

	// A declared dependency set with no adapter willing to apply it would
	// silently run the command against unswapped dependencies; say so.
	for _, a := range r.opts.Adapters {
		if a.IsApplicable(s) {
			continue
		}
		if set, ok := s.Set(a.Kind()); ok && !set.IsEmpty() {
			r.out.Warning("[%s] %s dependency set declared but not applied (no manifest?)", s.Name, a.Kind())
		}
	}

	for _, a := range adapter.Applicable(r.opts.Adapters, s) {
		rows, cleanup, err := a.Setup(ctx, s)
		if err != nil {
			r.out.Errorln("%v", errors.ScenarioError(s.Name, "setup", fmt.Sprintf("%s: %v", a.Kind(), err)))
			return setupFailureExit
		}
		cleanups = append(cleanups, cleanup)
		r.printPlan(rows)
	}

	command := s.EffectiveCommand(r.opts.Command)
	r.out.Info("Running: %s", command)

	return r.opts.Executor.Run(ctx, command, r.opts.Args, execute.Options{
		Cwd:       r.opts.Cwd,
		Env:       s.Env,
		TimeoutMs: r.opts.TimeoutMs,
		Scenario:  s.Name,
	})
}

func (r *Runner) printPlan(rows []adapter.PlanRow) {
	if len(rows) == 0 {
		return
	}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{row.Dependency, row.Requested, row.Resolved, row.Manager})
	}
	r.out.Table(planHeaders, table)
}
