// Package execute runs one external command with a merged environment and an
// optional timeout, reporting the result as an exit code.
package execute

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// CurrentScenarioEnv identifies the active scenario to tooling invoked by the
// command under test. It is set for exactly the duration of one Run call and
// restored afterwards, even when the command fails.
const CurrentScenarioEnv = "TRYDEPS_CURRENT_SCENARIO"

// Synthetic exit codes, following shell conventions.
const (
	// ExitTimeout is reported when the command exceeds its timeout and is killed.
	ExitTimeout = 124
	// ExitSpawnFailure is reported when the command cannot be started at all.
	ExitSpawnFailure = 127
)

// Options configures a single command execution.
type Options struct {
	Cwd       string            // Working directory ("" means inherit)
	Env       map[string]string // Overlay merged over the ambient environment; overlay wins
	TimeoutMs int               // Maximum wall-clock duration; 0 means no timeout
	Scenario  string            // Active scenario name, exported as CurrentScenarioEnv
}

// Executor spawns external commands. Child stdout/stderr go to the configured
// writers so command output interleaves with the run log.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
}

// New creates an Executor wired to the process stdout/stderr.
func New() *Executor {
	return &Executor{stdout: os.Stdout, stderr: os.Stderr}
}

// NewWithIO creates an Executor with custom output sinks (for testing).
func NewWithIO(stdout, stderr io.Writer) *Executor {
	return &Executor{stdout: stdout, stderr: stderr}
}

// Run executes a shell-style command string with extra args appended.
// The string is interpreted by the platform shell, matching how commands are
// written in the configuration file. The returned value is the child's exit
// code, or a synthetic code for spawn failures and timeouts; Run never
// reports an error as such.
func (e *Executor) Run(ctx context.Context, command string, args []string, opts Options) int {
	cmdStr := command
	if len(args) > 0 {
		cmdStr += " " + strings.Join(args, " ")
	}

	return e.run(ctx, opts, func(ctx context.Context) *exec.Cmd {
		return buildShellCommand(ctx, cmdStr)
	})
}

// RunArgv executes an explicit argv-style command with extra args appended,
// bypassing the shell.
func (e *Executor) RunArgv(ctx context.Context, argv []string, args []string, opts Options) int {
	if len(argv) == 0 {
		return ExitSpawnFailure
	}
	full := make([]string, 0, len(argv)+len(args))
	full = append(full, argv...)
	full = append(full, args...)

	return e.run(ctx, opts, func(ctx context.Context) *exec.Cmd {
		return exec.CommandContext(ctx, full[0], full[1:]...)
	})
}

func (e *Executor) run(ctx context.Context, opts Options, build func(context.Context) *exec.Cmd) int {
	if opts.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	// The scenario variable is process-wide state scoped strictly to this call.
	// The restore runs on every exit path, including panics below.
	restore := setScenarioEnv(opts.Scenario)
	defer restore()

	cmd := build(ctx)
	cmd.Dir = opts.Cwd
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	// Environment variable precedence (highest to lowest):
	//   1. Scenario-declared env (opts.Env)
	//   2. Inherited process env (os.Environ), which already carries
	//      CurrentScenarioEnv from setScenarioEnv above.
	// Later appends override earlier ones when the same key appears twice.
	cmd.Env = os.Environ()
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	err := cmd.Run()
	if err == nil {
		return 0
	}
	if ctx.Err() == context.DeadlineExceeded {
		return ExitTimeout
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	// Start failure: executable not found, bad working directory, etc.
	return ExitSpawnFailure
}

// setScenarioEnv sets CurrentScenarioEnv to the given name and returns a
// function restoring the prior state, including "previously absent".
// An empty name leaves the environment untouched.
func setScenarioEnv(name string) func() {
	if name == "" {
		return func() {}
	}
	prev, had := os.LookupEnv(CurrentScenarioEnv)
	os.Setenv(CurrentScenarioEnv, name)
	return func() {
		if had {
			os.Setenv(CurrentScenarioEnv, prev)
		} else {
			os.Unsetenv(CurrentScenarioEnv)
		}
	}
}

// buildShellCommand creates a cross-platform shell command.
// On Windows, uses the full path to PowerShell; on Unix, sh -c.
func buildShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return buildWindowsShellCommand(ctx, cmdStr)
	}
	return exec.CommandContext(ctx, "sh", "-c", cmdStr)
}

// buildWindowsShellCommand creates a PowerShell command using the full path,
// so shim layers on PATH cannot intercept the shell itself.
func buildWindowsShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	systemRoot := os.Getenv("SYSTEMROOT")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	powershellPath := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	return exec.CommandContext(ctx, powershellPath, "-NoProfile", "-NonInteractive", "-Command", cmdStr)
}
