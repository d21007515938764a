// Package cli provides command-line interface functionality for trydeps.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"trydeps/internal/errors"
	"trydeps/internal/output"
)

// Version is set at build time.
var Version = "dev"

var out = output.New()

// GlobalOptions holds flags shared by all commands.
type GlobalOptions struct {
	ConfigPath string   // --config; empty means probe the working directory
	Cwd        string   // --cwd; empty means the current directory
	TimeoutSec int      // --timeout, per-command timeout in seconds
	Quiet      bool     // -q / --quiet
	NoColor    bool     // --no-color
	Passthru   []string // everything after --, appended to each scenario command
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return errors.ExitSuccess
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return errors.ExitSuccess
	case "--version", "version":
		fmt.Printf("trydeps %s\n", Version)
		return errors.ExitSuccess
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.Errorln("%v", err)
		return errors.ExitConfigError
	}

	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}

	if len(remaining) == 0 {
		printUsage()
		return errors.ExitSuccess
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "each":
		return cmdEach(cmdArgs, opts)
	case "one":
		return cmdOne(cmdArgs, opts)
	case "list":
		return cmdList(opts)
	case "config":
		return cmdConfig(opts)
	case "reset":
		return cmdReset(opts)
	default:
		out.Errorln("unknown command: %s", cmd)
		printUsage()
		return errors.ExitConfigError
	}
}

// parseGlobalFlags extracts global flags, returning the non-flag arguments.
// Everything after -- is collected as pass-through command arguments.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--config requires a value")
			}
			opts.ConfigPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
			i++
		case arg == "--cwd":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--cwd requires a value")
			}
			opts.Cwd = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--cwd="):
			opts.Cwd = strings.TrimPrefix(arg, "--cwd=")
			i++
		case arg == "--timeout":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--timeout requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return nil, nil, fmt.Errorf("--timeout requires a non-negative number of seconds")
			}
			opts.TimeoutSec = n
			i += 2
		case strings.HasPrefix(arg, "--timeout="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--timeout="))
			if err != nil || n < 0 {
				return nil, nil, fmt.Errorf("--timeout requires a non-negative number of seconds")
			}
			opts.TimeoutSec = n
			i++
		case arg == "--":
			// Everything after -- is appended to each scenario's command
			opts.Passthru = append(opts.Passthru, args[i+1:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	return opts, remaining, nil
}

func printUsage() {
	out.Println("trydeps - run a command against a matrix of dependency-version scenarios")
	out.Println("")
	out.Println("Usage: trydeps [flags] <command> [args] [-- extra command args]")

	out.HelpSection("Commands:")
	out.HelpCommand("each", "Run every scenario in order", 16)
	out.HelpCommand("one <scenario>", "Run a single named scenario", 16)
	out.HelpCommand("list", "List configured scenarios", 16)
	out.HelpCommand("config", "Print the resolved configuration", 16)
	out.HelpCommand("reset", "Restore manifests from leftover backups", 16)
	out.HelpCommand("version", "Print the trydeps version", 16)

	out.HelpSection("Flags:")
	out.HelpCommand("--config <path>", "Configuration file (default: ./trydeps.{yaml,yml,json})", 16)
	out.HelpCommand("--cwd <dir>", "Project directory commands run in", 16)
	out.HelpCommand("--timeout <sec>", "Per-command timeout in seconds", 16)
	out.HelpCommand("-q, --quiet", "Suppress informational output", 16)
	out.HelpCommand("--no-color", "Disable colored output", 16)
	out.Println("")
}
