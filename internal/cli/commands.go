package cli

import (
	"context"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"trydeps/internal/adapter"
	"trydeps/internal/config"
	"trydeps/internal/errors"
	"trydeps/internal/execute"
	"trydeps/internal/runner"
	"trydeps/internal/scenario"
)

// loadConfig resolves the project directory and loads the validated
// configuration. Returns a non-nil error suitable for GetExitCode on failure.
func loadConfig(opts *GlobalOptions) (*config.Config, string, error) {
	dir := opts.Cwd
	if dir == "" {
		dir = "."
	}
	if info, err := os.Stat(dir); err != nil {
		return nil, "", errors.Environmentf("project directory %s: %v", dir, err)
	} else if !info.IsDir() {
		return nil, "", errors.Environmentf("project directory %s is not a directory", dir)
	}

	path := opts.ConfigPath
	if path == "" {
		found, err := config.Find(dir)
		if err != nil {
			return nil, "", errors.Config(err.Error())
		}
		path = found
	}

	cfg, err := config.LoadAndValidate(path)
	if err != nil {
		return nil, "", errors.Configf("%s: %v", path, err)
	}
	return cfg, dir, nil
}

func runScenarios(cfg *config.Config, scenarios []scenario.Scenario, dir string, opts *GlobalOptions) int {
	exec := execute.New()
	r := runner.New(runner.Options{
		Command:   cfg.Command,
		Args:      opts.Passthru,
		Cwd:       dir,
		TimeoutMs: opts.TimeoutSec * 1000,
		Adapters:  adapter.DefaultAdapters(dir, cfg.PackageManager, exec),
		Executor:  exec,
		Out:       out,
	})

	summary := r.Run(context.Background(), scenarios)
	return summary.ExitCode()
}

// cmdEach runs every configured scenario in declaration order.
func cmdEach(args []string, opts *GlobalOptions) int {
	if len(args) > 0 {
		out.Errorln("each takes no arguments (use -- to pass extra command args)")
		return errors.ExitConfigError
	}

	cfg, dir, err := loadConfig(opts)
	if err != nil {
		out.Errorln("%v", err)
		return errors.GetExitCode(err)
	}

	return runScenarios(cfg, cfg.BuildScenarios(), dir, opts)
}

// cmdOne runs a single named scenario.
func cmdOne(args []string, opts *GlobalOptions) int {
	if len(args) != 1 {
		out.Errorln("usage: trydeps one <scenario>")
		return errors.ExitConfigError
	}

	cfg, dir, err := loadConfig(opts)
	if err != nil {
		out.Errorln("%v", err)
		return errors.GetExitCode(err)
	}

	name := args[0]
	if _, ok := cfg.Scenario(name); !ok {
		nf := errors.NotFound("scenario", name)
		out.Errorln("%v", nf)
		return nf.ExitCode()
	}

	var selected []scenario.Scenario
	for _, s := range cfg.BuildScenarios() {
		if s.Name == name {
			selected = append(selected, s)
		}
	}

	return runScenarios(cfg, selected, dir, opts)
}

// cmdList prints the configured scenarios as a table.
func cmdList(opts *GlobalOptions) int {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		out.Errorln("%v", err)
		return errors.GetExitCode(err)
	}

	titleCase := cases.Title(language.English)

	var rows [][]string
	for _, s := range cfg.BuildScenarios() {
		var kinds []string
		for kind := range s.DependencySets {
			kinds = append(kinds, titleCase.String(kind))
		}
		sort.Strings(kinds)

		allowed := "no"
		if s.AllowedToFail {
			allowed = "yes"
		}
		rows = append(rows, []string{
			s.Name,
			s.EffectiveCommand(cfg.Command),
			strings.Join(kinds, ", "),
			allowed,
		})
	}

	out.Table([]string{"scenario", "command", "managers", "allowed to fail"}, rows)
	return errors.ExitSuccess
}

// cmdConfig prints the resolved configuration.
func cmdConfig(opts *GlobalOptions) int {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		out.Errorln("%v", err)
		return errors.GetExitCode(err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		werr := errors.Wrap(err, "marshal config")
		out.Errorln("%v", werr)
		return werr.ExitCode()
	}
	out.Print("%s", string(data))
	return errors.ExitSuccess
}

// cmdReset restores manifests from backup files a crashed run left behind.
func cmdReset(opts *GlobalOptions) int {
	dir := opts.Cwd
	if dir == "" {
		dir = "."
	}

	restored, err := adapter.RestoreLeftoverBackups(dir)
	if err != nil {
		eerr := errors.Environmentf("reset: %v", err)
		out.Errorln("%v", eerr)
		return eerr.ExitCode()
	}
	if len(restored) == 0 {
		out.Info("nothing to restore")
		return errors.ExitSuccess
	}
	for _, name := range restored {
		out.Info("restored %s", name)
	}
	return errors.ExitSuccess
}
