// Package scenario defines the dependency-version scenario model and
// the classification of command results into outcomes.
package scenario

// DefaultCommand is used when neither the scenario nor the run-level
// configuration provides a command.
const DefaultCommand = "npm test"

// DependencySet declares the dependency versions a scenario applies for one
// manager kind. Resolutions take precedence over the plain version constraint
// for the same dependency name.
type DependencySet struct {
	Dependencies    map[string]string `yaml:"dependencies" json:"dependencies,omitempty"`
	DevDependencies map[string]string `yaml:"devDependencies" json:"devDependencies,omitempty"`
	Resolutions     map[string]string `yaml:"resolutions" json:"resolutions,omitempty"`
}

// IsEmpty reports whether the set declares no dependencies at all.
func (d DependencySet) IsEmpty() bool {
	return len(d.Dependencies) == 0 && len(d.DevDependencies) == 0 && len(d.Resolutions) == 0
}

// RequestedVersion returns the effective version constraint for a dependency,
// honoring resolutions over the plain constraint.
func (d DependencySet) RequestedVersion(name string) (string, bool) {
	if v, ok := d.Resolutions[name]; ok {
		return v, true
	}
	if v, ok := d.Dependencies[name]; ok {
		return v, true
	}
	v, ok := d.DevDependencies[name]
	return v, ok
}

// Scenario is one named point in the dependency-version test matrix.
// Scenarios are built from configuration before the run starts and are never
// mutated during the run.
type Scenario struct {
	Name           string
	Command        string // empty means fall back to the run-level default
	AllowedToFail  bool
	Env            map[string]string
	DependencySets map[string]DependencySet // keyed by manager kind, e.g. "npm", "bower"
}

// EffectiveCommand resolves the command to run for this scenario: the
// scenario's own command, then the run-level default, then DefaultCommand.
func (s Scenario) EffectiveCommand(runDefault string) string {
	if s.Command != "" {
		return s.Command
	}
	if runDefault != "" {
		return runDefault
	}
	return DefaultCommand
}

// Set returns the dependency set for a manager kind, if declared.
func (s Scenario) Set(kind string) (DependencySet, bool) {
	set, ok := s.DependencySets[kind]
	return set, ok
}

// Verdict is the tri-state result of one scenario.
type Verdict int

const (
	VerdictSuccess Verdict = iota
	VerdictFail
	VerdictFailAllowed
)

func (v Verdict) String() string {
	switch v {
	case VerdictSuccess:
		return "SUCCESS"
	case VerdictFail:
		return "FAIL"
	case VerdictFailAllowed:
		return "FAIL (Allowed)"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the immutable result of one scenario run.
type Outcome struct {
	Scenario Scenario
	Verdict  Verdict
	ExitCode int
}

// Classify turns a raw exit code and the scenario's allowed-to-fail policy
// into an outcome.
func Classify(s Scenario, exitCode int) Outcome {
	verdict := VerdictSuccess
	if exitCode != 0 {
		if s.AllowedToFail {
			verdict = VerdictFailAllowed
		} else {
			verdict = VerdictFail
		}
	}
	return Outcome{Scenario: s, Verdict: verdict, ExitCode: exitCode}
}

// Summary accumulates outcomes in run order and derives the aggregate result.
type Summary struct {
	Outcomes []Outcome
}

// Add appends an outcome.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of scenarios run.
func (s *Summary) Total() int { return len(s.Outcomes) }

// Succeeded returns the number of SUCCESS outcomes.
func (s *Summary) Succeeded() int { return s.count(VerdictSuccess) }

// Failed returns the number of plain FAIL outcomes.
func (s *Summary) Failed() int { return s.count(VerdictFail) }

// FailedAllowed returns the number of tolerated failures.
func (s *Summary) FailedAllowed() int { return s.count(VerdictFailAllowed) }

func (s *Summary) count(v Verdict) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Verdict == v {
			n++
		}
	}
	return n
}

// ExitCode returns the aggregate exit code: 0 unless at least one scenario
// is a plain FAIL. Allowed failures never force a non-zero aggregate.
func (s *Summary) ExitCode() int {
	if s.Failed() > 0 {
		return 1
	}
	return 0
}
