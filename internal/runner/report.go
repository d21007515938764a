package runner

import (
	"fmt"
	"strings"

	"trydeps/internal/output"
	"trydeps/internal/scenario"
)

// Reporter appends one status line per finished scenario and, after the last
// one, emits the run summary with the aggregate verdict.
type Reporter struct {
	out     *output.Writer
	summary scenario.Summary
}

// NewReporter creates a Reporter writing to the given output.
func NewReporter(out *output.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report records an outcome and prints its status line.
func (r *Reporter) Report(o scenario.Outcome) {
	r.summary.Add(o)

	switch o.Verdict {
	case scenario.VerdictSuccess:
		r.out.ScenarioSuccess(o.Scenario.Name)
	case scenario.VerdictFailAllowed:
		r.out.ScenarioAllowedFailure(o.Scenario.Name)
	default:
		r.out.ScenarioFailed(o.Scenario.Name)
	}
}

// Finish prints the closing summary and returns the accumulated result.
func (r *Reporter) Finish() *scenario.Summary {
	s := &r.summary
	r.out.Section("Summary")

	if s.Total() == 0 {
		r.out.Println("No scenarios were run")
		return s
	}

	if s.Failed() == 0 && s.FailedAllowed() == 0 {
		r.out.Success("All %d scenarios succeeded", s.Total())
		return s
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d scenarios failed", s.Failed()))
	if s.FailedAllowed() > 0 {
		parts = append(parts, fmt.Sprintf("%d scenarios failed (allowed)", s.FailedAllowed()))
	}
	parts = append(parts, fmt.Sprintf("%d scenarios succeeded", s.Succeeded()))
	parts = append(parts, fmt.Sprintf("%d scenarios run", s.Total()))
	line := strings.Join(parts, " / ")

	if s.Failed() > 0 {
		r.out.Errorln("%s", line)
	} else {
		r.out.Println("%s", line)
	}
	return s
}
