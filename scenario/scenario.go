// Package scenario drives a Simulation from a tengo script. Scripts see one
// global, sim, whose functions grab boxes, walk between rooms, advance the
// tick clock and assert on what the world shows.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/sim"
	"github.com/milk9111/roomtrials/trial"
)

var ErrFailed = errors.New("scenario: expectations failed")

// Report is what one script run left behind.
type Report struct {
	Script     string
	Experiment string
	Failures   []string
	Logs       []string
	Transcript []string
	Outcomes   []trial.Outcome
	Phase      trial.Phase
	Ticks      uint64
}

func (r *Report) Passed() bool { return r != nil && len(r.Failures) == 0 }

func (r *Report) String() string {
	var b strings.Builder
	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "%s %s on %s: phase %s after %d ticks, %d outcomes\n", status, r.Script, r.Experiment, r.Phase, r.Ticks, len(r.Outcomes))
	for _, l := range r.Logs {
		fmt.Fprintf(&b, "  log: %s\n", l)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  fail: %s\n", f)
	}
	return b.String()
}

// RunFile loads a script by name (see prefabs.LoadScript) and runs it.
func RunFile(ctx context.Context, name string, spec prefabs.ExperimentSpec, logger *slog.Logger) (*Report, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", name, err)
	}
	return Run(ctx, name, src, spec, logger)
}

// Run compiles src and runs it against a fresh Simulation built from spec.
// The error is ErrFailed when the script ran but an expectation did not hold.
func Run(ctx context.Context, name string, src []byte, spec prefabs.ExperimentSpec, logger *slog.Logger) (*Report, error) {
	log := logging.OrDiscard(logger).With("script", name)

	s, err := sim.New(spec, log)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	report := &Report{Script: name, Experiment: spec.Name}
	script := tengo.NewScript(src)
	_ = script.Add("sim", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	if err := compiled.Set("sim", buildEngine(s, report, log)); err != nil {
		return nil, err
	}

	runErr := compiled.RunContext(ctx)

	report.Transcript = s.Transcript()
	report.Outcomes = s.Controller.Outcomes()
	report.Phase = s.Controller.Phase()
	report.Ticks = s.Timers.Tick()

	if runErr != nil {
		return report, fmt.Errorf("scenario: run %s: %w", name, runErr)
	}
	if !report.Passed() {
		log.Warn("scenario failed", "failures", len(report.Failures))
		return report, ErrFailed
	}
	log.Info("scenario passed", "ticks", report.Ticks, "phase", report.Phase)
	return report, nil
}
