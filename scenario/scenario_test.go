package scenario

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/trial"
)

func loadSpec(t *testing.T, name string) prefabs.ExperimentSpec {
	t.Helper()
	t.Setenv("ROOMTRIALS_WAIT", "250ms")
	spec, err := prefabs.LoadExperiment(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return spec
}

func TestEmbeddedScripts(t *testing.T) {
	tests := []struct {
		script     string
		experiment string
		phase      trial.Phase
	}{
		{script: "full_run", experiment: "experiment.yaml", phase: trial.PhaseComplete},
		{script: "duplicates", experiment: "experiment.yaml", phase: trial.PhaseReveal},
		{script: "grab_counter", experiment: "grab.yaml", phase: trial.PhaseComplete},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			report, err := RunFile(context.Background(), tt.script, loadSpec(t, tt.experiment), nil)
			if err != nil {
				t.Fatalf("run: %v\n%s", err, report)
			}
			if report.Phase != tt.phase {
				t.Fatalf("expected phase %s, got %s", tt.phase, report.Phase)
			}
			if len(report.Transcript) == 0 {
				t.Fatalf("expected a transcript")
			}
		})
	}
}

func TestScriptNamesIncludeEmbedded(t *testing.T) {
	names := strings.Join(prefabs.ScriptNames(), ",")
	for _, want := range []string{"duplicates.tengo", "full_run.tengo", "grab_counter.tengo"} {
		if !strings.Contains(names, want) {
			t.Fatalf("expected %s in %s", want, names)
		}
	}
}

func TestFailedExpectationIsReported(t *testing.T) {
	src := []byte(`
sim.expect(sim.phase() == "StartSelect", "starts in select")
sim.expect(sim.reward(), "reward", "visible")
`)
	report, err := Run(context.Background(), "inline", src, loadSpec(t, "grab.yaml"), nil)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %v", report.Failures)
	}
	if !strings.Contains(report.Failures[0], "reward visible") {
		t.Fatalf("unexpected failure text %q", report.Failures[0])
	}
	if report.Passed() {
		t.Fatalf("expected report to fail")
	}
}

func TestCompileError(t *testing.T) {
	_, err := Run(context.Background(), "broken", []byte(`sim.grab(`), loadSpec(t, "grab.yaml"), nil)
	if err == nil || errors.Is(err, ErrFailed) {
		t.Fatalf("expected compile error, got %v", err)
	}
}

func TestWalkUnknownRoomReturnsError(t *testing.T) {
	src := []byte(`
r := sim.walk("attic")
sim.expect(is_error(r), "walk into unknown room is an error")
`)
	if _, err := Run(context.Background(), "inline", src, loadSpec(t, "experiment.yaml"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestWaitAcceptsSecondsAndStrings(t *testing.T) {
	src := []byte(`
start := sim.tick(0)
sim.wait(1)
sim.wait("500ms")
sim.wait(0.25)
sim.expect(sim.tick(0) - start == 105, "ticks advanced", sim.tick(0) - start)
`)
	if _, err := Run(context.Background(), "inline", src, loadSpec(t, "grab.yaml"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, "spin", []byte(`for { sim.tick() }`), loadSpec(t, "grab.yaml"), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestLogLinesKept(t *testing.T) {
	report, err := Run(context.Background(), "inline", []byte(`sim.log("boxes", sim.spec.boxes)`), loadSpec(t, "grab.yaml"), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Logs) != 1 || report.Logs[0] != "boxes 2" {
		t.Fatalf("unexpected logs %v", report.Logs)
	}
}
