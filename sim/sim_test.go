package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/trial"
)

func loadExperiment(t *testing.T, name string) prefabs.ExperimentSpec {
	t.Helper()
	t.Setenv("ROOMTRIALS_WAIT", "500ms")
	spec, err := prefabs.LoadExperiment(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return spec
}

func newSim(t *testing.T, name string) *Simulation {
	t.Helper()
	s, err := New(loadExperiment(t, name), nil)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func walk(t *testing.T, s *Simulation, room string) {
	t.Helper()
	if err := s.Walk(room); err != nil {
		t.Fatalf("walk %s: %v", room, err)
	}
}

func TestNewStartsInStartSelect(t *testing.T) {
	s := newSim(t, "experiment.yaml")

	if got := s.Controller.Phase(); got != trial.PhaseStartSelect {
		t.Fatalf("expected StartSelect, got %s", got)
	}
	if got := s.ActivePanel(); got != "select" {
		t.Fatalf("expected select panel, got %q", got)
	}
	for _, role := range []string{"start_to_waiting", "waiting_to_reveal", "reveal_to_start"} {
		if s.DoorOpen(role) {
			t.Fatalf("expected %s closed at start", role)
		}
	}
	if s.RewardVisible() {
		t.Fatalf("expected reward hidden at start")
	}
	if got := s.PanelText("waiting"); got != "Please wait here." {
		t.Fatalf("unexpected panel text %q", got)
	}
}

func TestOneFailedTrialThroughTheWorld(t *testing.T) {
	s := newSim(t, "experiment.yaml")
	s.Step()

	if !s.Grab(1) {
		t.Fatalf("expected grab of box 1 to emit a select")
	}
	s.Step()
	if got := s.Controller.Choice(); got != 1 {
		t.Fatalf("expected choice 1, got %d", got)
	}
	if !s.DoorOpen("start_to_waiting") {
		t.Fatalf("expected start_to_waiting open after selection")
	}
	if got := s.ActivePanel(); got != "go_wait" {
		t.Fatalf("expected go_wait panel, got %q", got)
	}

	walk(t, s, "waiting")
	if got := s.Controller.Phase(); got != trial.PhaseWaiting {
		t.Fatalf("expected Waiting, got %s", got)
	}
	s.Advance(500 * time.Millisecond)
	if got := s.Controller.Phase(); got != trial.PhaseWaitingDone {
		t.Fatalf("expected WaitingDone after wait, got %s", got)
	}
	if !s.DoorOpen("waiting_to_reveal") {
		t.Fatalf("expected waiting_to_reveal open")
	}

	walk(t, s, "reveal")
	if got := s.ActivePanel(); got != "fail" {
		t.Fatalf("expected fail panel, got %q", got)
	}
	walk(t, s, "start")
	if got := s.Controller.Trial(); got != 1 {
		t.Fatalf("expected trial 1, got %d", got)
	}
	if got := s.Controller.Phase(); got != trial.PhaseStartSelect {
		t.Fatalf("expected StartSelect, got %s", got)
	}
	if !s.DoorOpen("reveal_to_start") {
		t.Fatalf("expected return door still open before the delay")
	}
	s.Advance(s.Spec.ReturnDoorDelay)
	if s.DoorOpen("reveal_to_start") {
		t.Fatalf("expected return door closed after the delay")
	}
}

func TestFullRunEndsInComplete(t *testing.T) {
	s := newSim(t, "experiment.yaml")
	s.Step()

	for i := 0; i < s.Spec.Trials; i++ {
		if !s.Grab(i % len(s.Layout.Boxes)) {
			t.Fatalf("trial %d: grab failed", i)
		}
		s.Step()
		walk(t, s, "waiting")
		s.Advance(s.Spec.Wait)
		walk(t, s, "reveal")
		if i < s.Spec.Trials-1 {
			walk(t, s, "start")
		}
	}

	if got := s.Controller.Phase(); got != trial.PhaseComplete {
		t.Fatalf("expected Complete, got %s", got)
	}
	if !s.RewardVisible() {
		t.Fatalf("expected reward visible")
	}
	if got := s.ActivePanel(); got != "success" {
		t.Fatalf("expected success panel, got %q", got)
	}
	outcomes := s.Controller.Outcomes()
	if len(outcomes) != s.Spec.Trials {
		t.Fatalf("expected %d outcomes, got %d", s.Spec.Trials, len(outcomes))
	}

	var sawOutcome bool
	for _, line := range s.Transcript() {
		if strings.Contains(line, "outcome trial=4") && strings.Contains(line, "success=true") {
			sawOutcome = true
		}
	}
	if !sawOutcome {
		t.Fatalf("expected final outcome in transcript:\n%s", strings.Join(s.Transcript(), "\n"))
	}
}

func TestGrabVariantHasNoDoors(t *testing.T) {
	s := newSim(t, "grab.yaml")

	if len(s.Layout.Doors) != 0 || len(s.Layout.Sensors) != 0 {
		t.Fatalf("expected no doors or sensors, got %d doors %d sensors", len(s.Layout.Doors), len(s.Layout.Sensors))
	}
	for i := 0; i < s.Spec.Trials-1; i++ {
		s.Grab(0)
		s.Step()
		if got := s.ActivePanel(); got != "fail" {
			t.Fatalf("grab %d: expected fail panel, got %q", i+1, got)
		}
		s.Release()
		s.Step()
		if got := s.ActivePanel(); got != "select" {
			t.Fatalf("release %d: expected select panel, got %q", i+1, got)
		}
	}
	s.Grab(1)
	s.Step()
	if got := s.Controller.Phase(); got != trial.PhaseComplete {
		t.Fatalf("expected Complete, got %s", got)
	}
	if !s.RewardVisible() {
		t.Fatalf("expected reward visible")
	}
}

func TestWalkUnknownRoom(t *testing.T) {
	s := newSim(t, "grab.yaml")
	if err := s.Walk("attic"); err == nil {
		t.Fatalf("expected error for unknown room")
	}
}

func TestSummaryListsDoors(t *testing.T) {
	s := newSim(t, "experiment.yaml")
	lines := s.Summary()
	if len(lines) != 5 {
		t.Fatalf("expected 5 summary lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[2], "door reveal_to_start") {
		t.Fatalf("expected doors sorted, got %q", lines[2])
	}
}
