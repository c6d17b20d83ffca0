package system

import (
	"testing"
	"time"

	"github.com/milk9111/roomtrials/ecs"
)

func TestTimerFiresAfterDelay(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)

	fired := 0
	timers.ScheduleLabeled("door", 100*time.Millisecond, func() { fired++ })

	for i := 0; i < 5; i++ {
		timers.Update(w)
	}
	if fired != 0 {
		t.Fatalf("fired early at tick %d", timers.Tick())
	}
	timers.Update(w)
	if fired != 1 {
		t.Fatalf("expected fire on tick 6, got %d fires", fired)
	}
	for i := 0; i < 10; i++ {
		timers.Update(w)
	}
	if fired != 1 {
		t.Fatalf("timer fired more than once")
	}
	if timers.Pending() != 0 {
		t.Fatalf("expected no pending timers")
	}
	if got := countEvents(w, ecs.EventTimerFired); got != 1 {
		t.Fatalf("expected 1 timer event, got %d", got)
	}
}

func TestTimerCancel(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)

	fired := false
	h := timers.Schedule(50*time.Millisecond, func() { fired = true })
	if timers.Pending() != 1 {
		t.Fatalf("expected 1 pending timer")
	}
	if !h.Cancel() {
		t.Fatalf("first cancel should report pending")
	}
	if h.Cancel() {
		t.Fatalf("second cancel should report not pending")
	}
	for i := 0; i < 10; i++ {
		timers.Update(w)
	}
	if fired {
		t.Fatalf("cancelled timer fired")
	}
}

func TestTimerOrderAndReentrancy(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)

	var order []string
	timers.Schedule(0, func() {
		order = append(order, "a")
		timers.Schedule(0, func() { order = append(order, "nested") })
	})
	timers.Schedule(0, func() { order = append(order, "b") })

	timers.Update(w)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected first tick order %v", order)
	}
	timers.Update(w)
	if len(order) != 3 || order[2] != "nested" {
		t.Fatalf("nested timer should fire on the next tick, got %v", order)
	}
}

func TestTimerCallbackCancelsLaterTimer(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)

	fired := false
	var second interface{ Cancel() bool }
	timers.Schedule(0, func() { second.Cancel() })
	second = timers.Schedule(0, func() { fired = true })

	timers.Update(w)
	if fired {
		t.Fatalf("timer cancelled by an earlier callback still fired")
	}
}

func TestTimerNow(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)
	for i := 0; i < 90; i++ {
		timers.Update(w)
	}
	if got := timers.Now(); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", got)
	}
}

func TestTimerNilCallback(t *testing.T) {
	w := ecs.NewWorld()
	timers := NewTimerSystem(w, nil)
	h := timers.Schedule(time.Second, nil)
	if h.Cancel() {
		t.Fatalf("nil callback should not be scheduled")
	}
	if timers.Pending() != 0 {
		t.Fatalf("expected nothing pending")
	}
}
