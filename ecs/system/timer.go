package system

import (
	"log/slog"
	"sort"
	"time"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/trial"
)

// TimerSystem is the delayed-callback facility. Each pending callback is an
// entity carrying a Timer; Update advances a monotonic tick counter and fires
// every timer that has come due, oldest first. A timer scheduled during tick N
// fires on tick N+1 at the earliest.
type TimerSystem struct {
	w    *ecs.World
	log  *slog.Logger
	tick uint64
	seq  uint64
}

func NewTimerSystem(w *ecs.World, logger *slog.Logger) *TimerSystem {
	return &TimerSystem{w: w, log: logging.OrDiscard(logger)}
}

// Tick returns the number of completed updates.
func (s *TimerSystem) Tick() uint64 { return s.tick }

// Now returns the tick clock as a duration.
func (s *TimerSystem) Now() time.Duration {
	return time.Duration(s.tick) * time.Second / common.TickRate
}

func (s *TimerSystem) Schedule(d time.Duration, fn func()) trial.Timer {
	return s.ScheduleLabeled("", d, fn)
}

// ScheduleLabeled is Schedule with a label carried into the transcript.
func (s *TimerSystem) ScheduleLabeled(label string, d time.Duration, fn func()) trial.Timer {
	if s.w == nil || fn == nil {
		return &TimerHandle{}
	}
	s.seq++
	e := ecs.CreateEntity(s.w)
	_ = ecs.Add(s.w, e, component.TimerComponent.Kind(), &component.Timer{
		Due:   s.tick + common.TicksFor(d),
		Seq:   s.seq,
		Label: label,
		Fire:  fn,
	})
	logging.Trace(s.log, "timer scheduled", "label", label, "delay", d, "due", s.tick+common.TicksFor(d))
	return &TimerHandle{w: s.w, e: e}
}

// Pending returns the number of outstanding timers.
func (s *TimerSystem) Pending() int {
	n := 0
	ecs.ForEach(s.w, component.TimerComponent.Kind(), func(ecs.Entity, *component.Timer) { n++ })
	return n
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.tick++

	type dueTimer struct {
		e ecs.Entity
		t *component.Timer
	}
	var due []dueTimer
	ecs.ForEach(w, component.TimerComponent.Kind(), func(e ecs.Entity, t *component.Timer) {
		if t.Due <= s.tick {
			due = append(due, dueTimer{e: e, t: t})
		}
	})
	sort.Slice(due, func(i, j int) bool {
		if due[i].t.Due != due[j].t.Due {
			return due[i].t.Due < due[j].t.Due
		}
		return due[i].t.Seq < due[j].t.Seq
	})

	for _, d := range due {
		// an earlier callback may have cancelled this one
		if !ecs.Has(w, d.e, component.TimerComponent.Kind()) {
			continue
		}
		ecs.DestroyEntity(w, d.e)
		w.Events().Push(ecs.Event{Type: ecs.EventTimerFired, Data: d.t.Label})
		d.t.Fire()
	}
}

// TimerHandle cancels one scheduled callback.
type TimerHandle struct {
	w *ecs.World
	e ecs.Entity
}

// Cancel reports whether the timer was still pending.
func (h *TimerHandle) Cancel() bool {
	if h == nil || h.w == nil {
		return false
	}
	if !ecs.Has(h.w, h.e, component.TimerComponent.Kind()) {
		return false
	}
	return ecs.DestroyEntity(h.w, h.e)
}
