package system

import (
	"log/slog"
	"math"

	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
)

const defaultReach = 1.5

// GrabSystem turns the player's grab input into begin/end select signals on
// the nearest interactable selectable. A held object that stops being
// interactable is dropped without an end-select.
type GrabSystem struct {
	log *slog.Logger
}

func NewGrabSystem(logger *slog.Logger) *GrabSystem {
	return &GrabSystem{log: logging.OrDiscard(logger)}
}

func (s *GrabSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.GrabberComponent.Kind(), func(player ecs.Entity, g *component.Grabber) {
		if g.Holding != 0 {
			held := ecs.Entity(g.Holding)
			sel, ok := ecs.Get(w, held, component.SelectableComponent.Kind())
			if !ok || !sel.Interactable || !IsActive(w, held) {
				s.drop(w, g, held)
			}
		}

		in, ok := ecs.Get(w, player, component.InputComponent.Kind())
		if !ok || !in.GrabPressed {
			return
		}
		if g.Holding != 0 {
			Release(w, player)
			return
		}
		if target, ok := Nearest(w, player, g.Reach); ok {
			Grab(w, player, target)
		}
	})
}

func (s *GrabSystem) drop(w *ecs.World, g *component.Grabber, held ecs.Entity) {
	g.Holding = 0
	if sel, ok := ecs.Get(w, held, component.SelectableComponent.Kind()); ok {
		sel.Held = false
	}
	Reparent(w, held, 0)
	logging.Trace(s.log, "held object dropped", "entity", held)
}

// Nearest returns the closest interactable selectable within reach of player.
func Nearest(w *ecs.World, player ecs.Entity, reach float64) (ecs.Entity, bool) {
	if reach <= 0 {
		reach = defaultReach
	}
	ppos, _, ok := WorldPose(w, player)
	if !ok {
		return 0, false
	}
	best := ecs.Entity(0)
	bestDist := math.Inf(1)
	ecs.ForEach(w, component.SelectableComponent.Kind(), func(e ecs.Entity, sel *component.Selectable) {
		if !sel.Interactable || sel.Held || !IsActive(w, e) {
			return
		}
		pos, _, ok := WorldPose(w, e)
		if !ok {
			return
		}
		d := math.Hypot(pos.X-ppos.X, pos.Z-ppos.Z)
		if d <= reach && d < bestDist {
			best, bestDist = e, d
		}
	})
	return best, best != 0
}

// Grab attaches target to player and emits its begin-select. It fails when
// the player already holds something or target is not interactable.
func Grab(w *ecs.World, player, target ecs.Entity) bool {
	g, ok := ecs.Get(w, player, component.GrabberComponent.Kind())
	if !ok || g.Holding != 0 {
		return false
	}
	sel, ok := ecs.Get(w, target, component.SelectableComponent.Kind())
	if !ok || !sel.Interactable || sel.Held || !IsActive(w, target) {
		return false
	}
	sel.Held = true
	g.Holding = uint64(target)
	Reparent(w, target, uint64(player))
	w.Events().Push(ecs.Event{Type: ecs.EventSelectBegin, Data: target})
	sel.BeginSelect.Emit(uint64(target))
	return true
}

// Release detaches whatever player holds and emits its end-select.
func Release(w *ecs.World, player ecs.Entity) bool {
	g, ok := ecs.Get(w, player, component.GrabberComponent.Kind())
	if !ok || g.Holding == 0 {
		return false
	}
	held := ecs.Entity(g.Holding)
	g.Holding = 0
	Reparent(w, held, 0)
	sel, ok := ecs.Get(w, held, component.SelectableComponent.Kind())
	if !ok {
		return true
	}
	sel.Held = false
	w.Events().Push(ecs.Event{Type: ecs.EventSelectEnd, Data: held})
	sel.EndSelect.Emit(uint64(held))
	return true
}
