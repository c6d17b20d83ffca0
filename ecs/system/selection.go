package system

import (
	"log/slog"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/trial"
)

// SelectionGate enables or disables a fixed set of selectables as a unit.
type SelectionGate struct {
	w        *ecs.World
	log      *slog.Logger
	entities []ecs.Entity
}

func NewSelectionGate(w *ecs.World, entities []ecs.Entity, logger *slog.Logger) *SelectionGate {
	return &SelectionGate{w: w, entities: append([]ecs.Entity(nil), entities...), log: logging.OrDiscard(logger)}
}

// SetEnabled toggles interactivity and collision. Disabling never emits an
// end-select; a held object is dropped by the grab system without one.
func (g *SelectionGate) SetEnabled(enabled bool) {
	for _, e := range g.entities {
		if sel, ok := ecs.Get(g.w, e, component.SelectableComponent.Kind()); ok {
			sel.Interactable = enabled
		}
		if col, ok := ecs.Get(g.w, e, component.ColliderComponent.Kind()); ok {
			col.Enabled = enabled
		}
	}
	logging.Trace(g.log, "selection gate", "enabled", enabled, "count", len(g.entities))
}

// IndexOf returns the managed index of id. Unknown ids resolve to 0.
func (g *SelectionGate) IndexOf(id trial.ObjectID) int {
	for i, e := range g.entities {
		if e == ecs.Entity(id) {
			return i
		}
	}
	g.log.Warn("unknown selectable; using index 0", "entity", uint64(id))
	return 0
}

// Handles wraps each managed entity as a trial.Selectable.
func (g *SelectionGate) Handles() []trial.Selectable {
	out := make([]trial.Selectable, 0, len(g.entities))
	for _, e := range g.entities {
		out = append(out, NewSelectableHandle(g.w, e))
	}
	return out
}

// SelectableHandle exposes one Selectable entity's signals.
type SelectableHandle struct {
	w *ecs.World
	e ecs.Entity
}

func NewSelectableHandle(w *ecs.World, e ecs.Entity) *SelectableHandle {
	return &SelectableHandle{w: w, e: e}
}

func (h *SelectableHandle) ID() trial.ObjectID { return trial.ObjectID(h.e) }

func (h *SelectableHandle) OnBeginSelect(fn func(trial.ObjectID)) func() {
	return h.subscribe(func(s *component.Selectable) *common.Signal[uint64] { return s.BeginSelect }, fn)
}

func (h *SelectableHandle) OnEndSelect(fn func(trial.ObjectID)) func() {
	return h.subscribe(func(s *component.Selectable) *common.Signal[uint64] { return s.EndSelect }, fn)
}

func (h *SelectableHandle) subscribe(pick func(*component.Selectable) *common.Signal[uint64], fn func(trial.ObjectID)) func() {
	sel, ok := ecs.Get(h.w, h.e, component.SelectableComponent.Kind())
	if !ok {
		return func() {}
	}
	sig := pick(sel)
	if sig == nil {
		return func() {}
	}
	id := sig.Subscribe(func(v uint64) { fn(trial.ObjectID(v)) })
	return func() { sig.Unsubscribe(id) }
}

// IsGrabbed reports whether e is currently held.
func IsGrabbed(w *ecs.World, e ecs.Entity) bool {
	sel, ok := ecs.Get(w, e, component.SelectableComponent.Kind())
	return ok && sel.Held
}
