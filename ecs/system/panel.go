package system

import (
	"log/slog"

	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/trial"
)

// PanelSwitcher keeps at most one Panel entity active.
type PanelSwitcher struct {
	w      *ecs.World
	log    *slog.Logger
	warned map[component.PanelID]bool
}

func NewPanelSwitcher(w *ecs.World, logger *slog.Logger) *PanelSwitcher {
	return &PanelSwitcher{w: w, log: logging.OrDiscard(logger), warned: make(map[component.PanelID]bool)}
}

// ShowOnly hides every panel and then shows the one named p. A missing panel
// leaves all hidden and is reported once.
func (s *PanelSwitcher) ShowOnly(p trial.Panel) {
	id := component.PanelID(p)
	found := false
	ecs.ForEach(s.w, component.PanelComponent.Kind(), func(e ecs.Entity, _ *component.Panel) {
		setActive(s.w, e, false)
	})
	ecs.ForEach(s.w, component.PanelComponent.Kind(), func(e ecs.Entity, panel *component.Panel) {
		if found || panel.ID != id {
			return
		}
		setActive(s.w, e, true)
		found = true
	})
	if !found && !s.warned[id] {
		s.warned[id] = true
		s.log.Warn("panel not found", "panel", id)
	}
	s.w.Events().Push(ecs.Event{Type: ecs.EventPanelShown, Data: id})
}

// ActivePanels returns the ids of every visible panel.
func ActivePanels(w *ecs.World) []component.PanelID {
	var out []component.PanelID
	ecs.ForEach(w, component.PanelComponent.Kind(), func(e ecs.Entity, panel *component.Panel) {
		if a, ok := ecs.Get(w, e, component.ActiveComponent.Kind()); ok && a.On {
			out = append(out, panel.ID)
		}
	})
	return out
}

// Toggle switches one entity's Active flag. It satisfies trial.Toggle.
type Toggle struct {
	w *ecs.World
	e ecs.Entity
}

func NewToggle(w *ecs.World, e ecs.Entity) *Toggle {
	return &Toggle{w: w, e: e}
}

func (t *Toggle) SetActive(on bool) {
	if t == nil || !ecs.IsAlive(t.w, t.e) {
		return
	}
	setActive(t.w, t.e, on)
}
