package system

import (
	"testing"

	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/trial"
)

func newPanels(t *testing.T, w *ecs.World, ids ...component.PanelID) {
	t.Helper()
	for _, id := range ids {
		e := ecs.CreateEntity(w)
		mustAdd(t, w, e, component.PanelComponent.Kind(), &component.Panel{ID: id})
		mustAdd(t, w, e, component.ActiveComponent.Kind(), &component.Active{On: true})
	}
}

func TestPanelSwitcherShowOnly(t *testing.T) {
	w := ecs.NewWorld()
	newPanels(t, w, component.PanelSelect, component.PanelGoWait, component.PanelWaiting, component.PanelFail, component.PanelSuccess)
	s := NewPanelSwitcher(w, nil)

	tests := []struct {
		name  string
		panel trial.Panel
		want  []component.PanelID
	}{
		{name: "select", panel: trial.PanelSelect, want: []component.PanelID{component.PanelSelect}},
		{name: "switch", panel: trial.PanelFail, want: []component.PanelID{component.PanelFail}},
		{name: "missing", panel: trial.Panel("nope"), want: nil},
		{name: "recover", panel: trial.PanelSuccess, want: []component.PanelID{component.PanelSuccess}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.ShowOnly(tt.panel)
			got := ActivePanels(w)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
	if got := countEvents(w, ecs.EventPanelShown); got != len(tests) {
		t.Fatalf("expected %d panel events, got %d", len(tests), got)
	}
}

func TestToggleSetActive(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	toggle := NewToggle(w, e)

	toggle.SetActive(false)
	if IsActive(w, e) {
		t.Fatalf("expected inactive")
	}
	toggle.SetActive(true)
	if !IsActive(w, e) {
		t.Fatalf("expected active")
	}

	ecs.DestroyEntity(w, e)
	toggle.SetActive(false)
	if ecs.Has(w, e, component.ActiveComponent.Kind()) {
		t.Fatalf("toggle on a destroyed entity should be a no-op")
	}

	var nilToggle *Toggle
	nilToggle.SetActive(true)
}
