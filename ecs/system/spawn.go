package system

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/trial"
)

// SpawnRegistry captures each selectable's initial placement once and puts it
// back on every trial reset.
type SpawnRegistry struct {
	w        *ecs.World
	log      *slog.Logger
	entities []ecs.Entity
	captured bool
}

func NewSpawnRegistry(w *ecs.World, logger *slog.Logger) *SpawnRegistry {
	return &SpawnRegistry{w: w, log: logging.OrDiscard(logger)}
}

// CaptureAll records world pose, parent and body for each id, in order.
// Later calls are ignored.
func (r *SpawnRegistry) CaptureAll(ids []trial.ObjectID) {
	if r.captured {
		r.log.Warn("spawn points already captured")
		return
	}
	r.captured = true

	for _, id := range ids {
		e := ecs.Entity(id)
		t, ok := ecs.Get(r.w, e, component.TransformComponent.Kind())
		if !ok {
			r.log.Warn("selectable has no transform; not captured", "entity", e)
			continue
		}
		pos, rot, _ := WorldPose(r.w, e)
		sp := &component.SpawnPoint{Position: pos, Rotation: rot, Parent: t.Parent}
		if body, ok := ecs.Get(r.w, e, component.PhysicsBodyComponent.Kind()); ok {
			sp.Body = body.Body
		}
		_ = ecs.Add(r.w, e, component.SpawnPointComponent.Kind(), sp)
		r.entities = append(r.entities, e)
	}
	r.log.Debug("spawn points captured", "count", len(r.entities))
}

// RestoreAll returns every captured object to its spawn point at rest,
// active and interactable.
func (r *SpawnRegistry) RestoreAll() {
	for _, e := range r.entities {
		sp, ok := ecs.Get(r.w, e, component.SpawnPointComponent.Kind())
		if !ok {
			continue
		}

		releaseFromGrabbers(r.w, e)
		Reparent(r.w, e, sp.Parent)
		SetWorldPose(r.w, e, sp.Position, sp.Rotation)

		body := sp.Body
		if pb, ok := ecs.Get(r.w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
			body = pb.Body
		}
		if body != nil {
			body.SetPosition(cp.Vector{X: sp.Position.X, Y: sp.Position.Z})
			body.SetAngle(yawToAngle(sp.Rotation.Yaw()))
			body.SetVelocityVector(cp.Vector{})
			body.SetAngularVelocity(0)
			body.SetForce(cp.Vector{})
			body.SetTorque(0)
		}

		setActive(r.w, e, true)
		if sel, ok := ecs.Get(r.w, e, component.SelectableComponent.Kind()); ok {
			sel.Interactable = true
			sel.Held = false
		}
		if col, ok := ecs.Get(r.w, e, component.ColliderComponent.Kind()); ok {
			col.Enabled = true
		}
	}
	logging.Trace(r.log, "spawn points restored", "count", len(r.entities))
}

// Captured returns the captured entities in capture order.
func (r *SpawnRegistry) Captured() []ecs.Entity {
	return append([]ecs.Entity(nil), r.entities...)
}

func releaseFromGrabbers(w *ecs.World, e ecs.Entity) {
	ecs.ForEach(w, component.GrabberComponent.Kind(), func(_ ecs.Entity, g *component.Grabber) {
		if g.Holding == uint64(e) {
			g.Holding = 0
		}
	})
}

func setActive(w *ecs.World, e ecs.Entity, on bool) {
	if a, ok := ecs.Get(w, e, component.ActiveComponent.Kind()); ok {
		a.On = on
		return
	}
	_ = ecs.Add(w, e, component.ActiveComponent.Kind(), &component.Active{On: on})
}

// IsActive treats entities without an Active component as active.
func IsActive(w *ecs.World, e ecs.Entity) bool {
	a, ok := ecs.Get(w, e, component.ActiveComponent.Kind())
	return !ok || a.On
}
