package system

import (
	"testing"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add %s: %v", kind, err)
	}
}

func newBox(t *testing.T, w *ecs.World, x, z float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{X: x, Z: z}, Rotation: common.IdentityQuat})
	mustAdd(t, w, e, component.SelectableComponent.Kind(), &component.Selectable{
		Interactable: true,
		BeginSelect:  &common.Signal[uint64]{},
		EndSelect:    &common.Signal[uint64]{},
	})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{Width: 0.5, Depth: 0.5, Enabled: true})
	mustAdd(t, w, e, component.ActiveComponent.Kind(), &component.Active{On: true})
	return e
}

func newPlayer(t *testing.T, w *ecs.World, x, z float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{X: x, Z: z}, Rotation: common.IdentityQuat})
	mustAdd(t, w, e, component.TagComponent.Kind(), &component.Tag{Name: "Player"})
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.GrabberComponent.Kind(), &component.Grabber{Reach: 1.5})
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{})
	return e
}

// newDoor builds a door with a hinge at the origin and a leaf collider.
func newDoor(t *testing.T, w *ecs.World, swing float64) (door, hinge, leaf ecs.Entity) {
	t.Helper()
	hinge = ecs.CreateEntity(w)
	mustAdd(t, w, hinge, component.TransformComponent.Kind(), &component.Transform{Rotation: common.IdentityQuat})
	leaf = ecs.CreateEntity(w)
	mustAdd(t, w, leaf, component.ColliderComponent.Kind(), &component.Collider{Width: 2, Depth: 0.2, Enabled: true})
	door = ecs.CreateEntity(w)
	mustAdd(t, w, door, component.DoorComponent.Kind(), &component.Door{
		Role:       component.DoorStartToWaiting,
		Hinge:      uint64(hinge),
		Leaf:       uint64(leaf),
		Width:      2,
		SwingAngle: swing,
		Speed:      2,
	})
	return door, hinge, leaf
}

func countEvents(w *ecs.World, typ string) int {
	n := 0
	for _, ev := range w.Events().Drain() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func approx(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}
