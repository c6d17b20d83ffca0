package system

import (
	"testing"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

func hingeRotation(t *testing.T, w *ecs.World, hinge ecs.Entity) common.Quat {
	t.Helper()
	tr, ok := ecs.Get(w, hinge, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("hinge has no transform")
	}
	return tr.Rotation
}

func leafEnabled(w *ecs.World, leaf ecs.Entity) bool {
	col, _ := ecs.Get(w, leaf, component.ColliderComponent.Kind())
	return col != nil && col.Enabled
}

func TestDoorEasesOpenAndClosed(t *testing.T) {
	w := ecs.NewWorld()
	door, hinge, leaf := newDoor(t, w, 90)
	sys := NewDoorSystem(nil)
	h := NewDoorHandle(w, door, nil)

	sys.Update(w)
	if a := hingeRotation(t, w, hinge).Angle(common.IdentityQuat); a > 1e-6 {
		t.Fatalf("closed door should not move, angle %v", a)
	}

	h.Open()
	sys.Update(w)
	partial := hingeRotation(t, w, hinge).Angle(common.IdentityQuat)
	if partial <= 0 || partial >= 90 {
		t.Fatalf("expected a partial swing after one tick, got %v", partial)
	}

	for i := 0; i < 600; i++ {
		sys.Update(w)
	}
	if a := hingeRotation(t, w, hinge).Angle(common.QuatFromYaw(90)); a > 0.5 {
		t.Fatalf("expected hinge near open, off by %v degrees", a)
	}
	if leafEnabled(w, leaf) {
		t.Fatalf("open door should not block")
	}

	h.Close()
	for i := 0; i < 600; i++ {
		sys.Update(w)
	}
	if a := hingeRotation(t, w, hinge).Angle(common.IdentityQuat); a > 0.5 {
		t.Fatalf("expected hinge near closed, off by %v degrees", a)
	}
	if !leafEnabled(w, leaf) {
		t.Fatalf("closed door should block")
	}
}

func TestDoorSetImmediateSnaps(t *testing.T) {
	tests := []struct {
		name   string
		open   bool
		target common.Quat
	}{
		{name: "open", open: true, target: common.QuatFromYaw(-90)},
		{name: "closed", open: false, target: common.IdentityQuat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			door, hinge, leaf := newDoor(t, w, -90)
			h := NewDoorHandle(w, door, nil)

			h.SetImmediate(tt.open)
			if a := hingeRotation(t, w, hinge).Angle(tt.target); a > 1e-6 {
				t.Fatalf("expected exact pose, off by %v", a)
			}
			if h.IsOpen() != tt.open {
				t.Fatalf("expected IsOpen %v", tt.open)
			}
			if leafEnabled(w, leaf) == tt.open {
				t.Fatalf("leaf collider enabled=%v for open=%v", leafEnabled(w, leaf), tt.open)
			}

			NewDoorSystem(nil).Update(w)
			if a := hingeRotation(t, w, hinge).Angle(tt.target); a > 1e-6 {
				t.Fatalf("update moved a settled door by %v", a)
			}
		})
	}
}

func TestDoorCommandEventOnChangeOnly(t *testing.T) {
	w := ecs.NewWorld()
	door, _, _ := newDoor(t, w, 90)
	h := NewDoorHandle(w, door, nil)

	h.Open()
	h.Open()
	h.Close()
	h.Close()
	if got := countEvents(w, ecs.EventDoorCommand); got != 2 {
		t.Fatalf("expected 2 door commands, got %d", got)
	}
}

func TestDoorWithoutHingeIsInert(t *testing.T) {
	w := ecs.NewWorld()
	door := ecs.CreateEntity(w)
	mustAdd(t, w, door, component.DoorComponent.Kind(), &component.Door{Role: component.DoorRevealToStart, SwingAngle: 90})

	h := NewDoorHandle(w, door, nil)
	h.Open()
	h.SetImmediate(false)
	NewDoorSystem(nil).Update(w)
	NewDoorSystem(nil).Update(w)

	d, _ := ecs.Get(w, door, component.DoorComponent.Kind())
	if !d.Warned {
		t.Fatalf("expected the missing hinge to be reported")
	}
	if d.Initialized {
		t.Fatalf("door without hinge should never initialize")
	}
}

func TestDoorHandleOnMissingEntity(t *testing.T) {
	w := ecs.NewWorld()
	h := NewDoorHandle(w, ecs.Entity(99), nil)
	h.Open()
	h.SetImmediate(true)
	if h.IsOpen() {
		t.Fatalf("missing door cannot be open")
	}
}
