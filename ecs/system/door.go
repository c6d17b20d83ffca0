package system

import (
	"log/slog"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
)

const (
	defaultDoorSpeed = 2.0
	// A hinge within this many degrees of its closed pose blocks the doorway.
	doorBlockingAngle = 10.0
)

// DoorSystem eases every hinge toward its door's current target.
type DoorSystem struct {
	log *slog.Logger
}

func NewDoorSystem(logger *slog.Logger) *DoorSystem {
	return &DoorSystem{log: logging.OrDiscard(logger)}
}

func (s *DoorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.DoorComponent.Kind(), func(e ecs.Entity, door *component.Door) {
		hinge, ok := initDoor(w, door, s.log)
		if !ok {
			return
		}

		speed := door.Speed
		if speed <= 0 {
			speed = defaultDoorSpeed
		}
		hinge.Rotation = common.Slerp(rotationOrIdentity(hinge.Rotation), door.Target(), common.TickDelta*speed)
		syncDoorCollider(w, door, hinge)
	})
}

// initDoor captures the closed pose from the hinge's authored rotation the
// first time the door is touched. It returns false for a door without hinge.
func initDoor(w *ecs.World, door *component.Door, log *slog.Logger) (*component.Transform, bool) {
	var hinge *component.Transform
	if door.Hinge != 0 {
		hinge, _ = ecs.Get(w, ecs.Entity(door.Hinge), component.TransformComponent.Kind())
	}
	if hinge == nil {
		if !door.Warned {
			door.Warned = true
			logging.OrDiscard(log).Warn("door has no hinge", "role", door.Role)
		}
		return nil, false
	}
	if !door.Initialized {
		door.Closed = rotationOrIdentity(hinge.Rotation)
		door.Open = door.Closed.Mul(common.QuatFromYaw(door.SwingAngle))
		door.Initialized = true
	}
	return hinge, true
}

func syncDoorCollider(w *ecs.World, door *component.Door, hinge *component.Transform) {
	leaf := door.Leaf
	if leaf == 0 {
		leaf = door.Hinge
	}
	col, ok := ecs.Get(w, ecs.Entity(leaf), component.ColliderComponent.Kind())
	if !ok {
		return
	}
	col.Enabled = hinge.Rotation.Angle(door.Closed) < doorBlockingAngle
}

// DoorHandle drives one door entity. It satisfies trial.Door.
type DoorHandle struct {
	w   *ecs.World
	e   ecs.Entity
	log *slog.Logger
}

func NewDoorHandle(w *ecs.World, e ecs.Entity, logger *slog.Logger) *DoorHandle {
	return &DoorHandle{w: w, e: e, log: logging.OrDiscard(logger)}
}

func (h *DoorHandle) door() *component.Door {
	d, _ := ecs.Get(h.w, h.e, component.DoorComponent.Kind())
	return d
}

func (h *DoorHandle) Open() { h.setTarget(true) }

func (h *DoorHandle) Close() { h.setTarget(false) }

func (h *DoorHandle) setTarget(open bool) {
	d := h.door()
	if d == nil {
		return
	}
	if d.IsOpen != open {
		h.log.Debug("door target", "role", d.Role, "open", open)
		h.w.Events().Push(ecs.Event{Type: ecs.EventDoorCommand, Data: DoorCommand{Role: d.Role, Open: open}})
	}
	d.IsOpen = open
}

// SetImmediate sets the target and snaps the hinge to it.
func (h *DoorHandle) SetImmediate(open bool) {
	d := h.door()
	if d == nil {
		return
	}
	d.IsOpen = open
	hinge, ok := initDoor(h.w, d, h.log)
	if !ok {
		return
	}
	hinge.Rotation = d.Target()
	syncDoorCollider(h.w, d, hinge)
}

// IsOpen reports the current target.
func (h *DoorHandle) IsOpen() bool {
	d := h.door()
	return d != nil && d.IsOpen
}

// DoorCommand is the payload of ecs.EventDoorCommand.
type DoorCommand struct {
	Role component.DoorRole
	Open bool
}
