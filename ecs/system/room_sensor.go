package system

import (
	"log/slog"

	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/logging"
)

// RoomSensorSystem fires each sensor's Entered signal once per
// outside-to-inside crossing of a matching tagged entity.
type RoomSensorSystem struct {
	log *slog.Logger
}

func NewRoomSensorSystem(logger *slog.Logger) *RoomSensorSystem {
	return &RoomSensorSystem{log: logging.OrDiscard(logger)}
}

// RoomEntered is the payload of ecs.EventRoomEntered.
type RoomEntered struct {
	Room   string
	Entity ecs.Entity
}

func (s *RoomSensorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	tagged := ecs.Query(w, component.TagComponent.Kind().ID(), component.TransformComponent.Kind().ID())

	ecs.ForEach(w, component.RoomSensorComponent.Kind(), func(e ecs.Entity, sensor *component.RoomSensor) {
		if sensor.Inside == nil {
			sensor.Inside = make(map[uint64]bool)
		}
		bounds := sensorBounds(w, e, sensor.Bounds)

		seen := make(map[uint64]bool, len(tagged))
		for _, other := range tagged {
			tag, _ := ecs.Get(w, other, component.TagComponent.Kind())
			if tag.Name != sensor.Tag {
				continue
			}
			id := uint64(other)
			seen[id] = true
			if !footprint(w, other).overlaps(bounds) {
				delete(sensor.Inside, id)
				continue
			}
			if sensor.Inside[id] {
				continue
			}
			sensor.Inside[id] = true
			s.log.Debug("room entered", "room", sensor.Room, "entity", other)
			w.Events().Push(ecs.Event{Type: ecs.EventRoomEntered, Data: RoomEntered{Room: sensor.Room, Entity: other}})
			sensor.Entered.Emit(id)
		}
		for id := range sensor.Inside {
			if !seen[id] {
				delete(sensor.Inside, id)
			}
		}
	})
}

type rect struct {
	minX, minZ, maxX, maxZ float64
}

func (a rect) overlaps(b rect) bool {
	return a.minX < b.maxX && a.maxX > b.minX && a.minZ < b.maxZ && a.maxZ > b.minZ
}

func sensorBounds(w *ecs.World, e ecs.Entity, b component.AABB) rect {
	pos, _, _ := WorldPose(w, e)
	x := pos.X + b.X
	z := pos.Z + b.Z
	return rect{minX: x, minZ: z, maxX: x + b.Width, maxZ: z + b.Depth}
}

// footprint is the entity's collider rectangle, or a small square around its
// position when it has none.
func footprint(w *ecs.World, e ecs.Entity) rect {
	pos, _, _ := WorldPose(w, e)
	hw, hd := 0.05, 0.05
	if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok && col.Width > 0 && col.Depth > 0 {
		hw, hd = col.Width/2, col.Depth/2
	}
	return rect{minX: pos.X - hw, minZ: pos.Z - hd, maxX: pos.X + hw, maxZ: pos.Z + hd}
}

// SensorHandle exposes one RoomSensor entity's Entered signal.
type SensorHandle struct {
	w *ecs.World
	e ecs.Entity
}

func NewSensorHandle(w *ecs.World, e ecs.Entity) *SensorHandle {
	return &SensorHandle{w: w, e: e}
}

func (h *SensorHandle) OnEnter(fn func()) func() {
	sensor, ok := ecs.Get(h.w, h.e, component.RoomSensorComponent.Kind())
	if !ok || sensor.Entered == nil {
		return func() {}
	}
	sig := sensor.Entered
	id := sig.Subscribe(func(uint64) { fn() })
	return func() { sig.Unsubscribe(id) }
}
