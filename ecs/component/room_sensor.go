package component

import "github.com/milk9111/roomtrials/common"

// AABB is an axis-aligned box on the floor plane, relative to the owning
// entity's Transform.
type AABB struct {
	X     float64
	Z     float64
	Width float64
	Depth float64
}

// RoomSensor fires Entered once each time an entity tagged Tag crosses from
// outside to inside Bounds.
type RoomSensor struct {
	Room   string
	Tag    string
	Bounds AABB

	Inside  map[uint64]bool
	Entered *common.Signal[uint64]
}

var RoomSensorComponent = NewComponent[RoomSensor]()

// Room is a rectangular floor region used by hosts to draw and to teleport.
type Room struct {
	ID     string
	Bounds AABB
}

var RoomComponent = NewComponent[Room]()
