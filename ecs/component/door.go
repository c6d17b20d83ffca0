package component

import "github.com/milk9111/roomtrials/common"

// DoorRole names the connection a door guards.
type DoorRole string

const (
	DoorStartToWaiting  DoorRole = "start_to_waiting"
	DoorWaitingToReveal DoorRole = "waiting_to_reveal"
	DoorRevealToStart   DoorRole = "reveal_to_start"
)

// Door holds the open/closed targets for one hinge. Hinge is the ecs.Entity
// whose Transform rotates; zero means the door was authored without one.
// Leaf, when set, carries the collider that blocks the doorway.
type Door struct {
	Role       DoorRole
	Hinge      uint64
	Leaf       uint64
	Width      float64
	SwingAngle float64 // degrees about the vertical axis
	Speed      float64 // slerp rate per second

	Initialized bool
	Warned      bool
	Closed      common.Quat
	Open        common.Quat
	IsOpen      bool
}

var DoorComponent = NewComponent[Door]()

// Target is the pose the hinge is easing toward.
func (d *Door) Target() common.Quat {
	if d.IsOpen {
		return d.Open
	}
	return d.Closed
}
