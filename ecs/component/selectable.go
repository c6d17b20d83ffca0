package component

import "github.com/milk9111/roomtrials/common"

// Selectable is a grabbable object the player can pick as a trial choice.
// Signals carry the emitting ecs.Entity as uint64.
type Selectable struct {
	Index        int
	Interactable bool
	Held         bool

	BeginSelect *common.Signal[uint64]
	EndSelect   *common.Signal[uint64]
}

var SelectableComponent = NewComponent[Selectable]()

// Grabber lets an entity (the player) hold one selectable at a time.
type Grabber struct {
	Reach   float64
	Holding uint64
}

var GrabberComponent = NewComponent[Grabber]()
