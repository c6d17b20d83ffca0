package component

// Input is the per-tick player intent written by the host input system.
type Input struct {
	MoveX float64
	MoveZ float64

	GrabPressed bool
}

var InputComponent = NewComponent[Input]()
