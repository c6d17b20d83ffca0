package trial

import "fmt"

// Phase is the discrete state of the trial flow.
type Phase int

const (
	PhaseStartSelect Phase = iota
	PhaseGoWaiting
	PhaseWaiting
	PhaseWaitingDone
	PhaseReveal
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseStartSelect:
		return "StartSelect"
	case PhaseGoWaiting:
		return "GoWaiting"
	case PhaseWaiting:
		return "Waiting"
	case PhaseWaitingDone:
		return "WaitingDone"
	case PhaseReveal:
		return "Reveal"
	case PhaseComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is an external stimulus delivered to the controller.
type Event int

const (
	EventSelect Event = iota
	EventRelease
	EventEnteredWaiting
	EventWaitElapsed
	EventEnteredReveal
	EventEnteredStart
)

func (e Event) String() string {
	switch e {
	case EventSelect:
		return "select"
	case EventRelease:
		return "release"
	case EventEnteredWaiting:
		return "entered_waiting"
	case EventWaitElapsed:
		return "wait_elapsed"
	case EventEnteredReveal:
		return "entered_reveal"
	case EventEnteredStart:
		return "entered_start"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Outcome is the result shown to the player for one trial (rooms variant) or
// one grab (grab-counter variant).
type Outcome struct {
	Trial   int
	Choice  int
	Success bool
	// Forced marks the counter-overrun fallback.
	Forced bool
}
