package carousel

import "fmt"

// Phase is the position of the controller in the transition state machine:
//
//	          page change           exit delay           (same callback)
//	Idle ───────────────► ExitAnimating ──────────► Swapping ──────────► EnterAnimating
//	 ▲                                                                         │
//	 └──────────────────────────────── enter duration ─────────────────────────┘
//
// The controller is transitioning whenever the phase is not Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExitAnimating
	PhaseSwapping
	PhaseEnterAnimating
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExitAnimating:
		return "exit_animating"
	case PhaseSwapping:
		return "swapping"
	case PhaseEnterAnimating:
		return "enter_animating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
