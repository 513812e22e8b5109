package carousel

import "math"

// Action is a paging intent decoded from user input.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	default:
		return "none"
	}
}

// KeyAction maps a keyboard key name to an action.
func KeyAction(key string) Action {
	switch key {
	case "ArrowLeft", "Left":
		return ActionPrevious
	case "ArrowRight", "Right", " ", "Space", "Spacebar":
		return ActionNext
	default:
		return ActionNone
	}
}

// SwipeAction maps a horizontal swipe to an action. Swiping left (start to
// the right of end) pages forward. Swipes no longer than threshold are ignored.
func SwipeAction(startX, endX, threshold float64) Action {
	diff := startX - endX
	if math.Abs(diff) <= threshold {
		return ActionNone
	}
	if diff > 0 {
		return ActionNext
	}
	return ActionPrevious
}

// Apply performs the paging operation for a. It reports whether a page
// change started.
func (c *Controller) Apply(a Action) bool {
	switch a {
	case ActionNext:
		return c.NextPage()
	case ActionPrevious:
		return c.PreviousPage()
	default:
		return false
	}
}
