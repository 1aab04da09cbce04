// Package transport owns the orrery's play/pause/speed state.
package transport

import "fmt"

// Action is a named transport trigger.
type Action string

const (
	ActionReverseFast Action = "reverse-fast"
	ActionReverse     Action = "reverse"
	ActionTogglePause Action = "toggle-pause"
	ActionForward     Action = "forward"
	ActionForwardFast Action = "forward-fast"
)

// Fixed speeds set by the named actions.
const (
	DefaultSpeed     = 0.1
	ReverseFastSpeed = -5.0
	ReverseSpeed     = -2.0
	ForwardSpeed     = 2.0
	ForwardFastSpeed = 5.0
)

// Actions lists the named actions in transport-bar order.
var Actions = []Action{
	ActionReverseFast,
	ActionReverse,
	ActionTogglePause,
	ActionForward,
	ActionForwardFast,
}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown transport action %q", s)
}

// Controller holds the signed speed multiplier. Zero means paused; the sign
// gives direction. There is no separate paused flag.
type Controller struct {
	speed float64
}

// New creates a controller at DefaultSpeed.
func New() *Controller {
	return &Controller{speed: DefaultSpeed}
}

// Speed returns the current multiplier.
func (c *Controller) Speed() float64 {
	return c.speed
}

// Paused reports whether the multiplier is exactly zero.
func (c *Controller) Paused() bool {
	return c.speed == 0
}

// Apply runs a named action and returns the resulting speed.
//
// toggle-pause resumes at DefaultSpeed, not at the speed in effect before
// the pause. Every other action sets its fixed value regardless of state.
func (c *Controller) Apply(a Action) float64 {
	switch a {
	case ActionReverseFast:
		c.speed = ReverseFastSpeed
	case ActionReverse:
		c.speed = ReverseSpeed
	case ActionTogglePause:
		if c.speed == 0 {
			c.speed = DefaultSpeed
		} else {
			c.speed = 0
		}
	case ActionForward:
		c.speed = ForwardSpeed
	case ActionForwardFast:
		c.speed = ForwardFastSpeed
	}
	return c.speed
}

// SetSpeed sets the multiplier directly from continuous input. The value is
// not clamped here; the input control owns its range.
func (c *Controller) SetSpeed(v float64) {
	c.speed = v
}
