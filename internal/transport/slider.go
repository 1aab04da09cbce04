package transport

import (
	"fmt"
	"math"
)

// Slider is the continuous speed input. It clamps to its own range and
// snaps to its step; the controller takes whatever the slider produces.
type Slider struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultSlider returns the [-5, 5] slider with 0.1 steps.
func DefaultSlider() Slider {
	return Slider{Min: -5, Max: 5, Step: 0.1}
}

// Clamp limits v to the slider range and snaps it to the step grid.
func (s Slider) Clamp(v float64) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
		// Round away float noise such as 0.30000000000000004.
		v = math.Round(v*1e9) / 1e9
	}
	return v
}

// Nudge moves the controller's speed by n steps and returns the new value.
func (s Slider) Nudge(c *Controller, n int) float64 {
	v := s.Clamp(c.Speed() + float64(n)*s.Step)
	c.SetSpeed(v)
	return v
}

// Input sets the controller's speed from a raw slider position.
func (s Slider) Input(c *Controller, v float64) float64 {
	v = s.Clamp(v)
	c.SetSpeed(v)
	return v
}

// FormatSpeed renders a speed the way the transport bar shows it.
func FormatSpeed(v float64) string {
	return fmt.Sprintf("%.1fx", v)
}
