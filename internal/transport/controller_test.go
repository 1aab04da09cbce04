package transport

import (
	"testing"
)

func TestNewStartsAtDefault(t *testing.T) {
	c := New()
	if c.Speed() != 0.1 {
		t.Errorf("Speed() = %v, want 0.1", c.Speed())
	}
	if c.Paused() {
		t.Error("new controller should be running")
	}
}

func TestApplyFixedValues(t *testing.T) {
	tests := []struct {
		action Action
		want   float64
	}{
		{ActionReverseFast, -5},
		{ActionReverse, -2},
		{ActionForward, 2},
		{ActionForwardFast, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			for _, start := range []float64{0, 0.1, -3, 4.2} {
				c := New()
				c.SetSpeed(start)
				if got := c.Apply(tt.action); got != tt.want {
					t.Errorf("from %v: Apply = %v, want %v", start, got, tt.want)
				}
				// Repeating is idempotent.
				if got := c.Apply(tt.action); got != tt.want {
					t.Errorf("from %v: second Apply = %v, want %v", start, got, tt.want)
				}
			}
		})
	}
}

func TestActionSequence(t *testing.T) {
	c := New()
	seq := []Action{ActionForwardFast, ActionReverse, ActionTogglePause, ActionTogglePause}
	want := []float64{5, -2, 0, 0.1}

	for i, a := range seq {
		if got := c.Apply(a); got != want[i] {
			t.Errorf("step %d (%s): speed = %v, want %v", i, a, got, want[i])
		}
	}
}

// Resuming after a pause restores the default 0.1 rather than the speed in
// effect before the pause. This is the intended transport behavior.
func TestTogglePauseDoesNotRestorePreviousSpeed(t *testing.T) {
	c := New()
	c.SetSpeed(3)

	if got := c.Apply(ActionTogglePause); got != 0 {
		t.Fatalf("first toggle = %v, want 0", got)
	}
	if !c.Paused() {
		t.Error("should be paused after first toggle")
	}
	if got := c.Apply(ActionTogglePause); got != 0.1 {
		t.Errorf("second toggle = %v, want 0.1 (not 3)", got)
	}
	if c.Paused() {
		t.Error("should be running after second toggle")
	}
}

func TestTogglePauseFromNegative(t *testing.T) {
	c := New()
	c.Apply(ActionReverseFast)
	c.Apply(ActionTogglePause)
	if got := c.Apply(ActionTogglePause); got != DefaultSpeed {
		t.Errorf("resume after reverse = %v, want %v", got, DefaultSpeed)
	}
}

func TestSetSpeedDoesNotClamp(t *testing.T) {
	c := New()
	c.SetSpeed(42)
	if c.Speed() != 42 {
		t.Errorf("Speed() = %v, want 42", c.Speed())
	}
	c.SetSpeed(0)
	if !c.Paused() {
		t.Error("slider at 0 should pause")
	}
}

func TestUnknownActionLeavesSpeed(t *testing.T) {
	c := New()
	c.SetSpeed(1.5)
	if got := c.Apply(Action("warp")); got != 1.5 {
		t.Errorf("Apply(warp) = %v, want 1.5", got)
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(string(a))
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := ParseAction("rewind"); err == nil {
		t.Error("ParseAction(rewind) should fail")
	}
}

func TestSliderClamp(t *testing.T) {
	s := DefaultSlider()
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.3, 0.3},
		{0.34, 0.3},
		{7, 5},
		{-9, -5},
		{-1.26, -1.3},
	}
	for _, tt := range tests {
		if got := s.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSliderNudge(t *testing.T) {
	s := DefaultSlider()
	c := New()

	if got := s.Nudge(c, 1); got != 0.2 {
		t.Errorf("Nudge(+1) = %v, want 0.2", got)
	}
	if got := s.Nudge(c, -3); got != -0.1 {
		t.Errorf("Nudge(-3) = %v, want -0.1", got)
	}

	c.Apply(ActionForwardFast)
	if got := s.Nudge(c, 1); got != 5 {
		t.Errorf("Nudge past max = %v, want 5", got)
	}
}

func TestSliderInput(t *testing.T) {
	s := DefaultSlider()
	c := New()
	if got := s.Input(c, -2.5); got != -2.5 || c.Speed() != -2.5 {
		t.Errorf("Input(-2.5) = %v, speed %v", got, c.Speed())
	}
}

func TestFormatSpeed(t *testing.T) {
	tests := map[float64]string{
		0.1: "0.1x",
		-5:  "-5.0x",
		0:   "0.0x",
		2:   "2.0x",
	}
	for v, want := range tests {
		if got := FormatSpeed(v); got != want {
			t.Errorf("FormatSpeed(%v) = %q, want %q", v, got, want)
		}
	}
}
