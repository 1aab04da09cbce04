package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Camera fly-in: the view starts far out and closes in on the system with
// steps that shrink as the camera nears its rest distance. The camera runs on
// its own timer, so the approach takes the same wall time at any
// simulation speed, including paused.
const (
	CameraStartDistance = 500.0
	CameraRestDistance  = 2.0

	cameraTickInterval = 16 * time.Millisecond
	cameraStepsPerTick = 4
)

// CameraTickMsg advances the fly-in.
type CameraTickMsg time.Time

// CameraStep returns how far the camera moves from distance d in one step.
func CameraStep(d float64) float64 {
	switch {
	case d < 10:
		return 0.1
	case d < 60:
		return 0.25
	case d < 80:
		return 0.6
	case d < 100:
		return 1
	case d < 200:
		return 2
	case d < 300:
		return 3
	case d < 400:
		return 4
	default:
		return 7
	}
}

// FlyInPath returns every distance the camera visits, from the start
// distance down to the last one at or above the rest distance.
func FlyInPath() []float64 {
	var path []float64
	for d := CameraStartDistance; d >= CameraRestDistance; d -= CameraStep(d) {
		path = append(path, d)
	}
	return path
}

// Camera tracks the fly-in.
type Camera struct {
	distance float64
	done     bool
}

// NewCamera returns a camera at the start of the fly-in, or already at rest
// when flyIn is false.
func NewCamera(flyIn bool) Camera {
	if !flyIn {
		return Camera{distance: CameraRestDistance, done: true}
	}
	return Camera{distance: CameraStartDistance}
}

// Advance moves the camera n steps along the path.
func (c Camera) Advance(n int) Camera {
	for i := 0; i < n && !c.done; i++ {
		next := c.distance - CameraStep(c.distance)
		if next < CameraRestDistance {
			c.distance = CameraRestDistance
			c.done = true
			break
		}
		c.distance = next
	}
	return c
}

// Distance returns the camera's current distance.
func (c Camera) Distance() float64 {
	return c.distance
}

// Done reports whether the fly-in has finished.
func (c Camera) Done() bool {
	return c.done
}

// Zoom is the apparent magnification relative to the rest position.
func (c Camera) Zoom() float64 {
	if c.done || c.distance <= 0 {
		return 1
	}
	return CameraRestDistance / c.distance
}

func cameraTickCmd() tea.Cmd {
	return tea.Tick(cameraTickInterval, func(t time.Time) tea.Msg {
		return CameraTickMsg(t)
	})
}
