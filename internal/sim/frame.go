package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/transport"
)

// BodyState is one body's render state for a frame.
type BodyState struct {
	Handle   int     `json:"handle"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Size     float64 `json:"size"`
	Radius   float64 `json:"radius_au"`
	AngleDeg float64 `json:"angle_deg"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Tick        uint64      `json:"tick"`
	Speed       float64     `json:"speed"`
	Paused      bool        `json:"paused"`
	SunRotation float64     `json:"sun_rotation"`
	Bodies      []BodyState `json:"bodies"`
}

// Frame returns the current state of every body in registration order.
func (s *Simulation) Frame() Frame {
	f := Frame{
		Tick:        s.integrator.Ticks(),
		Speed:       s.transport.Speed(),
		Paused:      s.transport.Paused(),
		SunRotation: s.integrator.SunRotation(),
		Bodies:      make([]BodyState, 0, s.registry.Len()),
	}
	s.registry.ForEach(func(h orbit.Handle, b orbit.Body) {
		f.Bodies = append(f.Bodies, bodyState(h, b))
	})
	return f
}

// PlanetFrame is Frame without the asteroid belt.
func (s *Simulation) PlanetFrame() Frame {
	f := Frame{
		Tick:        s.integrator.Ticks(),
		Speed:       s.transport.Speed(),
		Paused:      s.transport.Paused(),
		SunRotation: s.integrator.SunRotation(),
		Bodies:      make([]BodyState, 0, len(s.planets)),
	}
	for _, h := range s.planets {
		b, _ := s.registry.Get(h)
		f.Bodies = append(f.Bodies, bodyState(h, b))
	}
	return f
}

func bodyState(h orbit.Handle, b orbit.Body) BodyState {
	pos := b.Position()
	return BodyState{
		Handle:   int(h),
		Name:     b.Name,
		Kind:     b.Kind.String(),
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Size:     b.Size,
		Radius:   b.OrbitalRadius,
		AngleDeg: b.AngleDeg(),
		Rotation: b.Rotation,
	}
}

// FrameExport is the JSON document written by headless runs.
type FrameExport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Epoch       string    `json:"epoch"`
	EpochJD     float64   `json:"epoch_jd"`
	Planets     int       `json:"planets"`
	Asteroids   int       `json:"asteroids"`
	Frame       Frame     `json:"frame"`
}

// ExportFrame captures the current frame with its dataset metadata.
func ExportFrame(s *Simulation, at time.Time) *FrameExport {
	return &FrameExport{
		GeneratedAt: at,
		Epoch:       s.dataset.EpochLabel(),
		EpochJD:     s.dataset.EpochJD,
		Planets:     s.registry.Count(orbit.KindPlanet),
		Asteroids:   s.registry.Count(orbit.KindAsteroid),
		Frame:       s.Frame(),
	}
}

// WriteJSON writes the export as JSON to the given writer.
func (e *FrameExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummaryTable writes a text table of planet positions.
func WriteSummaryTable(w io.Writer, s *Simulation) {
	fmt.Fprintf(w, "Orrery @ tick %d  speed %s  epoch %s\n",
		s.Ticks(), transport.FormatSpeed(s.transport.Speed()), s.dataset.EpochLabel())
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-10s %8s %8s %12s %12s\n", "Planet", "Dist AU", "Angle", "X", "Z")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, h := range s.planets {
		b, _ := s.registry.Get(h)
		pos := b.Position()
		fmt.Fprintf(w, "%-10s %8.2f %7.2f° %12.4f %12.4f\n",
			truncateStr(b.Name, 10),
			b.OrbitalRadius,
			b.AngleDeg(),
			pos.X,
			pos.Z,
		)
	}

	fmt.Fprintf(w, "\nBodies: %d planets, %d asteroids\n",
		s.registry.Count(orbit.KindPlanet), s.registry.Count(orbit.KindAsteroid))
}

func truncateStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
