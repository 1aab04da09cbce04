// Package astro provides the vector and projection math shared by the orrery views.
package astro

import (
	"fmt"
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 is a position in scene space. Y is "up"; the orbital plane is X/Z.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// PlanarNorm returns the distance from the Y axis, ignoring height.
func (v Vec3) PlanarNorm() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X float64 // Screen X (display units, right positive)
	Y float64 // Screen Y (display units, up positive)
	R float64 // Planar distance from the sun in AU
	H float64 // Height above the orbital plane
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLogR uses logarithmic scaling: r_display = log10(r_AU + 1)
	ScaleLogR ScaleMode = iota

	// ScaleInner uses linear scaling for 0-5 AU; outer bodies pin to the edge
	ScaleInner

	// ScaleOuter is linear to 5 AU, then logarithmic
	ScaleOuter
)

// String returns a short HUD label for the mode.
func (m ScaleMode) String() string {
	switch m {
	case ScaleLogR:
		return "Log"
	case ScaleInner:
		return "Inner"
	case ScaleOuter:
		return "Outer"
	default:
		return "?"
	}
}

// ProjectionConfig configures the top-down projection.
type ProjectionConfig struct {
	Scale float64   // Base scale factor
	Mode  ScaleMode // Scaling mode
}

// DefaultProjectionConfig returns a reasonable default configuration.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		Scale: 1.0,
		Mode:  ScaleLogR,
	}
}

// ProjectTopDown projects a scene position onto the screen as seen from above
// the orbital plane. Scene +X maps to screen right, scene +Z maps to screen up.
func ProjectTopDown(v Vec3, cfg ProjectionConfig) ProjectedPoint {
	r := v.PlanarNorm()
	rDisplay := ScaleRadius(r, cfg.Mode)
	angle := math.Atan2(v.Z, v.X)

	return ProjectedPoint{
		X: rDisplay * math.Cos(angle) * cfg.Scale,
		Y: rDisplay * math.Sin(angle) * cfg.Scale,
		R: r,
		H: v.Y,
	}
}

// ScaleRadius maps a radial distance in AU to display units.
func ScaleRadius(rAU float64, mode ScaleMode) float64 {
	switch mode {
	case ScaleInner:
		if rAU > 5 {
			return 5
		}
		return rAU
	case ScaleOuter:
		if rAU <= 5 {
			return rAU / 5 * 0.5
		}
		return 0.5 + math.Log10(rAU/5+1)*0.5
	default:
		// 0 at origin, ~0.78 at 5 AU, ~1.49 at 30 AU
		return math.Log10(rAU + 1)
	}
}

// MaxDisplayRadius is the display radius of the outermost body for a mode,
// used to fit the system into the canvas.
func MaxDisplayRadius(outerAU float64, mode ScaleMode) float64 {
	r := ScaleRadius(outerAU, mode)
	if r <= 0 {
		return 1
	}
	return r
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg wraps an angle in degrees into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// LightTimeFromAU returns the one-way light time for a distance in AU.
func LightTimeFromAU(au float64) float64 {
	// Light travels 1 AU in ~499.005 seconds
	return au * 499.005
}

// FormatLightTime formats light time in seconds to a human-readable string.
func FormatLightTime(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm%ds", int(seconds/60), int(seconds)%60)
	}
	return fmt.Sprintf("%dh%dm", int(seconds/3600), (int(seconds)%3600)/60)
}
