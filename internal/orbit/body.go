// Package orbit holds the orrery's body registry and the time integrator that
// advances every body along its circular orbit.
package orbit

import (
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// Kind categorizes registered bodies.
type Kind int

const (
	KindPlanet Kind = iota
	KindAsteroid
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindAsteroid:
		return "asteroid"
	default:
		return "unknown"
	}
}

// Params are the constant orbital parameters of a body. OrbitalRadius and
// AngularSpeed must be positive; direction of travel comes from the shared
// speed multiplier, never from a body's own speed.
type Params struct {
	Name              string
	Kind              Kind
	Size              float64 // Visual radius, unscaled
	OrbitalRadius     float64 // Distance from the sun in AU
	AngularSpeed      float64 // Radians per tick at speed 1
	SelfRotationSpeed float64 // Radians per tick at speed 1 (planets only)
	InitialAngle      float64 // Radians
	VerticalOffset    float64 // Height above the orbital plane (asteroids only)
}

// PlanetParams builds planet parameters from a descriptor's fields, converting
// the initial angle from degrees to radians.
func PlanetParams(name string, size, radius, speed, rotationSpeed, initialAngleDeg float64) Params {
	return Params{
		Name:              name,
		Kind:              KindPlanet,
		Size:              size,
		OrbitalRadius:     radius,
		AngularSpeed:      speed,
		SelfRotationSpeed: rotationSpeed,
		InitialAngle:      initialAngleDeg * math.Pi / 180,
	}
}

// Body is a registered body: its constant parameters plus the mutable angle
// and self-rotation accumulators.
type Body struct {
	Params

	Angle    float64 // Current orbital angle in radians, unbounded
	Rotation float64 // Accumulated self-rotation in radians (planets)
}

// Position returns the body's scene position. The orbit lies in the X/Z
// plane; Y is the constant vertical offset.
func (b Body) Position() astro.Vec3 {
	return astro.Vec3{
		X: math.Cos(b.Angle) * b.OrbitalRadius,
		Y: b.VerticalOffset,
		Z: math.Sin(b.Angle) * b.OrbitalRadius,
	}
}

// AngleDeg returns the current angle wrapped into [0, 360) degrees.
func (b Body) AngleDeg() float64 {
	return astro.NormalizeDeg(astro.RadToDeg(b.Angle))
}
