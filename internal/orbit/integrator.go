package orbit

// SunRotationSpeed is the sun's spin in radians per tick at speed 1.
const SunRotationSpeed = 0.002

// SpeedSource supplies the shared speed multiplier. It is read once per tick.
type SpeedSource interface {
	Speed() float64
}

// Integrator advances every registered body by one step per Tick. It owns no
// timer and performs no I/O; the caller drives it once per frame.
type Integrator struct {
	reg   *Registry
	speed SpeedSource

	sunRotation float64
	ticks       uint64
}

// NewIntegrator creates an integrator over reg driven by speed.
func NewIntegrator(reg *Registry, speed SpeedSource) *Integrator {
	return &Integrator{reg: reg, speed: speed}
}

// Tick advances each body's angle by AngularSpeed*m and each planet's
// self-rotation by SelfRotationSpeed*m, where m is the current multiplier.
// Every body is scaled by the same m, so relative timing holds at any speed,
// including zero and negative values.
func (in *Integrator) Tick() {
	m := in.speed.Speed()

	bodies := in.reg.bodies
	for i := range bodies {
		b := &bodies[i]
		b.Angle += b.AngularSpeed * m
		if b.Kind == KindPlanet {
			b.Rotation += b.SelfRotationSpeed * m
		}
	}

	in.sunRotation += SunRotationSpeed * m
	in.ticks++
}

// Ticks returns how many times Tick has run.
func (in *Integrator) Ticks() uint64 {
	return in.ticks
}

// SunRotation returns the sun's accumulated spin in radians.
func (in *Integrator) SunRotation() float64 {
	return in.sunRotation
}

// Registry returns the registry this integrator advances.
func (in *Integrator) Registry() *Registry {
	return in.reg
}
