// Package sim wires the body registry, the time integrator and the transport
// controller into one steppable simulation and produces per-frame output.
package sim

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetdata"
	"github.com/litescript/ls-orrery/internal/transport"
)

// Simulation owns the bodies and the speed state. It is not safe for
// concurrent use; the driver calls Step and reads frames from one goroutine.
type Simulation struct {
	dataset    *planetdata.Dataset
	registry   *orbit.Registry
	integrator *orbit.Integrator
	transport  *transport.Controller
	planets    []orbit.Handle
}

// New builds a simulation. Planets are registered first, in dataset order,
// so planet i of the dataset has handle i; the belt follows.
func New(ds *planetdata.Dataset, belt orbit.BeltConfig, seed uint64) (*Simulation, error) {
	if ds == nil {
		return nil, fmt.Errorf("no planet data")
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("planet data: %w", err)
	}
	if err := belt.Validate(); err != nil {
		return nil, fmt.Errorf("belt config: %w", err)
	}

	reg := orbit.NewRegistry(len(ds.Planets) + belt.Count)
	params := make([]orbit.Params, len(ds.Planets))
	for i, p := range ds.Planets {
		params[i] = p.Params()
	}
	planets := reg.RegisterAll(params)
	reg.RegisterAll(orbit.GenerateAsteroids(orbit.NewRand(seed), belt))

	ctrl := transport.New()
	return &Simulation{
		dataset:    ds,
		registry:   reg,
		integrator: orbit.NewIntegrator(reg, ctrl),
		transport:  ctrl,
		planets:    planets,
	}, nil
}

// Step advances the simulation by one tick at the current speed.
func (s *Simulation) Step() {
	s.integrator.Tick()
}

// Ticks returns how many steps have run.
func (s *Simulation) Ticks() uint64 {
	return s.integrator.Ticks()
}

// Transport returns the speed controller.
func (s *Simulation) Transport() *transport.Controller {
	return s.transport
}

// Registry returns the body registry.
func (s *Simulation) Registry() *orbit.Registry {
	return s.registry
}

// Dataset returns the planet data the simulation was built from.
func (s *Simulation) Dataset() *planetdata.Dataset {
	return s.dataset
}

// Planets returns the planet handles in dataset order.
func (s *Simulation) Planets() []orbit.Handle {
	return s.planets
}

// Planet returns the descriptor and live body for the i-th planet.
func (s *Simulation) Planet(i int) (planetdata.Planet, orbit.Body, bool) {
	if i < 0 || i >= len(s.planets) {
		return planetdata.Planet{}, orbit.Body{}, false
	}
	b, ok := s.registry.Get(s.planets[i])
	if !ok {
		return planetdata.Planet{}, orbit.Body{}, false
	}
	return s.dataset.Planets[i], b, true
}
