package orbit

// Handle identifies a registered body. Handles are assigned in registration
// order and stay valid for the registry's lifetime.
type Handle int

// Registry holds every body in the simulation. Bodies are registered once at
// startup and never removed.
type Registry struct {
	bodies []Body
}

// NewRegistry creates an empty registry sized for n bodies.
func NewRegistry(n int) *Registry {
	if n < 0 {
		n = 0
	}
	return &Registry{bodies: make([]Body, 0, n)}
}

// Register adds a body and returns its handle. The body's angle starts at
// p.InitialAngle.
func (r *Registry) Register(p Params) Handle {
	r.bodies = append(r.bodies, Body{Params: p, Angle: p.InitialAngle})
	return Handle(len(r.bodies) - 1)
}

// RegisterAll registers bodies in order and returns their handles.
func (r *Registry) RegisterAll(ps []Params) []Handle {
	handles := make([]Handle, len(ps))
	for i, p := range ps {
		handles[i] = r.Register(p)
	}
	return handles
}

// ForEach calls fn for every body in registration order.
func (r *Registry) ForEach(fn func(h Handle, b Body)) {
	for i := range r.bodies {
		fn(Handle(i), r.bodies[i])
	}
}

// Get returns the body for a handle.
func (r *Registry) Get(h Handle) (Body, bool) {
	if h < 0 || int(h) >= len(r.bodies) {
		return Body{}, false
	}
	return r.bodies[h], true
}

// Len returns the number of registered bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Count returns the number of bodies of a kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for i := range r.bodies {
		if r.bodies[i].Kind == kind {
			n++
		}
	}
	return n
}

// Handles returns the handles of every body of a kind, in registration order.
func (r *Registry) Handles(kind Kind) []Handle {
	var hs []Handle
	for i := range r.bodies {
		if r.bodies[i].Kind == kind {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}
