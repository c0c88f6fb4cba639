// Package overlay provides the fixed-capacity highlight instance pools:
// hover, focus center, focus-neighbor glow, search glow and live rings.
// Pools have one write path (Set) and never allocate after construction.
package overlay

import "github.com/oddscape/oddscape/components"

// Kind identifies what a pool highlights; the scene picks color and draw
// style per kind.
type Kind int

const (
	KindHover Kind = iota
	KindFocusCenter
	KindFocusNeighbors
	KindSearchGlow
	KindLiveRing
)

// Source is the slice of store state a pool reads when activated.
type Source interface {
	PositionAt(i int) components.Vec3
	ScaleAt(i int) float32
}

// Instance is one highlight transform.
type Instance struct {
	Position components.Vec3
	Scale    float32
}

// Pool is a capacity-bounded overlay instance array. Entries beyond
// Count() are not drawn; entries beyond capacity are silently dropped so
// the worst-case per-interaction cost stays bounded.
type Pool struct {
	kind       Kind
	multiplier float32
	items      []Instance
	count      int
	dropped    int
}

// NewPool creates a pool with the given capacity and scale multiplier.
func NewPool(kind Kind, capacity int, multiplier float32) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		kind:       kind,
		multiplier: multiplier,
		items:      make([]Instance, capacity),
	}
}

// Kind returns what this pool highlights.
func (p *Pool) Kind() Kind {
	return p.kind
}

// Capacity returns the fixed instance capacity.
func (p *Pool) Capacity() int {
	return len(p.items)
}

// Count returns the number of active instances.
func (p *Pool) Count() int {
	return p.count
}

// Dropped returns how many indices were truncated by the last Set; the
// caller may log it as a non-fatal condition.
func (p *Pool) Dropped() int {
	return p.dropped
}

// Set activates the pool over the given entity indices, writing up to
// capacity transforms scaled by the pool multiplier. Truncation, not
// error, past capacity.
func (p *Pool) Set(src Source, indices []int) {
	n := len(indices)
	if n > len(p.items) {
		p.dropped = n - len(p.items)
		n = len(p.items)
	} else {
		p.dropped = 0
	}

	for k := 0; k < n; k++ {
		i := indices[k]
		p.items[k] = Instance{
			Position: src.PositionAt(i),
			Scale:    src.ScaleAt(i) * p.multiplier,
		}
	}
	p.count = n
}

// Clear deactivates all instances without deallocating.
func (p *Pool) Clear() {
	p.count = 0
	p.dropped = 0
}

// Items returns the active instances. The slice is only valid until the
// next Set.
func (p *Pool) Items() []Instance {
	return p.items[:p.count]
}
