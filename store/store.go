// Package store implements the columnar entity store at the center of the
// visualization engine. Per-entity attributes live in an ark ECS world
// (structure-of-arrays storage); the store keeps a stable entity slice so
// that entity index and renderer instance slot are the same number for the
// lifetime of a load.
package store

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/config"
)

// Sphere meshes are drawn with unit diameter, so the pick radius is half
// the instance scale.
const pickRadiusFactor = 0.5

// Entity is one opportunity record as supplied by the caller. The store
// never mutates it and never interprets Metadata.
type Entity struct {
	ID       string
	Category string
	Live     bool
	Metrics  components.Metrics
	Metadata map[string]string
}

// Store holds the engine-owned columnar state for all loaded entities.
// It is rebuilt by Initialize and patched in place by UpdateEntity; all
// other components only read from it.
type Store struct {
	cfg *config.Config

	world   *ecs.World
	mapper  *ecs.Map3[components.Position, components.Metrics, components.Display]
	posMap  *ecs.Map1[components.Position]
	metMap  *ecs.Map1[components.Metrics]
	dispMap *ecs.Map1[components.Display]

	// entities[i] is the ark entity for index i; index == instance slot.
	entities []ecs.Entity
	ids      []string
	metadata []map[string]string

	idToIndex     map[string]int
	activeIndices []int

	// visible == nil means all entities are shown.
	visible map[int]struct{}

	// Closed category table, resolved once at ingestion.
	categories   []string
	categoryCode map[string]uint8

	// batches[code] lists entity indices drawn in that category's
	// instanced batch, in index order.
	batches [][]int

	generation uint64
	disposed   bool
}

// New creates an empty store using the given configuration.
func New(cfg *config.Config) *Store {
	s := &Store{cfg: cfg}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.world = ecs.NewWorld()
	s.mapper = ecs.NewMap3[components.Position, components.Metrics, components.Display](s.world)
	s.posMap = ecs.NewMap1[components.Position](s.world)
	s.metMap = ecs.NewMap1[components.Metrics](s.world)
	s.dispMap = ecs.NewMap1[components.Display](s.world)
	s.entities = nil
	s.ids = nil
	s.metadata = nil
	s.idToIndex = make(map[string]int)
	s.activeIndices = nil
	s.visible = nil
	s.categories = nil
	s.categoryCode = make(map[string]uint8)
	s.batches = nil
}

// Initialize replaces all store state with the given entity list. O(n).
// Positions and scales are computed once here and only recomputed by
// UpdateEntity for the entity it names.
func (s *Store) Initialize(entities []Entity) {
	if s.disposed {
		return
	}
	s.reset()

	n := len(entities)
	s.entities = make([]ecs.Entity, 0, n)
	s.ids = make([]string, 0, n)
	s.metadata = make([]map[string]string, 0, n)

	for i, in := range entities {
		m := sanitizeMetrics(in.Metrics)
		code := s.categoryFor(in.Category)

		pos := s.positionFor(m)
		scale := s.scaleFor(m)
		disp := components.Display{
			Scale:       scale,
			RenderScale: scale,
			Category:    code,
			Live:        in.Live,
		}

		e := s.mapper.NewEntity(&pos, &m, &disp)
		s.entities = append(s.entities, e)
		s.ids = append(s.ids, in.ID)
		s.metadata = append(s.metadata, in.Metadata)

		// Last write wins on duplicate ids; the earlier slot still
		// renders but resolves to the winning index by id.
		s.idToIndex[in.ID] = i
		if in.Live {
			s.activeIndices = append(s.activeIndices, i)
		}
		s.batches[code] = append(s.batches[code], i)
	}

	s.generation++
}

// UpdateEntity patches one entity's metrics, position and scale in place.
// Unknown ids are a silent no-op: updates may race with load from the
// caller's perspective. Never changes n or the id map. O(1).
func (s *Store) UpdateEntity(id string, newMetrics components.Metrics) {
	if s.disposed {
		return
	}
	i, ok := s.idToIndex[id]
	if !ok {
		return
	}

	m := sanitizeMetrics(newMetrics)
	e := s.entities[i]

	*s.metMap.Get(e) = m

	pos := s.positionFor(m)
	*s.posMap.Get(e) = pos

	disp := s.dispMap.Get(e)
	disp.Scale = s.scaleFor(m)
	if s.isVisible(i) {
		disp.RenderScale = disp.Scale
	} else {
		disp.RenderScale = 0
	}

	s.generation++
}

// SetVisibility restricts rendering to the given indices, or restores all
// entities when indices is nil. Hiding is expressed as zero render scale so
// buffer layout and the instance-to-index mapping never change.
// Out-of-range indices are dropped.
func (s *Store) SetVisibility(indices []int) {
	if s.disposed {
		return
	}
	if indices == nil {
		s.visible = nil
	} else {
		set := make(map[int]struct{}, len(indices))
		for _, i := range indices {
			if i >= 0 && i < len(s.entities) {
				set[i] = struct{}{}
			}
		}
		s.visible = set
	}

	for i, e := range s.entities {
		disp := s.dispMap.Get(e)
		if s.isVisible(i) {
			disp.RenderScale = disp.Scale
		} else {
			disp.RenderScale = 0
		}
	}

	s.generation++
}

// ResolveHit translates a renderer-level hit (category batch, instance
// slot) back to an entity index. Returns false for out-of-range values.
func (s *Store) ResolveHit(category, slot int) (int, bool) {
	if category < 0 || category >= len(s.batches) {
		return 0, false
	}
	batch := s.batches[category]
	if slot < 0 || slot >= len(batch) {
		return 0, false
	}
	return batch[slot], true
}

// PickEntity resolves a ray to the nearest intersected visible entity.
// Hidden entities are excluded from the candidate set outright rather than
// relying on zero-radius misses.
func (s *Store) PickEntity(ray components.Ray) (int, bool) {
	best := -1
	var bestT float32 = math.MaxFloat32

	for i, e := range s.entities {
		if !s.isVisible(i) {
			continue
		}
		disp := s.dispMap.Get(e)
		radius := disp.RenderScale * pickRadiusFactor
		if radius <= 0 {
			continue
		}
		pos := s.posMap.Get(e)
		t, hit := ray.IntersectSphere(pos.Vec(), radius)
		if hit && t < bestT {
			bestT = t
			best = i
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}

// Dispose releases all store memory. Idempotent; every operation on a
// disposed store is a no-op or returns empty.
func (s *Store) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.world = nil
	s.mapper = nil
	s.posMap = nil
	s.metMap = nil
	s.dispMap = nil
	s.entities = nil
	s.ids = nil
	s.metadata = nil
	s.idToIndex = nil
	s.activeIndices = nil
	s.visible = nil
	s.categories = nil
	s.categoryCode = nil
	s.batches = nil
}

// Len returns the number of loaded entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// Generation increments whenever render-facing state changes; the renderer
// re-uploads instance transforms only when it observes a new value.
func (s *Store) Generation() uint64 {
	return s.generation
}

// IDAt returns the entity id at index i.
func (s *Store) IDAt(i int) string {
	return s.ids[i]
}

// IndexOf returns the index for an entity id.
func (s *Store) IndexOf(id string) (int, bool) {
	i, ok := s.idToIndex[id]
	return i, ok
}

// PositionAt returns the computed position of entity i.
func (s *Store) PositionAt(i int) components.Vec3 {
	return s.posMap.Get(s.entities[i]).Vec()
}

// ScaleAt returns the intrinsic (visibility-independent) scale of entity i.
func (s *Store) ScaleAt(i int) float32 {
	return s.dispMap.Get(s.entities[i]).Scale
}

// RenderScaleAt returns the rendered scale of entity i: the intrinsic
// scale, or 0 while hidden.
func (s *Store) RenderScaleAt(i int) float32 {
	return s.dispMap.Get(s.entities[i]).RenderScale
}

// MetricsAt returns the sanitized metrics of entity i.
func (s *Store) MetricsAt(i int) components.Metrics {
	return *s.metMap.Get(s.entities[i])
}

// CategoryAt returns the category code of entity i.
func (s *Store) CategoryAt(i int) uint8 {
	return s.dispMap.Get(s.entities[i]).Category
}

// LiveAt reports whether entity i carries the live flag.
func (s *Store) LiveAt(i int) bool {
	return s.dispMap.Get(s.entities[i]).Live
}

// CategoryCount returns the number of distinct categories seen at load.
func (s *Store) CategoryCount() int {
	return len(s.categories)
}

// CategoryName returns the name for a category code, or "" out of range.
func (s *Store) CategoryName(code uint8) string {
	if int(code) >= len(s.categories) {
		return ""
	}
	return s.categories[code]
}

// Batch returns the entity indices drawn in a category's instanced batch.
func (s *Store) Batch(category int) []int {
	if category < 0 || category >= len(s.batches) {
		return nil
	}
	return s.batches[category]
}

// ActiveIndices returns the cached indices of live entities, in index
// order.
func (s *Store) ActiveIndices() []int {
	return s.activeIndices
}

// VisibleActiveIndices returns the live entities that are currently shown,
// for ring-overlay synchronization.
func (s *Store) VisibleActiveIndices() []int {
	out := make([]int, 0, len(s.activeIndices))
	for _, i := range s.activeIndices {
		if s.isVisible(i) {
			out = append(out, i)
		}
	}
	return out
}

// Visible reports whether entity i is currently shown.
func (s *Store) Visible(i int) bool {
	if i < 0 || i >= len(s.entities) {
		return false
	}
	return s.isVisible(i)
}

// Filtered reports whether a visibility subset is active.
func (s *Store) Filtered() bool {
	return s.visible != nil
}

func (s *Store) isVisible(i int) bool {
	if s.visible == nil {
		return true
	}
	_, ok := s.visible[i]
	return ok
}

// categoryFor returns the code for a category name, registering it in the
// closed table on first sight.
func (s *Store) categoryFor(name string) uint8 {
	if code, ok := s.categoryCode[name]; ok {
		return code
	}
	code := uint8(len(s.categories))
	s.categoryCode[name] = code
	s.categories = append(s.categories, name)
	s.batches = append(s.batches, nil)
	return code
}

func (s *Store) positionFor(m components.Metrics) components.Position {
	ax := s.cfg.Axes
	return components.Position{
		X: ax.X.Apply(m.Profit),
		Y: ax.Y.Apply(m.Confidence),
		Z: ax.Z.Apply(m.Risk),
	}
}

func (s *Store) scaleFor(m components.Metrics) float32 {
	sz := s.cfg.Sizing
	return sz.Base + sz.Gain*float32(math.Pow(float64(m.Volume), float64(sz.Exponent)))
}

// sanitizeMetrics clamps metric inputs into range before mapping.
// Out-of-range values are clamped, not rejected; NaN defaults to zero. The
// 0.99 axis ceiling avoids degenerate boundary geometry.
func sanitizeMetrics(m components.Metrics) components.Metrics {
	return components.Metrics{
		Profit:     clampMetric(m.Profit, 0, 0.99),
		Risk:       clampMetric(m.Risk, 0, 0.99),
		Confidence: clampMetric(m.Confidence, 0, 0.99),
		Volume:     clampMetric(m.Volume, 0, 1),
	}
}

func clampMetric(v, min, max float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
