package edges

import (
	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/config"
	"github.com/oddscape/oddscape/store"
)

// Segment is one drawable line piece in scene space.
type Segment struct {
	A, B components.Vec3
}

// Renderer owns the connectivity geometry. The base geometry is dashed;
// the highlight geometry is a smaller solid subset rebuilt on focus. Both
// read positions from the store and never mutate it.
type Renderer struct {
	cfg config.EdgesConfig

	conns    []Connection
	segments []Segment

	highlight   []Segment
	highlightID string

	dirty bool
}

// NewRenderer creates an empty connectivity renderer.
func NewRenderer(cfg config.EdgesConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Build replaces the connection list and rebuilds the base geometry from
// the store's current positions. Pairs with an unknown endpoint are
// dropped; one O(1) id lookup per endpoint, O(edges) total.
func (r *Renderer) Build(conns []Connection, st *store.Store) {
	r.conns = conns
	r.highlight = nil
	r.highlightID = ""
	r.rebuild(st)
}

// MarkDirty defers geometry rebuilding to the next Refresh call, so a
// burst of entity updates costs one O(edges) pass per frame at most.
func (r *Renderer) MarkDirty() {
	r.dirty = true
}

// Dirty reports whether Refresh would rebuild.
func (r *Renderer) Dirty() bool {
	return r.dirty
}

// Refresh rebuilds base and highlight geometry if marked dirty.
func (r *Renderer) Refresh(st *store.Store) {
	if !r.dirty {
		return
	}
	r.rebuild(st)
	if r.highlightID != "" {
		r.HighlightForFocus(r.highlightID, st)
	}
}

func (r *Renderer) rebuild(st *store.Store) {
	r.dirty = false
	r.segments = r.segments[:0]

	visible := FilterByVisibility(r.conns, st)
	for _, c := range visible {
		si, ok := st.IndexOf(c.Source)
		if !ok {
			continue
		}
		ti, ok := st.IndexOf(c.Target)
		if !ok {
			continue
		}
		r.segments = appendDashes(r.segments, st.PositionAt(si), st.PositionAt(ti), r.cfg.DashLength, r.cfg.GapLength)
	}
}

// FilterByVisibility retains only pairs with both endpoints visible when a
// visibility subset is active, and passes all pairs through otherwise.
// Pairs with unknown endpoints are dropped either way.
func FilterByVisibility(conns []Connection, st *store.Store) []Connection {
	out := make([]Connection, 0, len(conns))
	for _, c := range conns {
		si, ok := st.IndexOf(c.Source)
		if !ok {
			continue
		}
		ti, ok := st.IndexOf(c.Target)
		if !ok {
			continue
		}
		if st.Filtered() && (!st.Visible(si) || !st.Visible(ti)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// HighlightForFocus rebuilds the highlight geometry for only the edges
// touching id. The highlight is solid (non-dashed) and drawn brighter by
// the scene. Cleared by ClearHighlight.
func (r *Renderer) HighlightForFocus(id string, st *store.Store) {
	r.highlight = r.highlight[:0]
	r.highlightID = id

	center, ok := st.IndexOf(id)
	if !ok {
		return
	}
	a := st.PositionAt(center)

	for _, c := range r.conns {
		var otherID string
		switch id {
		case c.Source:
			otherID = c.Target
		case c.Target:
			otherID = c.Source
		default:
			continue
		}
		oi, ok := st.IndexOf(otherID)
		if !ok {
			continue
		}
		r.highlight = append(r.highlight, Segment{A: a, B: st.PositionAt(oi)})
	}
}

// ClearHighlight drops the focus geometry.
func (r *Renderer) ClearHighlight() {
	r.highlight = r.highlight[:0]
	r.highlightID = ""
}

// Segments returns the dashed base geometry.
func (r *Renderer) Segments() []Segment {
	return r.segments
}

// HighlightSegments returns the focus geometry.
func (r *Renderer) HighlightSegments() []Segment {
	return r.highlight
}

// HighlightID returns the id the highlight was built for, or "".
func (r *Renderer) HighlightID() string {
	return r.highlightID
}

// appendDashes chops the segment a→b into dash pieces of dashLen separated
// by gapLen. Short edges produce a single solid piece so every surviving
// pair stays visible.
func appendDashes(dst []Segment, a, b components.Vec3, dashLen, gapLen float32) []Segment {
	d := b.Sub(a)
	length := d.Length()
	if dashLen <= 0 || gapLen < 0 || length <= dashLen {
		return append(dst, Segment{A: a, B: b})
	}

	dir := d.Scale(1 / length)
	period := dashLen + gapLen
	for off := float32(0); off < length; off += period {
		end := off + dashLen
		if end > length {
			end = length
		}
		dst = append(dst, Segment{
			A: a.Add(dir.Scale(off)),
			B: a.Add(dir.Scale(end)),
		})
	}
	return dst
}
