package edges

import (
	"math"
	"testing"

	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/config"
	"github.com/oddscape/oddscape/store"
)

func edgeStore(t *testing.T) *store.Store {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	s := store.New(cfg)
	s.Initialize([]store.Entity{
		{ID: "a", Category: "c", Metrics: store.MetricsOf(0.1, 0.1, 0.1, 0.5)},
		{ID: "b", Category: "c", Metrics: store.MetricsOf(0.5, 0.5, 0.5, 0.5)},
		{ID: "c", Category: "c", Metrics: store.MetricsOf(0.9, 0.9, 0.9, 0.5)},
	})
	return s
}

func TestBuildDropsUnknownEndpoints(t *testing.T) {
	st := edgeStore(t)
	r := NewRenderer(config.EdgesConfig{DashLength: 0, GapLength: 0})

	r.Build([]Connection{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "ghost"},
		{Source: "ghost", Target: "b"},
	}, st)

	// Dash length 0 produces one solid segment per surviving pair.
	if len(r.Segments()) != 1 {
		t.Errorf("segments = %d, want 1 (unknown endpoints dropped)", len(r.Segments()))
	}
}

func TestFilterByVisibility(t *testing.T) {
	st := edgeStore(t)
	conns := []Connection{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	}

	// Unfiltered store passes all pairs through.
	if got := FilterByVisibility(conns, st); len(got) != 2 {
		t.Fatalf("unfiltered = %d pairs, want 2", len(got))
	}

	// Only a and b visible: (b,c) loses an endpoint and is dropped.
	st.SetVisibility([]int{0, 1})
	got := FilterByVisibility(conns, st)
	if len(got) != 1 || got[0].Source != "a" || got[0].Target != "b" {
		t.Errorf("filtered = %v, want only (a,b)", got)
	}
}

func TestRefreshRebuildsOnceWhenDirty(t *testing.T) {
	st := edgeStore(t)
	r := NewRenderer(config.EdgesConfig{DashLength: 0})
	r.Build([]Connection{{Source: "a", Target: "b"}}, st)

	before := r.Segments()[0]

	st.UpdateEntity("a", store.MetricsOf(0.9, 0.1, 0.9, 0.5))
	if r.Dirty() {
		t.Fatal("renderer dirty before MarkDirty")
	}
	r.MarkDirty()
	r.MarkDirty() // burst coalesces
	if !r.Dirty() {
		t.Fatal("expected dirty after MarkDirty")
	}

	r.Refresh(st)
	if r.Dirty() {
		t.Error("expected clean after Refresh")
	}
	after := r.Segments()[0]
	if before.A == after.A {
		t.Error("segment geometry did not follow the moved endpoint")
	}

	r.Refresh(st) // no-op when clean
}

func TestRebuildAfterVisibilityChange(t *testing.T) {
	st := edgeStore(t)
	r := NewRenderer(config.EdgesConfig{DashLength: 0})
	r.Build([]Connection{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	}, st)
	if len(r.Segments()) != 2 {
		t.Fatalf("segments = %d before filtering, want 2", len(r.Segments()))
	}

	// The renderer does not watch the store; the caller that changes the
	// visibility set must mark it dirty or stale geometry keeps drawing.
	st.SetVisibility([]int{0, 1})
	r.Refresh(st)
	if len(r.Segments()) != 2 {
		t.Fatalf("unmarked refresh rebuilt geometry, segments = %d", len(r.Segments()))
	}

	r.MarkDirty()
	r.Refresh(st)
	if len(r.Segments()) != 1 {
		t.Errorf("segments = %d after hiding c, want 1", len(r.Segments()))
	}

	// Restoring full visibility brings the dropped edge back.
	st.SetVisibility(nil)
	r.MarkDirty()
	r.Refresh(st)
	if len(r.Segments()) != 2 {
		t.Errorf("segments = %d after restore, want 2", len(r.Segments()))
	}
}

func TestHighlightForFocus(t *testing.T) {
	st := edgeStore(t)
	r := NewRenderer(config.EdgesConfig{DashLength: 0})
	conns := []Connection{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	}
	r.Build(conns, st)

	r.HighlightForFocus("b", st)
	if len(r.HighlightSegments()) != 2 {
		t.Errorf("highlight segments = %d, want 2", len(r.HighlightSegments()))
	}
	if r.HighlightID() != "b" {
		t.Errorf("highlight id = %q, want b", r.HighlightID())
	}

	r.HighlightForFocus("a", st)
	if len(r.HighlightSegments()) != 1 {
		t.Errorf("highlight segments = %d, want 1", len(r.HighlightSegments()))
	}

	r.ClearHighlight()
	if len(r.HighlightSegments()) != 0 || r.HighlightID() != "" {
		t.Error("highlight not cleared")
	}
}

func TestRefreshPreservesHighlight(t *testing.T) {
	st := edgeStore(t)
	r := NewRenderer(config.EdgesConfig{DashLength: 0})
	r.Build([]Connection{{Source: "a", Target: "b"}}, st)
	r.HighlightForFocus("a", st)

	st.UpdateEntity("b", store.MetricsOf(0.2, 0.9, 0.2, 0.5))
	r.MarkDirty()
	r.Refresh(st)

	if r.HighlightID() != "a" {
		t.Fatalf("highlight id lost across refresh: %q", r.HighlightID())
	}
	hl := r.HighlightSegments()
	if len(hl) != 1 {
		t.Fatalf("highlight segments = %d, want 1", len(hl))
	}
	if hl[0].B != st.PositionAt(1) {
		t.Error("highlight endpoint did not track the moved entity")
	}
}

func vecOf(x, y, z float32) components.Vec3 {
	return components.Vec3{X: x, Y: y, Z: z}
}

func TestAppendDashesCoversSpan(t *testing.T) {
	segs := appendDashes(nil,
		vecOf(0, 0, 0), vecOf(10, 0, 0), 1, 0.5)

	if len(segs) < 2 {
		t.Fatalf("expected multiple dashes, got %d", len(segs))
	}
	// First dash starts at a, last dash ends at or before b.
	if segs[0].A != vecOf(0, 0, 0) {
		t.Errorf("first dash starts at %+v", segs[0].A)
	}
	last := segs[len(segs)-1]
	if last.B.X > 10+1e-4 {
		t.Errorf("last dash overruns the span: %+v", last.B)
	}
	// Each dash is at most dashLen long.
	for _, s := range segs {
		l := s.B.Sub(s.A).Length()
		if l > 1+1e-4 {
			t.Errorf("dash length %f exceeds 1", l)
		}
	}
}

func TestAppendDashesShortEdgeSolid(t *testing.T) {
	segs := appendDashes(nil, vecOf(0, 0, 0), vecOf(0.5, 0, 0), 1, 0.5)
	if len(segs) != 1 {
		t.Fatalf("short edge = %d segments, want 1", len(segs))
	}
	if math.Abs(float64(segs[0].B.X-0.5)) > 1e-6 {
		t.Errorf("short edge endpoint = %+v", segs[0].B)
	}
}
