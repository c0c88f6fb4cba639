// Package scene owns the render loop and composes the engine: entity
// store, overlays, connectivity renderer, camera and interaction
// controller. All cross-component routing happens here — click to focus,
// focus to camera flight and edge highlight, search to visibility and
// glow.
package scene

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/oddscape/oddscape/camera"
	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/config"
	"github.com/oddscape/oddscape/edges"
	"github.com/oddscape/oddscape/interact"
	"github.com/oddscape/oddscape/overlay"
	"github.com/oddscape/oddscape/store"
	"github.com/oddscape/oddscape/telemetry"
	"github.com/oddscape/oddscape/ui"
)

// Callbacks are the engine's outward events, e.g. for a side panel.
type Callbacks struct {
	Focus   func(id string)
	Unfocus func()
}

// Scene is the orchestrator. One instance owns all component lifetimes;
// there is no ambient state.
type Scene struct {
	cfg *config.Config

	st    *store.Store
	graph edges.Graph
	edgeR *edges.Renderer
	cam   *camera.Camera
	ctl   *interact.Controller

	conns []edges.Connection

	// Fixed-capacity pools (hover and focus center hold one instance;
	// glow and ring pools are sized per load).
	hover       *overlay.Pool
	focusCenter *overlay.Pool
	focusGlow   *overlay.Pool
	searchGlow  *overlay.Pool
	rings       *overlay.Pool

	focusID    string
	matchCount int // -1 while no search is active

	callbacks Callbacks

	panel      *ui.Panel
	widgets    *ui.Renderer
	tooltip    store.DisplayData
	hasTooltip bool

	perf *telemetry.PerfCollector

	// GPU resources, see render.go.
	mesh        rl.Mesh
	material    rl.Material
	shader      rl.Shader
	transforms  [][]rl.Matrix
	uploadedGen uint64
	gpuReady    bool

	width, height float32
	lastMouse     rl.Vector2

	disposed bool
}

// New creates the scene. The raylib window must already be open.
func New(cfg *config.Config, cb Callbacks) *Scene {
	s := newScene(cfg, cb)
	s.initRenderResources()
	return s
}

// newScene wires every component except the GPU resources, keeping the
// orchestration logic constructible without a window.
func newScene(cfg *config.Config, cb Callbacks) *Scene {
	s := &Scene{
		cfg:         cfg,
		st:          store.New(cfg),
		edgeR:       edges.NewRenderer(cfg.Edges),
		cam:         camera.New(cfg.Camera),
		callbacks:   cb,
		panel:       ui.NewPanel(),
		widgets:     ui.NewRenderer(),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.WindowFrames),
		hover:       overlay.NewPool(overlay.KindHover, 1, cfg.Overlays.HoverScale),
		focusCenter: overlay.NewPool(overlay.KindFocusCenter, 1, cfg.Overlays.FocusScale),
		focusGlow:   overlay.NewPool(overlay.KindFocusNeighbors, cfg.Overlays.NeighborCap, cfg.Overlays.NeighborScale),
		searchGlow:  overlay.NewPool(overlay.KindSearchGlow, 0, cfg.Overlays.GlowScale),
		rings:       overlay.NewPool(overlay.KindLiveRing, 0, cfg.Overlays.RingScale),
		matchCount:  -1,
		width:       float32(cfg.Screen.Width),
		height:      float32(cfg.Screen.Height),
	}

	s.ctl = interact.NewController(s.st, cfg.Interaction.DragThresholdPx, interact.Callbacks{
		HoverChanged: s.onHoverChanged,
		Clicked:      s.focusIndex,
		ClickedEmpty: func() { s.ClearFocus() },
	})

	return s
}

// Store exposes read access for external collaborators (display records,
// search). The scene remains the only writer.
func (s *Scene) Store() *store.Store {
	return s.st
}

// Perf returns the frame statistics over the current window.
func (s *Scene) Perf() telemetry.FrameStats {
	return s.perf.Stats()
}

// LoadEntities fully replaces the entity set and connectivity list. The
// store rebuild is not yielded mid-way, so no frame ever renders a mix of
// old and new data. Overlay pools whose capacity depends on n are
// reallocated here and only mutated afterward.
func (s *Scene) LoadEntities(entities []store.Entity, conns []edges.Connection) {
	if s.disposed {
		return
	}

	// A reload invalidates the focused id; listeners hear about it.
	s.ClearFocus()
	s.matchCount = -1
	s.ctl.Reset()
	s.hasTooltip = false
	s.hover.Clear()

	s.st.Initialize(entities)
	s.conns = conns
	s.graph = edges.BuildGraph(conns)
	s.edgeR.Build(conns, s.st)

	ov := s.cfg.Overlays
	s.searchGlow = overlay.NewPool(overlay.KindSearchGlow, s.st.Len(), ov.GlowScale)
	s.rings = overlay.NewPool(overlay.KindLiveRing, len(s.st.ActiveIndices()), ov.RingScale)
	s.rings.Set(s.st, s.st.ActiveIndices())

	s.rebuildTransforms()
	s.frameAll()

	slog.Info("entities loaded",
		"count", s.st.Len(),
		"connections", len(conns),
		"categories", s.st.CategoryCount(),
		"live", len(s.st.ActiveIndices()),
	)
}

// UpdateEntity patches one entity's metrics in place. Unknown ids no-op.
// Edge geometry is marked dirty and rebuilt once before the next draw;
// overlays referencing the entity are refreshed so highlights track the
// new position.
func (s *Scene) UpdateEntity(id string, metrics components.Metrics) {
	if s.disposed {
		return
	}
	i, ok := s.st.IndexOf(id)
	if !ok {
		return
	}

	s.st.UpdateEntity(id, metrics)
	s.edgeR.MarkDirty()

	if s.focusID != "" {
		s.refreshFocusOverlays(s.focusID)
	}
	if s.ctl.Hovered() == i {
		s.hover.Set(s.st, []int{i})
		s.tooltip = s.st.DisplayData(i)
	}
	s.rings.Set(s.st, s.st.VisibleActiveIndices())
}

// refreshFocusOverlays rebuilds the focus center, neighbor glow and edge
// highlight for id without re-firing the focus event or restarting the
// camera flight.
func (s *Scene) refreshFocusOverlays(id string) {
	i, ok := s.st.IndexOf(id)
	if !ok {
		return
	}
	s.focusCenter.Set(s.st, []int{i})

	neighborIDs := s.graph.Neighbors(id)
	neighbors := make([]int, 0, len(neighborIDs))
	for _, nid := range neighborIDs {
		if ni, ok := s.st.IndexOf(nid); ok {
			neighbors = append(neighbors, ni)
		}
	}
	s.focusGlow.Set(s.st, neighbors)
	s.edgeR.HighlightForFocus(id, s.st)
}

// ApplySearch runs the search, applies visibility and glow, optionally
// reframes the camera over the result set, and returns the match count.
// A single match auto-focuses instead of glowing.
func (s *Scene) ApplySearch(c store.Criteria, reframe bool) int {
	if s.disposed {
		return 0
	}

	matches := s.st.Search(c)
	s.matchCount = len(matches)

	switch len(matches) {
	case 0:
		// "No results" must look different from "no search": hide all.
		s.setVisibility([]int{})
		s.searchGlow.Clear()

	case 1:
		s.setVisibility(nil)
		s.searchGlow.Clear()
		s.focusIndex(matches[0])

	default:
		s.ClearFocus()
		s.setVisibility(matches)
		s.searchGlow.Set(s.st, matches)
		if s.searchGlow.Dropped() > 0 {
			slog.Warn("search glow truncated", "dropped", s.searchGlow.Dropped())
		}
		if reframe {
			points := make([]components.Vec3, 0, len(matches))
			for _, i := range matches {
				points = append(points, s.st.PositionAt(i))
			}
			s.cam.FrameAll(points)
		}
	}

	return len(matches)
}

// submitSearch routes a panel submission. Empty criteria reset the
// filter instead of running a zero-match search that would hide
// everything.
func (s *Scene) submitSearch(c store.Criteria) {
	if c.IsEmpty() {
		s.ClearSearch()
		return
	}
	s.ApplySearch(c, true)
}

// ClearSearch restores full visibility and drops the glow overlay.
// Idempotent when no search is active.
func (s *Scene) ClearSearch() {
	if s.disposed {
		return
	}
	s.matchCount = -1
	s.searchGlow.Clear()
	s.setVisibility(nil)
}

// FocusByID focuses an entity by id. Unknown ids no-op.
func (s *Scene) FocusByID(id string) {
	if i, ok := s.st.IndexOf(id); ok {
		s.focusIndex(i)
	}
}

// FocusedID returns the focused entity id, or "".
func (s *Scene) FocusedID() string {
	return s.focusID
}

// ClearFocus drops the focus overlays, edge highlight and event state.
func (s *Scene) ClearFocus() {
	if s.focusID == "" {
		return
	}
	s.clearFocusState()
	if s.callbacks.Unfocus != nil {
		s.callbacks.Unfocus()
	}
}

// focusIndex is the focus routine: center overlay, capped neighbor glow,
// edge highlight, camera flight, focus event.
func (s *Scene) focusIndex(i int) {
	if i < 0 || i >= s.st.Len() {
		return
	}
	id := s.st.IDAt(i)
	s.focusID = id

	s.refreshFocusOverlays(id)
	if s.focusGlow.Dropped() > 0 {
		slog.Debug("focus neighbor glow truncated", "id", id, "dropped", s.focusGlow.Dropped())
	}

	s.cam.FocusOn(s.st.PositionAt(i))

	if s.callbacks.Focus != nil {
		s.callbacks.Focus(id)
	}
}

func (s *Scene) clearFocusState() {
	s.focusID = ""
	s.focusCenter.Clear()
	s.focusGlow.Clear()
	s.edgeR.ClearHighlight()
}

// setVisibility applies the subset to the store and synchronizes the live
// rings in the same pass. Edge geometry depends on the visibility filter,
// so the renderer is marked for rebuild before the next draw.
func (s *Scene) setVisibility(indices []int) {
	s.st.SetVisibility(indices)
	s.rings.Set(s.st, s.st.VisibleActiveIndices())
	s.edgeR.MarkDirty()
}

func (s *Scene) frameAll() {
	n := s.st.Len()
	points := make([]components.Vec3, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, s.st.PositionAt(i))
	}
	s.cam.FrameAll(points)
}

// onHoverChanged updates the hover overlay and assembles tooltip data.
// Runs only on index change, never per move event.
func (s *Scene) onHoverChanged(index int) {
	if index < 0 {
		s.hover.Clear()
		s.hasTooltip = false
		return
	}
	s.hover.Set(s.st, []int{index})
	s.tooltip = s.st.DisplayData(index)
	s.hasTooltip = true
}

// Update runs one frame of input handling and animation. Nothing else
// runs per frame; all heavy recomputation is event-driven.
func (s *Scene) Update() {
	if s.disposed {
		return
	}
	s.perf.StartFrame()

	s.perf.StartPhase(telemetry.PhaseInput)
	s.handleInput()

	s.perf.StartPhase(telemetry.PhaseAdvance)
	s.cam.Advance()

	s.perf.StartPhase(telemetry.PhaseEdges)
	s.edgeR.Refresh(s.st)

	s.perf.StartPhase(telemetry.PhaseTransforms)
	if s.st.Generation() != s.uploadedGen {
		s.rebuildTransforms()
	}
}

// Dispose releases all owned resources and detaches the scene from its
// window inputs. Idempotent.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	s.unloadRenderResources()
	s.st.Dispose()
	s.edgeR.ClearHighlight()
	s.hover.Clear()
	s.focusCenter.Clear()
	s.focusGlow.Clear()
	s.searchGlow.Clear()
	s.rings.Clear()
	s.graph = nil
	s.conns = nil
	s.transforms = nil
}
