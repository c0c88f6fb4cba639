package scene

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/overlay"
	"github.com/oddscape/oddscape/store"
	"github.com/oddscape/oddscape/telemetry"
)

// Instancing shader: per-instance transform attribute, single directional
// light evaluated in the fragment shader. colDiffuse comes from the
// material color raylib uploads per draw call.
const instancingVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
in mat4 instanceTransform;

uniform mat4 mvp;

out vec3 fragNormal;

void main()
{
    fragNormal = normalize(vec3(instanceTransform*vec4(vertexNormal, 0.0)));
    gl_Position = mvp*instanceTransform*vec4(vertexPosition, 1.0);
}
`

const instancingFS = `#version 330
in vec3 fragNormal;

uniform vec4 colDiffuse;

out vec4 finalColor;

void main()
{
    vec3 light = normalize(vec3(0.5, 0.8, 0.3));
    float ndl = max(dot(normalize(fragNormal), light), 0.0);
    finalColor = vec4(colDiffuse.rgb*(0.35 + 0.65*ndl), colDiffuse.a);
}
`

var (
	backgroundColor = rl.Color{R: 8, G: 10, B: 16, A: 255}
	gridColor       = rl.Color{R: 40, G: 44, B: 56, A: 255}
	edgeColor       = rl.Color{R: 130, G: 140, B: 160, A: 255}
	edgeFocusColor  = rl.Color{R: 255, G: 203, B: 70, A: 255}

	hoverColor    = rl.Color{R: 235, G: 238, B: 245, A: 110}
	focusColor    = rl.Color{R: 255, G: 203, B: 70, A: 160}
	neighborColor = rl.Color{R: 255, G: 150, B: 60, A: 110}
	glowColor     = rl.Color{R: 90, G: 220, B: 255, A: 90}
	ringColor     = rl.Color{R: 120, G: 255, B: 160, A: 200}
)

// initRenderResources builds the shared sphere primitive and the
// instancing shader. Called once from New, after the window exists.
func (s *Scene) initRenderResources() {
	// Unit-diameter sphere; instance scale is the world diameter, which
	// keeps picking radii and draw radii in the same units.
	s.mesh = rl.GenMeshSphere(0.5, 12, 18)

	s.shader = rl.LoadShaderFromMemory(instancingVS, instancingFS)
	s.shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(s.shader, "mvp"))
	s.shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(s.shader, "instanceTransform"))

	s.material = rl.LoadMaterialDefault()
	s.material.Shader = s.shader
	s.gpuReady = true
}

// unloadRenderResources releases the mesh, material and shader. The
// material's shader reference is detached first so the shader is freed
// exactly once.
func (s *Scene) unloadRenderResources() {
	if !s.gpuReady {
		return
	}
	s.gpuReady = false

	rl.UnloadMesh(&s.mesh)
	s.material.Shader = rl.Shader{}
	rl.UnloadMaterial(s.material)
	rl.UnloadShader(s.shader)
}

// rebuildTransforms re-uploads per-category instance matrices from the
// store. Runs only when the store generation changes, never per frame.
func (s *Scene) rebuildTransforms() {
	cats := s.st.CategoryCount()
	if cap(s.transforms) < cats {
		s.transforms = make([][]rl.Matrix, cats)
	}
	s.transforms = s.transforms[:cats]

	for c := 0; c < cats; c++ {
		batch := s.st.Batch(c)
		if cap(s.transforms[c]) < len(batch) {
			s.transforms[c] = make([]rl.Matrix, len(batch))
		}
		s.transforms[c] = s.transforms[c][:len(batch)]

		for slot, i := range batch {
			p := s.st.PositionAt(i)
			sc := s.st.RenderScaleAt(i)
			s.transforms[c][slot] = rl.MatrixMultiply(
				rl.MatrixScale(sc, sc, sc),
				rl.MatrixTranslate(p.X, p.Y, p.Z),
			)
		}
	}

	s.uploadedGen = s.st.Generation()
}

func (s *Scene) categoryColor(code int) rl.Color {
	p := s.cfg.Palette[code%len(s.cfg.Palette)]
	return rl.Color{R: p.R, G: p.G, B: p.B, A: 255}
}

// Draw renders one frame: 3D pass (entities, edges, overlays, reference
// geometry) then the 2D chrome.
func (s *Scene) Draw() {
	if s.disposed {
		return
	}

	s.perf.StartPhase(telemetry.PhaseDraw)
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	cam3d := rl.Camera3D{
		Position:   rl.NewVector3(s.cam.Position.X, s.cam.Position.Y, s.cam.Position.Z),
		Target:     rl.NewVector3(s.cam.LookAt.X, s.cam.LookAt.Y, s.cam.LookAt.Z),
		Up:         rl.NewVector3(s.cam.Up.X, s.cam.Up.Y, s.cam.Up.Z),
		Fovy:       s.cam.FovY,
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(cam3d)

	rl.DrawGrid(24, 2)
	s.drawAxes()

	for _, seg := range s.edgeR.Segments() {
		rl.DrawLine3D(vec3(seg.A), vec3(seg.B), rl.Fade(edgeColor, s.cfg.Edges.BaseAlpha))
	}
	for _, seg := range s.edgeR.HighlightSegments() {
		rl.DrawLine3D(vec3(seg.A), vec3(seg.B), edgeFocusColor)
	}

	for c := 0; c < len(s.transforms); c++ {
		if len(s.transforms[c]) == 0 {
			continue
		}
		s.material.Maps.Color = s.categoryColor(c)
		rl.DrawMeshInstanced(s.mesh, s.material, s.transforms[c], len(s.transforms[c]))
	}

	s.drawOverlays()

	rl.EndMode3D()

	s.perf.StartPhase(telemetry.PhaseUI)
	s.drawAxisLabels(cam3d)
	s.drawChrome()

	rl.EndDrawing()
	s.perf.EndFrame()
}

func (s *Scene) drawOverlays() {
	drawGlow := func(p *overlay.Pool, color rl.Color) {
		for _, inst := range p.Items() {
			rl.DrawSphereEx(vec3(inst.Position), inst.Scale*0.5, 10, 14, color)
		}
	}

	drawGlow(s.searchGlow, glowColor)
	drawGlow(s.focusGlow, neighborColor)
	drawGlow(s.focusCenter, focusColor)
	drawGlow(s.hover, hoverColor)

	// Live rings lie flat in the XZ plane around their entity.
	for _, inst := range s.rings.Items() {
		rl.DrawCircle3D(vec3(inst.Position), inst.Scale*0.5, rl.NewVector3(1, 0, 0), 90, ringColor)
	}
}

// Axis extents come from the affine maps so the reference geometry always
// bounds the metric space.
func (s *Scene) drawAxes() {
	ax := s.cfg.Axes
	origin := rl.NewVector3(ax.X.Offset, ax.Y.Offset, ax.Z.Offset)

	rl.DrawLine3D(origin, rl.NewVector3(ax.X.Apply(1), ax.Y.Offset, ax.Z.Offset), rl.Color{R: 200, G: 90, B: 90, A: 255})
	rl.DrawLine3D(origin, rl.NewVector3(ax.X.Offset, ax.Y.Apply(1), ax.Z.Offset), rl.Color{R: 90, G: 200, B: 90, A: 255})
	rl.DrawLine3D(origin, rl.NewVector3(ax.X.Offset, ax.Y.Offset, ax.Z.Apply(1)), rl.Color{R: 90, G: 120, B: 220, A: 255})
}

func (s *Scene) drawAxisLabels(cam3d rl.Camera3D) {
	ax := s.cfg.Axes
	labels := []struct {
		pos  rl.Vector3
		text string
	}{
		{rl.NewVector3(ax.X.Apply(1), ax.Y.Offset, ax.Z.Offset), "PROFIT"},
		{rl.NewVector3(ax.X.Offset, ax.Y.Apply(1), ax.Z.Offset), "CONFIDENCE"},
		{rl.NewVector3(ax.X.Offset, ax.Y.Offset, ax.Z.Apply(1)), "RISK"},
	}
	for _, l := range labels {
		sp := rl.GetWorldToScreen(l.pos, cam3d)
		if sp.X < 0 || sp.Y < 0 || sp.X > s.width || sp.Y > s.height {
			continue
		}
		rl.DrawText(l.text, int32(sp.X)+4, int32(sp.Y)-8, 12, gridColor)
	}
}

func (s *Scene) drawChrome() {
	var focused *store.DisplayData
	if s.focusID != "" {
		if i, ok := s.st.IndexOf(s.focusID); ok {
			d := s.st.DisplayData(i)
			focused = &d
		}
	}

	ev := s.panel.Draw(int32(s.height), s.matchCount, focused)
	if ev.Search || s.panel.QuerySubmitted() {
		crit := ev.Criteria
		if !ev.Search {
			crit = s.panel.Criteria()
		}
		s.submitSearch(crit)
	}
	if ev.Clear {
		s.ClearSearch()
	}

	if s.hasTooltip && !s.panel.WantsPointer(s.lastMouse.X, s.lastMouse.Y) {
		s.widgets.DrawTooltip(s.tooltip, s.lastMouse.X, s.lastMouse.Y, s.width, s.height)
	}

	stats := s.perf.Stats()
	rl.DrawText(fmt.Sprintf("%d entities | %.0f fps", s.st.Len(), stats.FPS),
		int32(s.width)-190, int32(s.height)-24, 14, gridColor)
}

func vec3(v components.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}
