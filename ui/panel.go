package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/oddscape/oddscape/store"
)

const (
	panelWidth  = 272
	maxQueryLen = 48
)

// Events is what the panel asked for this frame; the scene consumes it.
type Events struct {
	Search   bool
	Clear    bool
	Criteria store.Criteria
}

// Panel is the left-side search and detail panel.
type Panel struct {
	renderer *Renderer

	query      string
	editing    bool
	liveOnly   bool
	minProfit  float32
	maxRisk    float32
	minConfid  float32

	height int32
}

// NewPanel creates the search panel.
func NewPanel() *Panel {
	return &Panel{
		renderer:  NewRenderer(),
		maxRisk:   1,
		minProfit: 0,
		minConfid: 0,
	}
}

// WantsPointer reports whether the pointer is over the panel, so the
// scene can keep panel clicks from orbiting or selecting.
func (p *Panel) WantsPointer(x, y float32) bool {
	return x <= panelWidth && y <= float32(p.height)
}

// Criteria builds the search criteria from the current control state.
// Sliders at their neutral end contribute no predicate.
func (p *Panel) Criteria() store.Criteria {
	c := store.Criteria{IDContains: p.query}
	if p.liveOnly {
		live := true
		c.Live = &live
	}
	if p.minProfit > 0 {
		v := p.minProfit
		c.MinProfit = &v
	}
	if p.maxRisk < 1 {
		v := p.maxRisk
		c.MaxRisk = &v
	}
	if p.minConfid > 0 {
		v := p.minConfid
		c.MinConfidence = &v
	}
	return c
}

// Draw renders the panel and handles its input. matchCount is the last
// search result count (-1 when no search is active); focused is the
// detail record for the focused entity, or nil.
func (p *Panel) Draw(screenH int32, matchCount int, focused *store.DisplayData) Events {
	var ev Events
	r := p.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight

	p.height = screenH
	r.DrawPanel(0, 0, panelWidth, screenH)

	x := pad
	y := pad
	w := int32(panelWidth) - 2*pad

	y = r.DrawSectionHeader(x, y, "Search")

	p.handleQueryInput()
	p.drawQueryBox(x, y, w)
	y += lh + 10

	p.liveOnly = gui.CheckBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16}, "Live only", p.liveOnly)
	y += lh + 4

	rl.DrawText("Min profit", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh - 4
	p.minProfit = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w - 44), Height: 14},
		"", fmt.Sprintf("%.2f", p.minProfit), p.minProfit, 0, 1)
	y += lh

	rl.DrawText("Max risk", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh - 4
	p.maxRisk = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w - 44), Height: 14},
		"", fmt.Sprintf("%.2f", p.maxRisk), p.maxRisk, 0, 1)
	y += lh

	rl.DrawText("Min confidence", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lh - 4
	p.minConfid = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w - 44), Height: 14},
		"", fmt.Sprintf("%.2f", p.minConfid), p.minConfid, 0, 1)
	y += lh + 6

	half := float32(w-8) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 26}, "Search") {
		ev.Search = true
		ev.Criteria = p.Criteria()
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 8, Y: float32(y), Width: half, Height: 26}, "Clear") {
		ev.Clear = true
	}
	y += 26 + pad

	if matchCount >= 0 {
		y = r.DrawLabelValue(x, y, "Matches", fmt.Sprintf("%d", matchCount))
	}

	if focused != nil {
		y += pad
		y = p.drawDetail(x, y, w, focused)
	}

	// Help footer.
	fy := screenH - 5*lh - pad
	fy = r.DrawHint(x, fy, "drag: orbit   wheel: zoom")
	fy = r.DrawHint(x, fy, "click: focus   esc: clear")
	fy = r.DrawHint(x, fy, "f: frame all")
	_ = fy

	return ev
}

// handleQueryInput consumes typed characters while the query box has
// focus. Enter is left for the Search button; the scene reads it too.
func (p *Panel) handleQueryInput() {
	if !p.editing {
		return
	}
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if len(p.query) < maxQueryLen && ch >= 32 && ch < 127 {
			p.query += string(ch)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(p.query) > 0 {
		p.query = p.query[:len(p.query)-1]
	}
}

func (p *Panel) drawQueryBox(x, y, w int32) {
	box := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(p.renderer.Theme.LineHeight + 4)}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		mouse := rl.GetMousePosition()
		p.editing = rl.CheckCollisionPointRec(mouse, box)
	}

	border := p.renderer.Theme.PanelBorder
	if p.editing {
		border = p.renderer.Theme.AccentColor
	}
	rl.DrawRectangleRec(box, rl.Color{R: 28, G: 31, B: 40, A: 255})
	rl.DrawRectangleLinesEx(box, 1, border)

	text := p.query
	if text == "" && !p.editing {
		rl.DrawText("id contains...", x+6, y+4, p.renderer.Theme.FontSize, p.renderer.Theme.DimColor)
	} else {
		cursor := ""
		if p.editing {
			cursor = "_"
		}
		rl.DrawText(text+cursor, x+6, y+4, p.renderer.Theme.FontSize, p.renderer.Theme.ValueColor)
	}
}

// Editing reports whether the query box has keyboard focus, so global
// key shortcuts can be suppressed while typing.
func (p *Panel) Editing() bool {
	return p.editing
}

// QuerySubmitted reports Enter pressed while editing the query box.
func (p *Panel) QuerySubmitted() bool {
	return p.editing && rl.IsKeyPressed(rl.KeyEnter)
}

func (p *Panel) drawDetail(x, y, w int32, d *store.DisplayData) int32 {
	r := p.renderer

	y = r.DrawSectionHeader(x, y, "Focused")
	y = r.DrawLabelValue(x, y, "ID", d.ID)
	y = r.DrawLabelValue(x, y, "Category", d.Category)
	live := "no"
	if d.Live {
		live = "yes"
	}
	y = r.DrawLabelValue(x, y, "Live", live)
	y = r.DrawMetricBar(x, y, "Profit", d.Metrics.Profit, w)
	y = r.DrawMetricBar(x, y, "Risk", d.Metrics.Risk, w)
	y = r.DrawMetricBar(x, y, "Confidence", d.Metrics.Confidence, w)
	y = r.DrawMetricBar(x, y, "Volume", d.Metrics.Volume, w)

	for _, key := range []string{"home_team", "away_team", "market_type", "date", "books"} {
		if v, ok := d.Metadata[key]; ok {
			y = r.DrawLabelValue(x, y, key, v)
		}
	}
	return y
}
