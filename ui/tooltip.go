package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/oddscape/oddscape/store"
)

// DrawTooltip renders the hover tooltip near the pointer, clamped to the
// screen.
func (r *Renderer) DrawTooltip(d store.DisplayData, mouseX, mouseY, screenW, screenH float32) {
	lines := []string{
		d.ID,
		fmt.Sprintf("%s  profit %.2f  risk %.2f", d.Category, d.Metrics.Profit, d.Metrics.Risk),
		fmt.Sprintf("confidence %.2f  volume %.2f", d.Metrics.Confidence, d.Metrics.Volume),
	}
	if home, ok := d.Metadata["home_team"]; ok {
		if away, ok := d.Metadata["away_team"]; ok {
			lines = append(lines, home+" vs "+away)
		}
	}
	if mt, ok := d.Metadata["market_type"]; ok {
		lines = append(lines, mt)
	}
	if d.Live {
		lines = append(lines, "LIVE")
	}

	width := int32(0)
	for _, l := range lines {
		if w := rl.MeasureText(l, r.Theme.FontSize); w > width {
			width = w
		}
	}
	pad := r.Theme.Padding
	w := width + 2*pad
	h := int32(len(lines))*r.Theme.LineHeight + 2*pad

	x := int32(mouseX) + 16
	y := int32(mouseY) + 16
	if x+w > int32(screenW) {
		x = int32(screenW) - w
	}
	if y+h > int32(screenH) {
		y = int32(screenH) - h
	}

	r.DrawPanel(x, y, w, h)
	ty := y + pad
	for i, l := range lines {
		color := r.Theme.ValueColor
		if i == 0 {
			color = r.Theme.AccentColor
		}
		rl.DrawText(l, x+pad, ty, r.Theme.FontSize, color)
		ty += r.Theme.LineHeight
	}
}
