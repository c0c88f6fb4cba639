package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles panel drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the next Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line, returns next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawHint draws dim helper text, returns next Y.
func (r *Renderer) DrawHint(x, y int32, text string) int32 {
	rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.DimColor)
	return y + r.Theme.LineHeight
}

// DrawMetricBar draws a labelled [0,1] bar, returns next Y.
func (r *Renderer) DrawMetricBar(x, y int32, label string, value float32, width int32) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)

	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - 48
	barH := r.Theme.LineHeight - 6
	rl.DrawRectangle(barX, y, barW, barH, rl.Color{R: 38, G: 42, B: 52, A: 255})
	rl.DrawRectangle(barX, y, int32(float32(barW)*value), barH, r.Theme.AccentColor)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barW+6, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight
}
