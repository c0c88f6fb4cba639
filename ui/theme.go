// Package ui renders the 2D chrome over the 3D scene: the search panel,
// the hover tooltip and the focus detail panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds shared styling for all panels.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	AccentColor   rl.Color
	DimColor      rl.Color

	FontSize       int32
	HeaderFontSize int32
	LineHeight     int32
	Padding        int32
	LabelWidth     int32
}

// DefaultTheme returns the standard dark theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 16, G: 18, B: 24, A: 225},
		PanelBorder:   rl.Color{R: 70, G: 76, B: 92, A: 255},
		SectionHeader: rl.Color{R: 200, G: 205, B: 215, A: 255},
		LabelColor:    rl.Color{R: 150, G: 155, B: 165, A: 255},
		ValueColor:    rl.Color{R: 225, G: 228, B: 235, A: 255},
		AccentColor:   rl.Color{R: 255, G: 203, B: 70, A: 255},
		DimColor:      rl.Color{R: 95, G: 100, B: 110, A: 255},

		FontSize:       14,
		HeaderFontSize: 16,
		LineHeight:     20,
		Padding:        10,
		LabelWidth:     110,
	}
}
