package render

import "github.com/gdamore/tcell/v2"

// Color is a normalized RGBA color, each channel in [0, 1]
type Color struct {
	R, G, B, A float32
}

var (
	Black = Color{R: 0, G: 0, B: 0, A: 1}
	White = Color{R: 1, G: 1, B: 1, A: 1}
)

// Visible reports whether the color paints anything
func (c Color) Visible() bool {
	return c.A > 0
}

// TCell converts to a truecolor tcell color
func (c Color) TCell() tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) int32 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int32(v*255 + 0.5)
}
