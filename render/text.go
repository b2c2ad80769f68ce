package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// HorizontalAlignment anchors a line of text around its position
type HorizontalAlignment uint8

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
)

// VerticalAlignment places a line within the height of its bounds
type VerticalAlignment uint8

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

// Text is a single line of drawable text
// Size is carried for surfaces that scale glyphs; terminal cells are fixed height
type Text struct {
	Content    string
	Position   mgl32.Vec2
	Bounds     mgl32.Vec2
	Size       float32
	Color      Color
	Horizontal HorizontalAlignment
	Vertical   VerticalAlignment
}

// Layout returns the origin cell and the clipped runes of the line
func (t Text) Layout() (x, y int, runes []rune) {
	runes = []rune(t.Content)
	if limit := int(t.Bounds.X()); limit > 0 && len(runes) > limit {
		runes = runes[:limit]
	}

	x = round(t.Position.X())
	switch t.Horizontal {
	case AlignCenter:
		x -= len(runes) / 2
	case AlignRight:
		x -= len(runes)
	}

	y = round(t.Position.Y())
	half := int(t.Bounds.Y()) / 2
	switch t.Vertical {
	case AlignTop:
		y -= half
	case AlignBottom:
		if half > 0 {
			y += half - 1
		}
	}
	return x, y, runes
}

// DrawText writes a line using the given base style, the text color overrides its foreground
func (f *Frame) DrawText(t Text, style tcell.Style) {
	if !t.Color.Visible() {
		return
	}
	style = style.Foreground(t.Color.TCell())
	if _, bg, _ := style.Decompose(); bg == tcell.ColorDefault {
		style = style.Background(f.background)
	}

	x, y, runes := t.Layout()
	for i, r := range runes {
		f.SetCell(x+i, y, r, style)
	}
}
