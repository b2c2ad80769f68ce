package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Rectangle is an axis-aligned area in cell coordinates
type Rectangle struct {
	X, Y, Width, Height float32
}

type stroke struct {
	rect  Rectangle
	color Color
	width float32
}

// Mesh is a drawable description built from stroked shapes
type Mesh struct {
	strokes []stroke
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{}
}

// Stroke adds the outline of a rectangle
// Widths below 2 use light box lines, wider strokes use heavy lines
func (m *Mesh) Stroke(r Rectangle, c Color, width float32) {
	m.strokes = append(m.strokes, stroke{rect: r, color: c, width: width})
}

// Len returns the number of shapes in the mesh
func (m *Mesh) Len() int {
	return len(m.strokes)
}

// Bounds returns the rectangle of the i-th shape
func (m *Mesh) Bounds(i int) Rectangle {
	return m.strokes[i].rect
}

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightBox = boxRunes{h: '─', v: '│', tl: '┌', tr: '┐', bl: '└', br: '┘'}
	heavyBox = boxRunes{h: '━', v: '┃', tl: '┏', tr: '┓', bl: '┗', br: '┛'}
)

// Draw strokes every shape onto the frame
func (m *Mesh) Draw(f *Frame) {
	for _, s := range m.strokes {
		if !s.color.Visible() || s.width <= 0 {
			continue
		}

		box := lightBox
		if s.width >= 2 {
			box = heavyBox
		}
		style := tcell.StyleDefault.Foreground(s.color.TCell()).Background(f.background)

		x0 := round(s.rect.X)
		y0 := round(s.rect.Y)
		x1 := round(s.rect.X+s.rect.Width) - 1
		y1 := round(s.rect.Y+s.rect.Height) - 1
		if x1 < x0 || y1 < y0 {
			continue
		}

		for x := x0 + 1; x < x1; x++ {
			f.SetCell(x, y0, box.h, style)
			f.SetCell(x, y1, box.h, style)
		}
		for y := y0 + 1; y < y1; y++ {
			f.SetCell(x0, y, box.v, style)
			f.SetCell(x1, y, box.v, style)
		}

		switch {
		case x0 == x1 && y0 == y1:
			f.SetCell(x0, y0, '■', style)
		case y0 == y1:
			f.SetCell(x0, y0, box.h, style)
			f.SetCell(x1, y0, box.h, style)
		case x0 == x1:
			f.SetCell(x0, y0, box.v, style)
			f.SetCell(x0, y1, box.v, style)
		default:
			f.SetCell(x0, y0, box.tl, style)
			f.SetCell(x1, y0, box.tr, style)
			f.SetCell(x0, y1, box.bl, style)
			f.SetCell(x1, y1, box.br, style)
		}
	}
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}
