package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Rect selects a region of an image in cells
type Rect struct {
	X, Y, Width, Height int
}

// Sprite draws a region of an image at a position with a scale
type Sprite struct {
	Source   Rect
	Position mgl32.Vec2
	Scale    mgl32.Vec2
}

// Size returns the drawn size in cells
func (s Sprite) Size() (int, int) {
	return round(float32(s.Source.Width) * s.Scale.X()), round(float32(s.Source.Height) * s.Scale.Y())
}

// DrawSprite copies the sprite region using nearest-neighbor scaling
// Transparent cells keep whatever is already on the frame
func (f *Frame) DrawSprite(img *Image, s Sprite) {
	if img == nil || s.Scale.X() <= 0 || s.Scale.Y() <= 0 {
		return
	}
	w, h := s.Size()
	ox, oy := round(s.Position.X()), round(s.Position.Y())

	for dy := 0; dy < h; dy++ {
		sy := s.Source.Y + int(float32(dy)/s.Scale.Y())
		for dx := 0; dx < w; dx++ {
			sx := s.Source.X + int(float32(dx)/s.Scale.X())
			cell := img.At(sx, sy)
			if cell.Rune == 0 {
				continue
			}
			style := cell.Style
			if _, bg, _ := style.Decompose(); bg == tcell.ColorDefault {
				style = style.Background(f.background)
			}
			f.SetCell(ox+dx, oy+dy, cell.Rune, style)
		}
	}
}
