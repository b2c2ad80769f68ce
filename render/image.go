package render

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

const (
	upperHalf = '▀'
	lowerHalf = '▄'
	// Alpha below this is treated as a transparent pixel
	alphaCutoff = 0x8000
)

// Cell is one terminal cell of a converted image, Rune 0 is transparent
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Image is a bitmap converted to terminal cells
// Each cell covers two vertical source pixels using half blocks
type Image struct {
	Cells  []Cell
	Width  int
	Height int
}

// At returns the cell at x, y or a transparent cell when out of range
func (img *Image) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return Cell{}
	}
	return img.Cells[y*img.Width+x]
}

// ConvertImage maps every source column to a cell and every pair of rows to one cell row
func ConvertImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return &Image{}
	}

	outH := (h + 1) / 2
	cells := make([]Cell, w*outH)

	for cy := 0; cy < outH; cy++ {
		for cx := 0; cx < w; cx++ {
			top, topOK := sample(src, bounds.Min.X+cx, bounds.Min.Y+cy*2)
			bottom, bottomOK := tcell.ColorDefault, false
			if cy*2+1 < h {
				bottom, bottomOK = sample(src, bounds.Min.X+cx, bounds.Min.Y+cy*2+1)
			}

			var c Cell
			switch {
			case topOK && bottomOK:
				c = Cell{Rune: upperHalf, Style: tcell.StyleDefault.Foreground(top).Background(bottom)}
			case topOK:
				c = Cell{Rune: upperHalf, Style: tcell.StyleDefault.Foreground(top)}
			case bottomOK:
				c = Cell{Rune: lowerHalf, Style: tcell.StyleDefault.Foreground(bottom)}
			}
			cells[cy*w+cx] = c
		}
	}

	return &Image{Cells: cells, Width: w, Height: outH}
}

func sample(src image.Image, x, y int) (tcell.Color, bool) {
	c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
	if c.A < alphaCutoff {
		return tcell.ColorDefault, false
	}
	return tcell.NewRGBColor(int32(c.R>>8), int32(c.G>>8), int32(c.B>>8)), true
}
