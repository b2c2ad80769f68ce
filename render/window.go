package render

import "github.com/gdamore/tcell/v2"

// Window is the drawing surface loaders and scenes are handed
// Loaders only read it; scenes draw through a Frame
type Window interface {
	Size() (width, height int)
}

// TerminalWindow adapts a tcell screen to Window
type TerminalWindow struct {
	screen tcell.Screen
}

// NewTerminalWindow wraps an initialized tcell screen
func NewTerminalWindow(screen tcell.Screen) *TerminalWindow {
	return &TerminalWindow{screen: screen}
}

// Size returns the screen dimensions in cells
func (w *TerminalWindow) Size() (int, int) {
	return w.screen.Size()
}

// Screen returns the underlying tcell screen
func (w *TerminalWindow) Screen() tcell.Screen {
	return w.screen
}

// Frame returns a drawing target for one tick
func (w *TerminalWindow) Frame() *Frame {
	return &Frame{screen: w.screen, background: tcell.ColorDefault}
}

// Frame is one tick's drawing target
type Frame struct {
	screen     tcell.Screen
	background tcell.Color
}

// NewFrame wraps a screen directly, used by tests and tools
func NewFrame(screen tcell.Screen) *Frame {
	return &Frame{screen: screen, background: tcell.ColorDefault}
}

// Size returns the frame dimensions in cells
func (f *Frame) Size() (int, int) {
	return f.screen.Size()
}

// Clear fills the frame with a background color
func (f *Frame) Clear(c Color) {
	f.background = c.TCell()
	f.screen.Fill(' ', tcell.StyleDefault.Background(f.background))
}

// Background returns the color of the last Clear
func (f *Frame) Background() tcell.Color {
	return f.background
}

// SetCell writes one cell, silently clipping outside the frame
func (f *Frame) SetCell(x, y int, r rune, style tcell.Style) {
	w, h := f.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	f.screen.SetContent(x, y, r, nil, style)
}

// Present flushes the frame to the terminal
func (f *Frame) Present() {
	f.screen.Show()
}
