package component

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const TextDisplayID = "text_display"

type textDisplayJSON struct {
	Content   []string `json:"content"`
	PositionX float32  `json:"position_x"`
	PositionY float32  `json:"position_y"`
	BoundsX   float32  `json:"bounds_x"`
	BoundsY   float32  `json:"bounds_y"`
	Size      float32  `json:"size"`
	R         float32  `json:"r"`
	G         float32  `json:"g"`
	B         float32  `json:"b"`
	A         float32  `json:"a"`
	Font      string   `json:"font"`
}

// TextDisplayComponent is text drawn centered on a point, styled by a named font
type TextDisplayComponent struct {
	Content    []string
	Position   mgl32.Vec2
	Bounds     mgl32.Vec2
	Size       float32
	Color      render.Color
	Horizontal render.HorizontalAlignment
	Vertical   render.VerticalAlignment
	Font       string
}

// Line returns line i as a drawable text
func (t TextDisplayComponent) Line(i int) (render.Text, bool) {
	if i < 0 || i >= len(t.Content) {
		return render.Text{}, false
	}
	return render.Text{
		Content:    t.Content[i],
		Position:   t.Position,
		Bounds:     t.Bounds,
		Size:       t.Size,
		Color:      t.Color,
		Horizontal: t.Horizontal,
		Vertical:   t.Vertical,
	}, true
}

func (j textDisplayJSON) build() TextDisplayComponent {
	return TextDisplayComponent{
		Content:    append([]string(nil), j.Content...),
		Position:   mgl32.Vec2{j.PositionX, j.PositionY},
		Bounds:     mgl32.Vec2{j.BoundsX, j.BoundsY},
		Size:       j.Size,
		Color:      render.Color{R: j.R, G: j.G, B: j.B, A: j.A},
		Horizontal: render.AlignCenter,
		Vertical:   render.AlignMiddle,
		Font:       j.Font,
	}
}

func validateTextDisplay(j textDisplayJSON) error {
	if len(j.Content) == 0 {
		return errors.New("content has no lines")
	}
	if j.Font == "" {
		return errors.New("font is empty")
	}
	return nil
}

// TextDisplayLoader derives points and colors from flat text fields
type TextDisplayLoader struct {
	payload *cached[textDisplayJSON]
}

// NewTextDisplayLoader validates a text_display envelope
func NewTextDisplayLoader(env load.Envelope) (Loader, error) {
	payload, err := newCached(TextDisplayID, env, validateTextDisplay)
	if err != nil {
		return nil, err
	}
	return &TextDisplayLoader{payload: payload}, nil
}

func (l *TextDisplayLoader) Attach(eb *engine.EntityBuilder, _ *engine.World, _ render.Window) (*engine.EntityBuilder, error) {
	eb = engine.With(eb, l.payload.get().build())
	return eb, eb.Err()
}

func (l *TextDisplayLoader) Update(env load.Envelope) error {
	return l.payload.update(env)
}

func (l *TextDisplayLoader) Envelope() load.Envelope {
	return l.payload.envelope()
}

func (l *TextDisplayLoader) Name() string {
	return "Text Display"
}
