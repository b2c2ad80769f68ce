package component

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/scenery/catalog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const AnimationID = "animation"

type animationJSON struct {
	Image        string  `json:"image"`
	CurrentFrame uint16  `json:"current_frame"`
	StartFrame   uint16  `json:"start_frame"`
	EndFrame     uint16  `json:"end_frame"`
	TotalFrames  uint16  `json:"total_frames"`
	DimensionsX  uint16  `json:"dimensions_x"`
	DimensionsY  uint16  `json:"dimensions_y"`
	ScaleX       float32 `json:"scale_x"`
	ScaleY       float32 `json:"scale_y"`
}

// AnimationComponent plays frames laid out left to right in one image strip
// Frames are 1-indexed
type AnimationComponent struct {
	Image        *render.Image
	ImageName    string
	CurrentFrame uint16
	StartFrame   uint16
	EndFrame     uint16
	TotalFrames  uint16
	Dimensions   [2]uint16
	Scale        mgl32.Vec2
}

// DrawableComponent is the sprite an animation produced for the current tick
type DrawableComponent struct {
	Image  *render.Image
	Sprite render.Sprite
}

// NextSprite returns the sprite for the current frame at pos and advances,
// wrapping from the end frame back to the start frame
func (a *AnimationComponent) NextSprite(pos PositionComponent) render.Sprite {
	frameWidth := int(a.Dimensions[0] / a.TotalFrames)
	s := render.Sprite{
		Source: render.Rect{
			X:      frameWidth * int(a.CurrentFrame-1),
			Y:      0,
			Width:  frameWidth,
			Height: int(a.Dimensions[1]),
		},
		Position: mgl32.Vec2{float32(pos.X), float32(pos.Y)},
		Scale:    a.Scale,
	}

	a.CurrentFrame++
	if a.CurrentFrame > a.EndFrame {
		a.CurrentFrame = a.StartFrame
	}
	return s
}

func validateAnimation(j animationJSON) error {
	switch {
	case j.Image == "":
		return errors.New("image is empty")
	case j.TotalFrames == 0:
		return errors.New("total_frames must be positive")
	case j.StartFrame < 1 || j.StartFrame > j.EndFrame || j.EndFrame > j.TotalFrames:
		return fmt.Errorf("frame range %d..%d outside 1..%d", j.StartFrame, j.EndFrame, j.TotalFrames)
	case j.CurrentFrame < j.StartFrame || j.CurrentFrame > j.EndFrame:
		return fmt.Errorf("current_frame %d outside %d..%d", j.CurrentFrame, j.StartFrame, j.EndFrame)
	case j.DimensionsX < j.TotalFrames:
		return fmt.Errorf("dimensions_x %d narrower than %d frames", j.DimensionsX, j.TotalFrames)
	case j.ScaleX <= 0 || j.ScaleY <= 0:
		return errors.New("scale must be positive")
	}
	return nil
}

// AnimationLoader resolves its image at attach time
type AnimationLoader struct {
	payload *cached[animationJSON]
}

// NewAnimationLoader validates an animation envelope; the image is not touched yet
func NewAnimationLoader(env load.Envelope) (Loader, error) {
	payload, err := newCached(AnimationID, env, validateAnimation)
	if err != nil {
		return nil, err
	}
	return &AnimationLoader{payload: payload}, nil
}

// Attach looks the image up in the shared catalog by name and falls back to
// loading the name as a path when the catalog is absent or lacks it
func (l *AnimationLoader) Attach(eb *engine.EntityBuilder, w *engine.World, _ render.Window) (*engine.EntityBuilder, error) {
	j := l.payload.get()

	img, err := resolveImage(w, j.Image)
	if err != nil {
		return eb, fmt.Errorf("animation image %q: %w", j.Image, err)
	}

	eb = engine.With(eb, AnimationComponent{
		Image:        img,
		ImageName:    j.Image,
		CurrentFrame: j.CurrentFrame,
		StartFrame:   j.StartFrame,
		EndFrame:     j.EndFrame,
		TotalFrames:  j.TotalFrames,
		Dimensions:   [2]uint16{j.DimensionsX, j.DimensionsY},
		Scale:        mgl32.Vec2{j.ScaleX, j.ScaleY},
	})
	return eb, eb.Err()
}

func (l *AnimationLoader) Update(env load.Envelope) error {
	return l.payload.update(env)
}

func (l *AnimationLoader) Envelope() load.Envelope {
	return l.payload.envelope()
}

func (l *AnimationLoader) Name() string {
	return "Animation"
}

func resolveImage(w *engine.World, name string) (*render.Image, error) {
	paths, _ := engine.GetResource[load.Paths](w.Resources)
	path := paths.Resolve(name)

	if images, ok := engine.GetResource[*catalog.ImageCatalog](w.Resources); ok {
		return images.LoadOrGet(name, path)
	}
	return catalog.LoadImage(path)
}
