package component

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/scenery/audio"
	"github.com/lixenwraith/scenery/catalog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func meshPayload() map[string]any {
	return map[string]any{
		"x": float64(1), "y": float64(2), "width": float64(10), "height": float64(4),
		"r": 1.0, "g": 0.5, "b": 0.0, "a": 1.0, "stroke_width": 1.0,
	}
}

func textPayload() map[string]any {
	return map[string]any{
		"content":    []any{"Hello", "World"},
		"position_x": float64(20), "position_y": float64(5),
		"bounds_x": float64(30), "bounds_y": float64(3),
		"size": float64(20),
		"r":    1.0, "g": 1.0, "b": 1.0, "a": 1.0,
		"font": "normal",
	}
}

func animationPayload(image string) map[string]any {
	return map[string]any{
		"image":         image,
		"current_frame": float64(2),
		"start_frame":   float64(1),
		"end_frame":     float64(3),
		"total_frames":  float64(4),
		"dimensions_x":  float64(8),
		"dimensions_y":  float64(2),
		"scale_x":       1.0,
		"scale_y":       1.0,
	}
}

func TestMeshGraphicLoader(t *testing.T) {
	w := newWorld()
	l, err := DefaultMux().Resolve(load.New(MeshGraphicID, meshPayload()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Name() != "Mesh Graphic" {
		t.Errorf("Unexpected name %q", l.Name())
	}

	e := attachOne(t, w, l)
	store, _ := engine.GetStore[MeshGraphicComponent](w)
	mg, ok := store.Get(e)
	if !ok || mg.Mesh.Len() != 1 {
		t.Fatalf("Expected mesh with one shape, got %+v", mg)
	}
	want := render.Rectangle{X: 1, Y: 2, Width: 10, Height: 4}
	if got := mg.Mesh.Bounds(0); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// every field is required
	bad := meshPayload()
	delete(bad, "stroke_width")
	if err := l.Update(load.New(MeshGraphicID, bad)); err == nil {
		t.Error("Expected error for missing stroke_width")
	}
}

func TestTextDisplayLoader(t *testing.T) {
	w := newWorld()
	l, err := NewTextDisplayLoader(load.New(TextDisplayID, textPayload()))
	if err != nil {
		t.Fatalf("NewTextDisplayLoader: %v", err)
	}

	e := attachOne(t, w, l)
	store, _ := engine.GetStore[TextDisplayComponent](w)
	td, _ := store.Get(e)

	if td.Position != (mgl32.Vec2{20, 5}) || td.Bounds != (mgl32.Vec2{30, 3}) {
		t.Errorf("Unexpected geometry %v %v", td.Position, td.Bounds)
	}
	if td.Horizontal != render.AlignCenter || td.Vertical != render.AlignMiddle {
		t.Error("Expected centered alignment")
	}

	line, ok := td.Line(0)
	if !ok || line.Content != "Hello" || line.Color != render.White {
		t.Errorf("Unexpected first line %+v", line)
	}
	if _, ok := td.Line(2); ok {
		t.Error("Expected no third line")
	}
}

func TestTextDisplayValidation(t *testing.T) {
	empty := textPayload()
	empty["content"] = []any{}

	_, err := NewTextDisplayLoader(load.New(TextDisplayID, empty))
	var conv *load.ConversionError
	if !errors.As(err, &conv) || !strings.Contains(err.Error(), "no lines") {
		t.Fatalf("Expected ConversionError about empty content, got %v", err)
	}
}

func TestAnimationFromCatalog(t *testing.T) {
	w := newWorld()
	images := catalog.NewImageCatalog()
	strip := &render.Image{Width: 8, Height: 2, Cells: make([]render.Cell, 16)}
	images.Add("hero", strip)
	engine.AddResource(w.Resources, images)

	l, err := NewAnimationLoader(load.New(AnimationID, animationPayload("hero")))
	if err != nil {
		t.Fatalf("NewAnimationLoader: %v", err)
	}
	e := attachOne(t, w, l)

	store, _ := engine.GetStore[AnimationComponent](w)
	anim, _ := store.Get(e)
	if anim.Image != strip {
		t.Error("Expected the catalog image handle")
	}
}

func TestAnimationFallbackLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "hero.png", 8, 4)

	w := newWorld()
	engine.AddResource(w.Resources, load.Paths{Root: dir})

	l, err := NewAnimationLoader(load.New(AnimationID, animationPayload("hero.png")))
	if err != nil {
		t.Fatalf("NewAnimationLoader: %v", err)
	}
	e := attachOne(t, w, l)

	store, _ := engine.GetStore[AnimationComponent](w)
	anim, _ := store.Get(e)
	if anim.Image == nil || anim.Image.Width != 8 || anim.Image.Height != 2 {
		t.Fatalf("Expected freshly loaded 8x2 image, got %+v", anim.Image)
	}

	missing, err := NewAnimationLoader(load.New(AnimationID, animationPayload("ghost.png")))
	if err != nil {
		t.Fatalf("NewAnimationLoader: %v", err)
	}
	_, err = missing.Attach(w.NewEntity(), w, nil)
	var fe *load.FileError
	if !errors.As(err, &fe) || !strings.HasSuffix(fe.Path, "ghost.png") {
		t.Errorf("Expected FileError naming ghost.png, got %v", err)
	}
}

func TestAnimationNextSpriteWraps(t *testing.T) {
	anim := &AnimationComponent{
		CurrentFrame: 2,
		StartFrame:   1,
		EndFrame:     3,
		TotalFrames:  4,
		Dimensions:   [2]uint16{8, 2},
		Scale:        mgl32.Vec2{1, 1},
	}
	pos := PositionComponent{X: 5, Y: 6}

	var xs []int
	for i := 0; i < 4; i++ {
		s := anim.NextSprite(pos)
		xs = append(xs, s.Source.X)
		if s.Source.Width != 2 || s.Source.Height != 2 {
			t.Fatalf("Expected 2x2 frames, got %+v", s.Source)
		}
		if s.Position != (mgl32.Vec2{5, 6}) {
			t.Fatalf("Expected sprite at position, got %v", s.Position)
		}
	}

	// frames 2, 3, then wrap to 1, 2
	want := []int{2, 4, 0, 2}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("Expected source x %v, got %v", want, xs)
		}
	}
}

func TestAnimationValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"Zero frames", "total_frames", float64(0)},
		{"Current before start", "current_frame", float64(0)},
		{"End past total", "end_frame", float64(5)},
		{"Narrow strip", "dimensions_x", float64(3)},
		{"Zero scale", "scale_x", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := animationPayload("hero")
			payload[tt.field] = tt.value
			_, err := NewAnimationLoader(load.New(AnimationID, payload))
			var conv *load.ConversionError
			if !errors.As(err, &conv) {
				t.Fatalf("Expected %s=%v rejected with ConversionError, got %v", tt.field, tt.value, err)
			}
			if conv.IntoType != "component.animationJSON" {
				t.Errorf("Expected target type name, got %q", conv.IntoType)
			}
		})
	}
}

func TestSoundFromController(t *testing.T) {
	w := newWorld()
	ctrl := audio.NewController(1)
	clip, err := audio.ToneClip(440, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ToneClip: %v", err)
	}
	ctrl.AddClip("ping", clip)
	engine.AddResource(w.Resources, ctrl)

	l, err := DefaultMux().Resolve(load.New(SoundID, map[string]any{"clip": "ping", "volume": 0.25}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	e := attachOne(t, w, l)

	store, _ := engine.GetStore[SoundComponent](w)
	snd, _ := store.Get(e)
	if snd.Buffer != clip || snd.Volume != 0.25 {
		t.Errorf("Unexpected sound component %+v", snd)
	}
}

// Without a controller or a path the clip stays unresolved until playback
func TestSoundDeferredByName(t *testing.T) {
	w := newWorld()
	l, err := NewSoundLoader(load.New(SoundID, map[string]any{"clip": "ping"}))
	if err != nil {
		t.Fatalf("NewSoundLoader: %v", err)
	}
	e := attachOne(t, w, l)

	store, _ := engine.GetStore[SoundComponent](w)
	snd, _ := store.Get(e)
	if snd.Clip != "ping" || snd.Buffer != nil || snd.Volume != 1 {
		t.Errorf("Unexpected sound component %+v", snd)
	}
}

func TestSoundMissingClip(t *testing.T) {
	w := newWorld()
	engine.AddResource(w.Resources, load.Paths{Root: t.TempDir()})

	l, err := NewSoundLoader(load.New(SoundID, map[string]any{"clip": "ping", "path": "missing.wav"}))
	if err != nil {
		t.Fatalf("NewSoundLoader: %v", err)
	}
	_, err = l.Attach(w.NewEntity(), w, nil)
	if err == nil || !strings.Contains(err.Error(), `sound clip "ping"`) {
		t.Errorf("Expected clip error, got %v", err)
	}

	if _, err := NewSoundLoader(load.New(SoundID, map[string]any{"clip": "ping", "volume": 2.0})); err == nil {
		t.Error("Expected volume above 1 to be rejected")
	}
}
