// Package basic is the basic test scene: animated sprites and text boxes
// that run for a fixed number of frames, then print the basic components
package basic

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenery/assembly"
	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
	"github.com/lixenwraith/scenery/scene"
	"github.com/lixenwraith/scenery/system"
)

const (
	SceneID   = "basic_test_scene"
	LastFrame = 300
	Name      = "BASIC TEST SCENE"

	logEvery = 60
)

type values struct {
	Text  string `json:"text"`
	Frame int    `json:"frame"`
}

// Loader assembles the scene's entity files, then builds the scene
type Loader struct {
	resolver    assembly.Resolver
	paths       load.Paths
	entityPaths []string
	values      values
}

// Factory returns the scene.Factory for basic_test_scene envelopes
func Factory(r assembly.Resolver, paths load.Paths) scene.Factory {
	return func(env load.Envelope) (scene.Loader, error) {
		file, err := scene.DecodeFile(SceneID, env)
		if err != nil {
			return nil, err
		}
		v, err := load.Decode[values](file.SceneValues)
		if err != nil {
			return nil, err
		}
		if v.Frame < 0 || v.Frame > LastFrame {
			return nil, &load.ConversionError{
				Value:    file.SceneValues,
				IntoType: SceneID,
				Err:      fmt.Errorf("frame %d outside 0..%d", v.Frame, LastFrame),
			}
		}
		return &Loader{resolver: r, paths: paths, entityPaths: file.EntityPaths, values: v}, nil
	}
}

// Load builds every entity file first; the scene exists only once all succeed
func (l *Loader) Load(ctx context.Context, w *engine.World, win render.Window) (scene.Scene, error) {
	entities, err := assembly.LoadEntities(ctx, l.resolver, l.paths.ResolveAll(l.entityPaths), w, win)
	if err != nil {
		return nil, err
	}
	return &Scene{entities: entities, text: l.values.Text, frame: l.values.Frame}, nil
}

// Scene counts frames up to LastFrame; Esc or q ends it early
type Scene struct {
	entities []engine.Entity
	text     string
	frame    int
	quit     bool
}

func (s *Scene) Update(_ context.Context, w *engine.World) (scene.Transition, error) {
	s.frame++
	err := w.Write(func(w *engine.World) error {
		return engine.RunSystems(w, system.AnimateSpritesSystem{})
	})
	if err != nil {
		return scene.NoTransition(), err
	}
	return scene.NoTransition(), nil
}

func (s *Scene) Draw(ctx context.Context, w *engine.World, f *render.Frame) error {
	log := ctxlog.FromContext(ctx)
	f.Clear(render.Black)

	return w.Read(func(w *engine.World) error {
		if err := engine.RunSystems(w,
			system.DrawBasicSystem{Frame: f},
			system.DrawTextBoxSystem{Frame: f},
		); err != nil {
			return err
		}

		if s.frame%logEvery == 0 {
			log.Debug("frame", "scene", Name, "frame", s.frame)
		}
		if s.frame == LastFrame {
			log.Info("scene summary", "scene", Name, "text", s.text, "entities", len(s.entities))
			return system.PrintBasicComponentsSystem{Logger: log}.Run(w)
		}
		return nil
	})
}

func (s *Scene) Interact(_ context.Context, w *engine.World, in *input.State, win render.Window) error {
	if in.Pressed(input.CodeKey(tcell.KeyEscape)) || in.Pressed(input.RuneKey('q')) {
		s.quit = true
		return nil
	}

	err := w.Write(func(w *engine.World) error {
		return system.MovePlayersSystem{Input: in, Window: win}.Run(w)
	})
	if err != nil {
		return err
	}
	return w.Read(func(w *engine.World) error {
		return system.PlaySoundsSystem{Input: in, Key: input.RuneKey(' ')}.Run(w)
	})
}

func (s *Scene) Name() string { return Name }

func (s *Scene) Finished() (bool, error) {
	return s.quit || s.frame >= LastFrame, nil
}

// Frame returns the current frame count
func (s *Scene) Frame() int { return s.frame }

// Entities returns the entities the scene was assembled from
func (s *Scene) Entities() []engine.Entity { return s.entities }
