package scene

import (
	"context"
	"errors"

	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const StackID = "scene_stack"

type stackFile struct {
	ScenePaths []string `json:"scene_paths"`
}

// StackLoader reads a scene_stack file and loads every scene it lists
// The first listed scene ends up on top and plays first
type StackLoader struct {
	path  string
	paths load.Paths
	mux   Mux
}

// NewStackLoader prepares a loader for the stack file at path
func NewStackLoader(path string, paths load.Paths, mux Mux) *StackLoader {
	return &StackLoader{path: path, paths: paths, mux: mux}
}

// Load loads the scenes in file order and builds the stack
// Scenes stay Loading until Stack.Activate. On failure the entities of the
// scenes already loaded are destroyed.
func (l *StackLoader) Load(ctx context.Context, w *engine.World, win render.Window) (*Stack, error) {
	log := ctxlog.FromContext(ctx)

	env, err := load.ReadEnvelope(l.path)
	if err != nil {
		return nil, err
	}
	if err := load.CheckID(StackID, env); err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}
	file, err := load.Decode[stackFile](env.ActualValue)
	if err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}
	if len(file.ScenePaths) == 0 {
		return nil, &load.FileError{Path: l.path, Err: errors.New("scene stack lists no scenes")}
	}

	scenes := make([]Scene, 0, len(file.ScenePaths))
	for _, ref := range file.ScenePaths {
		log.Debug("scene loading", "path", ref, "phase", Loading.String())
		sc, err := l.loadScene(ctx, l.paths.Resolve(ref), w, win)
		if err != nil {
			loaded := newStack(Loading, scenes)
			if derr := w.Destroy(loaded.Entities()...); derr != nil {
				return nil, errors.Join(err, derr)
			}
			return nil, err
		}
		scenes = append(scenes, sc)
		log.Info("scene loaded", "scene", sc.Name(), "path", ref, "entities", len(sc.Entities()))
	}
	return newStack(Loading, scenes), nil
}

func (l *StackLoader) loadScene(ctx context.Context, path string, w *engine.World, win render.Window) (Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, err := load.ReadEnvelope(path)
	if err != nil {
		return nil, err
	}
	loader, err := l.mux.Resolve(env)
	if err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}
	sc, err := loader.Load(ctx, w, win)
	if err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}
	return sc, nil
}
