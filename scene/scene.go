// Package scene composes entity batches into scenes and scenes into a stack
package scene

import (
	"context"
	"maps"
	"slices"

	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

// Scene is a finalized set of entities plus scene-local tick state
// Tick methods are synchronous and must not block on I/O
type Scene interface {
	Update(ctx context.Context, w *engine.World) (Transition, error)
	Draw(ctx context.Context, w *engine.World, f *render.Frame) error
	Interact(ctx context.Context, w *engine.World, in *input.State, win render.Window) error
	Name() string
	// Finished must not mutate the scene
	Finished() (bool, error)
	// Entities lists the entities the scene was assembled from
	Entities() []engine.Entity
}

// Loader realizes a scene: assembles its entities, then builds the scene value
type Loader interface {
	Load(ctx context.Context, w *engine.World, win render.Window) (Scene, error)
}

// Factory validates a scene envelope into a loader
type Factory func(env load.Envelope) (Loader, error)

// File is the common payload of a scene envelope
type File struct {
	EntityPaths []string `json:"entity_paths"`
	SceneValues any      `json:"scene_values"`
}

// DecodeFile checks the tag and decodes the common scene payload
func DecodeFile(id string, env load.Envelope) (File, error) {
	if err := load.CheckID(id, env); err != nil {
		return File{}, err
	}
	return load.Decode[File](env.ActualValue)
}

// Mux maps scene type ids to factories
type Mux map[string]Factory

// Resolve constructs the loader registered for the envelope's tag
func (m Mux) Resolve(env load.Envelope) (Loader, error) {
	f, ok := m[env.LoadTypeID]
	if !ok {
		return nil, &load.UnknownIDError{ID: env.LoadTypeID, Known: m.IDs()}
	}
	return f(env)
}

// IDs returns the registered scene ids in sorted order
func (m Mux) IDs() []string {
	return slices.Sorted(maps.Keys(m))
}

// With returns a copy of m with one more entry
func (m Mux) With(id string, f Factory) Mux {
	out := maps.Clone(m)
	if out == nil {
		out = make(Mux, 1)
	}
	out[id] = f
	return out
}

// Phase is a scene's place in the stack lifecycle: Loading until the stack is
// activated, Active while ticking, Finished from the update whose predicate
// fired until the pop at the start of the next update
type Phase uint8

const (
	Loading Phase = iota
	Active
	Finished
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Active:
		return "active"
	case Finished:
		return "finished"
	}
	return "unknown"
}
