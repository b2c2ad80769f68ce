package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/render"
)

var errNoScene = errors.New("transition carries no scene")

type entry struct {
	scene Scene
	phase Phase
}

// Stack runs the top scene each tick
// A scene reporting Finished is marked after its update and popped at the
// start of the next Update, so it still draws its last frame
type Stack struct {
	entries []*entry // top is last
}

// NewStack builds a stack of active scenes whose first argument is the top scene
func NewStack(scenes ...Scene) *Stack {
	return newStack(Active, scenes)
}

func newStack(phase Phase, scenes []Scene) *Stack {
	s := &Stack{entries: make([]*entry, 0, len(scenes))}
	for i := len(scenes) - 1; i >= 0; i-- {
		s.entries = append(s.entries, &entry{scene: scenes[i], phase: phase})
	}
	return s
}

// Push makes sc the active top scene
func (s *Stack) Push(sc Scene) {
	s.entries = append(s.entries, &entry{scene: sc, phase: Active})
}

// Pop removes and returns the top scene
func (s *Stack) Pop() (Scene, bool) {
	top, ok := s.top()
	if !ok {
		return nil, false
	}
	top.phase = Finished
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return top.scene, true
}

// Top returns the top scene
func (s *Stack) Top() (Scene, bool) {
	top, ok := s.top()
	if !ok {
		return nil, false
	}
	return top.scene, true
}

func (s *Stack) top() (*entry, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// Phase returns the lifecycle phase of the top scene
func (s *Stack) Phase() (Phase, bool) {
	top, ok := s.top()
	if !ok {
		return 0, false
	}
	return top.phase, true
}

// Phases lists scene phases from top to bottom
func (s *Stack) Phases() []Phase {
	phases := make([]Phase, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		phases = append(phases, s.entries[i].phase)
	}
	return phases
}

// Activate moves every loading scene to Active
// Loading scenes are never ticked
func (s *Stack) Activate() {
	for _, e := range s.entries {
		if e.phase == Loading {
			e.phase = Active
		}
	}
}

// Len returns the number of scenes
func (s *Stack) Len() int {
	return len(s.entries)
}

// Done reports an empty stack; the run is over
func (s *Stack) Done() bool {
	return len(s.entries) == 0
}

// Names lists scene names from top to bottom
func (s *Stack) Names() []string {
	names := make([]string, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		names = append(names, s.entries[i].scene.Name())
	}
	return names
}

// Entities lists the entities of every scene on the stack
func (s *Stack) Entities() []engine.Entity {
	var out []engine.Entity
	for _, e := range s.entries {
		out = append(out, e.scene.Entities()...)
	}
	return out
}

// Interact forwards input to the top scene while it is active
func (s *Stack) Interact(ctx context.Context, w *engine.World, in *input.State, win render.Window) error {
	top, ok := s.top()
	if !ok || top.phase != Active {
		return nil
	}
	if err := top.scene.Interact(ctx, w, in, win); err != nil {
		return fmt.Errorf("scene %q interact: %w", top.scene.Name(), err)
	}
	return nil
}

// Update pops finished scenes, updates the new top, applies its transition,
// then marks the top Finished if its predicate fired
func (s *Stack) Update(ctx context.Context, w *engine.World) error {
	if err := s.popFinished(ctx); err != nil {
		return err
	}
	top, ok := s.top()
	if !ok || top.phase != Active {
		return nil
	}

	t, err := top.scene.Update(ctx, w)
	if err != nil {
		return fmt.Errorf("scene %q update: %w", top.scene.Name(), err)
	}
	if err := s.apply(ctx, t); err != nil {
		return err
	}
	return s.markFinished()
}

// Draw renders the top scene unless it is still loading
func (s *Stack) Draw(ctx context.Context, w *engine.World, f *render.Frame) error {
	top, ok := s.top()
	if !ok || top.phase == Loading {
		return nil
	}
	if err := top.scene.Draw(ctx, w, f); err != nil {
		return fmt.Errorf("scene %q draw: %w", top.scene.Name(), err)
	}
	return nil
}

func (s *Stack) markFinished() error {
	top, ok := s.top()
	if !ok || top.phase != Active {
		return nil
	}
	done, err := top.scene.Finished()
	if err != nil {
		return fmt.Errorf("scene %q finished check: %w", top.scene.Name(), err)
	}
	if done {
		top.phase = Finished
	}
	return nil
}

func (s *Stack) popFinished(ctx context.Context) error {
	for {
		top, ok := s.top()
		if !ok || top.phase == Loading {
			return nil
		}
		if top.phase == Active {
			done, err := top.scene.Finished()
			if err != nil {
				return fmt.Errorf("scene %q finished check: %w", top.scene.Name(), err)
			}
			if !done {
				return nil
			}
		}
		s.Pop()
		ctxlog.FromContext(ctx).Info("scene finished", "scene", top.scene.Name(), "remaining", s.Len())
	}
}

func (s *Stack) apply(ctx context.Context, t Transition) error {
	log := ctxlog.FromContext(ctx)

	switch t.Kind {
	case None:
		return nil
	case Push:
		if t.Scene == nil {
			return fmt.Errorf("push: %w", errNoScene)
		}
		s.Push(t.Scene)
	case Pop:
		s.Pop()
	case Replace:
		if t.Scene == nil {
			return fmt.Errorf("replace: %w", errNoScene)
		}
		s.Pop()
		s.Push(t.Scene)
	case Clear:
		for !s.Done() {
			s.Pop()
		}
	default:
		return fmt.Errorf("unknown transition %d", t.Kind)
	}

	log.Debug("scene transition", "kind", t.Kind.String(), "depth", s.Len())
	return nil
}
