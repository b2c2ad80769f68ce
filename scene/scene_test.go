package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

// fakeScene counts calls and finishes after a fixed number of updates
type fakeScene struct {
	name      string
	finishAt  int
	next      Transition
	updates   int
	draws     int
	interacts int
	updateErr error
	finishErr error
	entities  []engine.Entity
}

func (s *fakeScene) Update(context.Context, *engine.World) (Transition, error) {
	s.updates++
	if s.updateErr != nil {
		return NoTransition(), s.updateErr
	}
	t := s.next
	s.next = NoTransition()
	return t, nil
}

func (s *fakeScene) Draw(context.Context, *engine.World, *render.Frame) error {
	s.draws++
	return nil
}

func (s *fakeScene) Interact(context.Context, *engine.World, *input.State, render.Window) error {
	s.interacts++
	return nil
}

func (s *fakeScene) Name() string { return s.name }

func (s *fakeScene) Finished() (bool, error) {
	if s.finishErr != nil {
		return false, s.finishErr
	}
	return s.finishAt > 0 && s.updates >= s.finishAt, nil
}

func (s *fakeScene) Entities() []engine.Entity { return s.entities }

func TestNewStackOrder(t *testing.T) {
	first := &fakeScene{name: "first"}
	second := &fakeScene{name: "second"}
	s := NewStack(first, second)

	if diff := cmp.Diff([]string{"first", "second"}, s.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	top, ok := s.Top()
	if !ok || top != first {
		t.Errorf("Expected first scene on top, got %v", top)
	}
}

func TestStackTopOnly(t *testing.T) {
	top := &fakeScene{name: "top"}
	below := &fakeScene{name: "below"}
	s := NewStack(top, below)
	ctx := context.Background()
	w := engine.NewWorld()

	if err := s.Interact(ctx, w, input.NewState(0), nil); err != nil {
		t.Fatalf("Interact failed: %v", err)
	}
	if err := s.Update(ctx, w); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := s.Draw(ctx, w, nil); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if top.updates != 1 || top.draws != 1 || top.interacts != 1 {
		t.Errorf("Expected top to tick once, got update=%d draw=%d interact=%d", top.updates, top.draws, top.interacts)
	}
	if below.updates+below.draws+below.interacts != 0 {
		t.Error("Expected scene below the top to stay idle")
	}
}

// A scene that finishes still draws its last frame, then is popped on the next update
func TestStackFinishedPopsNextUpdate(t *testing.T) {
	first := &fakeScene{name: "first", finishAt: 2}
	second := &fakeScene{name: "second", finishAt: 1}
	s := NewStack(first, second)
	ctx := context.Background()
	w := engine.NewWorld()

	for range 2 {
		if err := s.Update(ctx, w); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := s.Draw(ctx, w, nil); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}
	if first.draws != 2 {
		t.Errorf("Expected finished scene to draw its final frame, got %d draws", first.draws)
	}
	if s.Len() != 2 {
		t.Fatalf("Expected pop deferred to next update, got depth %d", s.Len())
	}

	if err := s.Update(ctx, w); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if diff := cmp.Diff([]string{"second"}, s.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if second.updates != 1 {
		t.Errorf("Expected second scene updated once, got %d", second.updates)
	}

	if err := s.Update(ctx, w); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !s.Done() {
		t.Errorf("Expected empty stack, got %v", s.Names())
	}
	// Empty stack is inert
	if err := s.Update(ctx, w); err != nil {
		t.Errorf("Expected no error on empty stack, got %v", err)
	}
}

func TestStackTransitions(t *testing.T) {
	pushed := &fakeScene{name: "pushed"}

	tests := []struct {
		name    string
		next    Transition
		want    []string
		wantErr bool
	}{
		{"None", NoTransition(), []string{"a", "b"}, false},
		{"Push", PushScene(pushed), []string{"pushed", "a", "b"}, false},
		{"Pop", PopScene(), []string{"b"}, false},
		{"Replace", ReplaceScene(pushed), []string{"pushed", "b"}, false},
		{"Clear", ClearStack(), []string{}, false},
		{"PushNil", PushScene(nil), []string{"a", "b"}, true},
		{"ReplaceNil", ReplaceScene(nil), []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeScene{name: "a", next: tt.next}
			s := NewStack(a, &fakeScene{name: "b"})

			err := s.Update(context.Background(), engine.NewWorld())
			if tt.wantErr {
				if !errors.Is(err, errNoScene) {
					t.Errorf("Expected missing scene error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, s.Names()); diff != "" {
				t.Errorf("Names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStackErrorsNameScene(t *testing.T) {
	boom := errors.New("boom")

	s := NewStack(&fakeScene{name: "broken", updateErr: boom})
	err := s.Update(context.Background(), engine.NewWorld())
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), `"broken"`) {
		t.Errorf("Expected wrapped update error naming the scene, got %v", err)
	}

	s = NewStack(&fakeScene{name: "unsure", finishErr: boom})
	err = s.Update(context.Background(), engine.NewWorld())
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "finished check") {
		t.Errorf("Expected wrapped finished error, got %v", err)
	}
}

func TestTransitionKindString(t *testing.T) {
	kinds := map[TransitionKind]string{None: "none", Push: "push", Pop: "pop", Replace: "replace", Clear: "clear"}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
	if Finished.String() != "finished" || Loading.String() != "loading" {
		t.Error("Expected phase names")
	}
}

type sceneMarker struct{ Scene string }

// namedLoader produces a fakeScene named after the envelope's "name" field
// When the world has a sceneMarker store the scene also owns one marker entity
type namedLoader struct {
	name string
	err  error
}

func (l namedLoader) Load(_ context.Context, w *engine.World, _ render.Window) (Scene, error) {
	if l.err != nil {
		return nil, l.err
	}
	sc := &fakeScene{name: l.name}
	if _, ok := engine.GetStore[sceneMarker](w); ok {
		e, err := engine.With(w.NewEntity(), sceneMarker{l.name}).Build()
		if err != nil {
			return nil, err
		}
		sc.entities = []engine.Entity{e}
	}
	return sc, nil
}

func testMux() Mux {
	return Mux{}.With("fake_scene", func(env load.Envelope) (Loader, error) {
		f, err := DecodeFile("fake_scene", env)
		if err != nil {
			return nil, err
		}
		values, ok := f.SceneValues.(map[string]any)
		if !ok {
			return nil, errors.New("scene_values is not an object")
		}
		name, _ := values["name"].(string)
		if name == "broken" {
			return namedLoader{err: errors.New("entities failed")}, nil
		}
		return namedLoader{name: name}, nil
	})
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func sceneBody(name string) string {
	return `{"load_type_id":"fake_scene","actual_value":{"entity_paths":[],"scene_values":{"name":"` + name + `"}}}`
}

func TestStackLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/intro.json", sceneBody("intro"))
	writeFile(t, dir, "scenes/level.json", sceneBody("level"))
	stackPath := writeFile(t, dir, "stack.json",
		`{"load_type_id":"scene_stack","actual_value":{"scene_paths":["scenes/intro.json","scenes/level.json"]}}`)

	paths := load.Paths{Root: dir}
	s, err := NewStackLoader(stackPath, paths, testMux()).Load(context.Background(), engine.NewWorld(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"intro", "level"}, s.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestStackLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/ok.json", sceneBody("ok"))
	writeFile(t, dir, "scenes/broken.json", sceneBody("broken"))
	writeFile(t, dir, "scenes/alien.json", `{"load_type_id":"alien_scene","actual_value":{}}`)

	stack := func(body string) string {
		return `{"load_type_id":"scene_stack","actual_value":` + body + `}`
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"WrongID", `{"load_type_id":"scene","actual_value":{"scene_paths":["scenes/ok.json"]}}`, "scene_stack"},
		{"Empty", stack(`{"scene_paths":[]}`), "no scenes"},
		{"MissingScene", stack(`{"scene_paths":["scenes/ok.json","scenes/nope.json"]}`), "nope.json"},
		{"UnknownSceneID", stack(`{"scene_paths":["scenes/alien.json"]}`), "alien_scene"},
		{"SceneLoadFails", stack(`{"scene_paths":["scenes/ok.json","scenes/broken.json"]}`), "entities failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".json", tt.body)
			s, err := NewStackLoader(path, load.Paths{Root: dir}, testMux()).Load(context.Background(), engine.NewWorld(), nil)
			if err == nil {
				t.Fatalf("Expected error, got stack %v", s.Names())
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestStackLoaderCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/ok.json", sceneBody("ok"))
	path := writeFile(t, dir, "stack.json",
		`{"load_type_id":"scene_stack","actual_value":{"scene_paths":["scenes/ok.json"]}}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStackLoader(path, load.Paths{Root: dir}, testMux()).Load(ctx, engine.NewWorld(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMuxUnknownID(t *testing.T) {
	_, err := testMux().Resolve(load.New("other", nil))
	var unknown *load.UnknownIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownIDError, got %v", err)
	}
	if diff := cmp.Diff([]string{"fake_scene"}, unknown.Known); diff != "" {
		t.Errorf("Known mismatch (-want +got):\n%s", diff)
	}
}

func TestStackLoaderRollsBackLoadedScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/intro.json", sceneBody("intro"))
	writeFile(t, dir, "scenes/level.json", sceneBody("level"))
	writeFile(t, dir, "scenes/broken.json", sceneBody("broken"))
	path := writeFile(t, dir, "stack.json",
		`{"load_type_id":"scene_stack","actual_value":{"scene_paths":["scenes/intro.json","scenes/level.json","scenes/broken.json"]}}`)

	w := engine.NewWorld()
	markers := engine.RegisterStore[sceneMarker](w)

	if _, err := NewStackLoader(path, load.Paths{Root: dir}, testMux()).Load(context.Background(), w, nil); err == nil {
		t.Fatal("Expected broken scene to fail the stack")
	}
	if live := w.Entities(); len(live) != 0 {
		t.Errorf("Expected earlier scenes' entities destroyed, got %v", live)
	}
	if markers.Count() != 0 {
		t.Errorf("Expected no marker components left, got %d", markers.Count())
	}
}

func TestStackEntities(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/intro.json", sceneBody("intro"))
	writeFile(t, dir, "scenes/level.json", sceneBody("level"))
	path := writeFile(t, dir, "stack.json",
		`{"load_type_id":"scene_stack","actual_value":{"scene_paths":["scenes/intro.json","scenes/level.json"]}}`)

	w := engine.NewWorld()
	engine.RegisterStore[sceneMarker](w)

	s, err := NewStackLoader(path, load.Paths{Root: dir}, testMux()).Load(context.Background(), w, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(w.Entities(), s.Entities(), cmpopts.SortSlices(func(a, b engine.Entity) bool { return a < b })); diff != "" {
		t.Errorf("Entities mismatch (-want +got):\n%s", diff)
	}
}

// Loading scenes do not tick; once active, the finishing update marks the
// scene Finished, it draws that frame without taking input, and the next update pops it
func TestStackLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/intro.json", sceneBody("intro"))
	path := writeFile(t, dir, "stack.json",
		`{"load_type_id":"scene_stack","actual_value":{"scene_paths":["scenes/intro.json"]}}`)

	s, err := NewStackLoader(path, load.Paths{Root: dir}, testMux()).Load(context.Background(), engine.NewWorld(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	top, _ := s.Top()
	sc := top.(*fakeScene)
	sc.finishAt = 2

	ctx := context.Background()
	w := engine.NewWorld()
	tick := func() {
		t.Helper()
		if err := s.Interact(ctx, w, input.NewState(0), nil); err != nil {
			t.Fatalf("Interact failed: %v", err)
		}
		if err := s.Update(ctx, w); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := s.Draw(ctx, w, nil); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}
	phase := func(want Phase) {
		t.Helper()
		if got, ok := s.Phase(); !ok || got != want {
			t.Errorf("Expected phase %s, got %s (ok=%v)", want, got, ok)
		}
	}

	phase(Loading)
	tick()
	if sc.updates+sc.draws+sc.interacts != 0 {
		t.Error("Expected a loading scene to stay idle")
	}

	s.Activate()
	phase(Active)
	tick()
	phase(Active)

	tick()
	phase(Finished)
	if sc.draws != 2 || sc.interacts != 2 {
		t.Errorf("Expected finishing frame drawn, got draws=%d interacts=%d", sc.draws, sc.interacts)
	}

	tick()
	if sc.interacts != 2 {
		t.Errorf("Expected no input for a finished scene, got %d interacts", sc.interacts)
	}
	if !s.Done() {
		t.Errorf("Expected finished scene popped, got %v", s.Names())
	}
	if _, ok := s.Phase(); ok {
		t.Error("Expected no phase on an empty stack")
	}
}
