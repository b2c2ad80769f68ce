// Package game wires the world, the startup load join and the tick driver
package game

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/scenery/assembly"
	"github.com/lixenwraith/scenery/audio"
	"github.com/lixenwraith/scenery/catalog"
	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/join"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
	"github.com/lixenwraith/scenery/scene"
	"github.com/lixenwraith/scenery/scene/basic"
	"github.com/lixenwraith/scenery/status"
)

// Subsystem names reported in join.SubsystemError
const (
	FontCatalog     = "font catalog"
	ImageCatalog    = "image catalog"
	AudioController = "audio controller"
	SceneStack      = "scene stack"
)

// Options selects the assets and registries one Load uses
type Options struct {
	Paths     load.Paths
	StackPath string

	// Components defaults to component.DefaultMux
	Components component.Mux
	// Scenes defaults to DefaultScenes
	Scenes scene.Mux

	// HoldTicks defaults to input.DefaultHoldTicks
	HoldTicks int

	// World defaults to a new world; a failed Load leaves it without singletons
	// and without the scene stack's entities
	World *engine.World
}

// DefaultScenes registers every scene type this module ships
func DefaultScenes(r assembly.Resolver, paths load.Paths) scene.Mux {
	return scene.Mux{
		basic.SceneID: basic.Factory(r, paths),
	}
}

// Game is a loaded world with its scene stack
type Game struct {
	World  *engine.World
	Stack  *scene.Stack
	Input  *input.State
	Window render.Window
	LoadID string
	Status *status.Registry

	frames *atomic.Int64
}

// Load builds a world, joins the four startup loads and publishes their singletons
// On any failure none of the font catalog, image catalog or audio controller
// is published, the scene stack's entities are destroyed, and the error is a
// *join.SubsystemError naming the failed load
func Load(ctx context.Context, opts Options, win render.Window) (*Game, error) {
	loadID := uuid.NewString()
	log := ctxlog.FromContext(ctx).With("load_id", loadID)
	ctx = ctxlog.WithLogger(ctx, log)

	components := opts.Components
	if components == nil {
		components = component.DefaultMux()
	}
	scenes := opts.Scenes
	if scenes == nil {
		scenes = DefaultScenes(components, opts.Paths)
	}
	holdTicks := opts.HoldTicks
	if holdTicks == 0 {
		holdTicks = input.DefaultHoldTicks
	}

	w := opts.World
	if w == nil {
		w = engine.NewWorld()
	}
	err := w.Write(func(w *engine.World) error {
		component.RegisterStores(w)
		engine.AddResource(w.Resources, opts.Paths)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reg := status.NewRegistry()
	start := time.Now()
	log.Info("load started", "stack", opts.StackPath)

	grp, _ := join.New(ctx)
	fonts := join.Go(grp, FontCatalog, timed(reg, FontCatalog, func(ctx context.Context) (*catalog.FontCatalog, error) {
		return catalog.NewFontCatalogLoader(opts.Paths.JSON(catalog.FontDictID), opts.Paths).Load(ctx)
	}))
	images := join.Go(grp, ImageCatalog, timed(reg, ImageCatalog, func(ctx context.Context) (*catalog.ImageCatalog, error) {
		return catalog.NewImageCatalogLoader(opts.Paths.JSON(catalog.ImageDictID), opts.Paths).Load(ctx)
	}))
	controller := join.Go(grp, AudioController, timed(reg, AudioController, func(ctx context.Context) (*audio.Controller, error) {
		return audio.NewControllerLoader(opts.Paths.JSON(audio.ControllerID), opts.Paths).Load(ctx)
	}))
	stack := join.Go(grp, SceneStack, timed(reg, SceneStack, func(ctx context.Context) (*scene.Stack, error) {
		return scene.NewStackLoader(opts.StackPath, opts.Paths, scenes).Load(ctx, w, win)
	}))

	if err := grp.Wait(); err != nil {
		log.Error("load failed", "error", err)
		discardStack(ctx, w, stack)
		return nil, err
	}

	f, _ := fonts.Value()
	img, _ := images.Value()
	ctrl, _ := controller.Value()
	err = w.Write(func(w *engine.World) error {
		return w.Resources.Publish(f, img, ctrl)
	})
	if err != nil {
		log.Error("publish failed", "error", err)
		discardStack(ctx, w, stack)
		return nil, err
	}

	st, _ := stack.Value()
	st.Activate()
	reg.Counters.Get("load.entities").Store(int64(len(w.Entities())))
	reg.Gauges.Get("load.seconds").Store(time.Since(start).Seconds())
	log.Info("load complete",
		"fonts", f.Len(),
		"images", img.Len(),
		"clips", len(ctrl.Names()),
		"scenes", st.Names(),
		"duration", time.Since(start),
	)

	return &Game{
		World:  w,
		Stack:  st,
		Input:  input.NewState(holdTicks),
		Window: win,
		LoadID: loadID,
		Status: reg,
		frames: reg.Counters.Get("tick.frames"),
	}, nil
}

// discardStack destroys the entities of a scene stack that loaded while a sibling failed
func discardStack(ctx context.Context, w *engine.World, stack *join.Result[*scene.Stack]) {
	st, ok := stack.Value()
	if !ok {
		return
	}
	entities := st.Entities()
	if err := w.Destroy(entities...); err != nil {
		ctxlog.FromContext(ctx).Error("discard scene stack", "entities", len(entities), "error", err)
	}
}

// timed records how long one subsystem load took, successful or not
func timed[T any](reg *status.Registry, name string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	gauge := reg.Gauges.Get("load." + strings.ReplaceAll(name, " ", "_") + ".seconds")
	return func(ctx context.Context) (T, error) {
		start := time.Now()
		defer func() { gauge.Store(time.Since(start).Seconds()) }()
		return fn(ctx)
	}
}

// Audio returns the published audio controller
func (g *Game) Audio() *audio.Controller {
	ctrl, _ := engine.GetResource[*audio.Controller](g.World.Resources)
	return ctrl
}

// Done reports that every scene has finished
func (g *Game) Done() bool {
	return g.Stack.Done()
}

// Tick runs one frame: interact, update, draw, present, then ends the input tick
func (g *Game) Tick(ctx context.Context, f *render.Frame) error {
	defer g.Input.Clear()

	if err := g.Stack.Interact(ctx, g.World, g.Input, g.Window); err != nil {
		return err
	}
	if err := g.Stack.Update(ctx, g.World); err != nil {
		return err
	}
	if err := g.Stack.Draw(ctx, g.World, f); err != nil {
		return err
	}
	f.Present()
	g.frames.Add(1)
	return nil
}

// Run ticks at interval until the stack is empty, Ctrl+C, or ctx is cancelled
func (g *Game) Run(ctx context.Context, win *render.TerminalWindow, interval time.Duration) error {
	log := ctxlog.FromContext(ctx).With("load_id", g.LoadID)
	ctx = ctxlog.WithLogger(ctx, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan struct{})
	defer close(quit)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := win.Screen().PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					log.Info("interrupted")
					return nil
				}
				g.Input.Feed(ev)
			case *tcell.EventResize:
				win.Screen().Sync()
			}

		case <-ticker.C:
			if err := g.Tick(ctx, win.Frame()); err != nil {
				return err
			}
			if g.Done() {
				log.Info("scene stack empty")
				return nil
			}
		}
	}
}
