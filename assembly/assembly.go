// Package assembly turns entity files into finalized entities
package assembly

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

// Resolver maps an envelope to its component loader
// component.Mux is the standard implementation
type Resolver interface {
	Resolve(env load.Envelope) (component.Loader, error)
}

// BuildEntity folds each envelope's loader onto one builder in order, then finalizes it
// Any failure discards the builder; the world is left untouched
func BuildEntity(r Resolver, envs []load.Envelope, w *engine.World, win render.Window) (engine.Entity, error) {
	eb := w.NewEntity()
	for i, env := range envs {
		l, err := r.Resolve(env)
		if err != nil {
			eb.Discard()
			return 0, fmt.Errorf("component %d (%s): %w", i, env.LoadTypeID, err)
		}
		next, err := l.Attach(eb, w, win)
		if err != nil {
			eb.Discard()
			return 0, fmt.Errorf("component %d (%s): %w", i, l.Name(), err)
		}
		eb = next
	}
	return eb.Build()
}

// LoadEntityFile reads a list of envelopes from path and builds one entity from it
func LoadEntityFile(r Resolver, path string, w *engine.World, win render.Window) (engine.Entity, error) {
	envs, err := load.ReadEnvelopeList(path)
	if err != nil {
		return 0, err
	}
	e, err := BuildEntity(r, envs, w, win)
	if err != nil {
		return 0, &load.FileError{Path: path, Err: err}
	}
	return e, nil
}

// LoadEntities builds one entity per file concurrently
// The result is ordered like paths. If any file fails, every failure is
// reported together and the entities this call already built are destroyed.
func LoadEntities(ctx context.Context, r Resolver, paths []string, w *engine.World, win render.Window) ([]engine.Entity, error) {
	log := ctxlog.FromContext(ctx)

	entities := make([]engine.Entity, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			e, err := LoadEntityFile(r, path, w, win)
			if err != nil {
				errs[i] = err
				return nil
			}
			entities[i] = e
			log.Debug("entity built", "path", path, "entity", uint64(e))
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		if derr := w.Destroy(entities...); derr != nil {
			return nil, errors.Join(err, derr)
		}
		return nil, err
	}
	return entities, nil
}

// Patch hot-updates a live entity: the loader takes the replacement payload,
// then re-attaches its component onto the existing entity.
// If the re-attach fails the loader gets its previous payload back, so the
// loader and the entity never disagree.
func Patch(l component.Loader, env load.Envelope, e engine.Entity, w *engine.World, win render.Window) error {
	if !w.IsLive(e) {
		return fmt.Errorf("patch %s: %w: %d", l.Name(), engine.ErrUnknownEntity, e)
	}

	prev := l.Envelope()
	if err := l.Update(env); err != nil {
		return fmt.Errorf("update %s: %w", l.Name(), err)
	}
	if err := reattach(l, e, w, win); err != nil {
		if rerr := l.Update(prev); rerr != nil {
			return errors.Join(err, fmt.Errorf("restore %s: %w", l.Name(), rerr))
		}
		return err
	}
	return nil
}

func reattach(l component.Loader, e engine.Entity, w *engine.World, win render.Window) error {
	eb := w.EditEntity(e)
	next, err := l.Attach(eb, w, win)
	if err != nil {
		eb.Discard()
		return fmt.Errorf("reattach %s to entity %d: %w", l.Name(), e, err)
	}
	if _, err := next.Build(); err != nil {
		return fmt.Errorf("reattach %s to entity %d: %w", l.Name(), e, err)
	}
	return nil
}
