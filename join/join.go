// Package join runs independent subsystem loads concurrently and waits for all of them
package join

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SubsystemError wraps the failure of one joined load with the subsystem's name
type SubsystemError struct {
	Subsystem string
	Err       error
}

func (e *SubsystemError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Subsystem, e.Err)
}

func (e *SubsystemError) Unwrap() error { return e.Err }

// Group is one fan-out/fan-in of subsystem loads
// The first failure cancels the context handed to the remaining loads
type Group struct {
	eg    *errgroup.Group
	ctx   context.Context
	names []string
}

// New creates a group whose loads run under a context derived from ctx
func New(ctx context.Context) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx}, gctx
}

// Result holds the value of one load; read it only after Wait returns
type Result[T any] struct {
	name  string
	value T
	ok    bool
}

// Value returns the loaded value, ok is false when the load failed or did not run
func (r *Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Name returns the subsystem name
func (r *Result[T]) Name() string {
	return r.name
}

// Go starts fn as the load for the named subsystem
// A panic in fn is reported as that subsystem's error
func Go[T any](g *Group, name string, fn func(ctx context.Context) (T, error)) *Result[T] {
	r := &Result[T]{name: name}
	g.names = append(g.names, name)

	g.eg.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = &SubsystemError{Subsystem: name, Err: fmt.Errorf("panic: %v", p)}
			}
		}()

		v, err := fn(g.ctx)
		if err != nil {
			return &SubsystemError{Subsystem: name, Err: err}
		}
		r.value, r.ok = v, true
		return nil
	})
	return r
}

// Wait blocks until every load has returned
// The error is the first SubsystemError; loads cancelled because of it are not reported
func (g *Group) Wait() error {
	return g.eg.Wait()
}

// Names lists the subsystems in start order
func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}
