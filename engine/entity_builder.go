package engine

import (
	"fmt"
	"reflect"
)

// EntityBuilder accumulates components for one entity and commits them together
// Components are staged by With and written to stores only when Build succeeds,
// so an abandoned or failed builder leaves the world untouched.
//
// Example usage:
//
//	eb := world.NewEntity()
//	eb = With(eb, component.Position{X: 1, Y: 2})
//	entity, err := eb.Build()
type EntityBuilder struct {
	world  *World
	entity Entity
	staged []func()
	err    error
	built  bool
}

// NewEntity returns a builder for a freshly reserved entity ID
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{
		world:  w,
		entity: w.CreateEntity(),
	}
}

// EditEntity returns a builder bound to an existing live entity
// Build replaces the staged component types on that entity
func (w *World) EditEntity(e Entity) *EntityBuilder {
	eb := &EntityBuilder{world: w, entity: e}
	if !w.IsLive(e) {
		eb.err = fmt.Errorf("%w: %d", ErrUnknownEntity, e)
	}
	return eb
}

// With stages a component of type T on the entity being built
// A missing store or a finished builder records a sticky error reported by Build
func With[T any](eb *EntityBuilder, component T) *EntityBuilder {
	if eb.err != nil {
		return eb
	}
	if eb.built {
		eb.err = ErrAlreadyBuilt
		return eb
	}

	store, ok := GetStore[T](eb.world)
	if !ok {
		eb.err = fmt.Errorf("%w: %s", ErrStoreMissing, reflect.TypeFor[T]())
		return eb
	}

	e := eb.entity
	eb.staged = append(eb.staged, func() { store.Set(e, component) })
	return eb
}

// Entity returns the reserved entity ID
func (eb *EntityBuilder) Entity() Entity {
	return eb.entity
}

// Len returns the number of staged components
func (eb *EntityBuilder) Len() int {
	return len(eb.staged)
}

// Err returns the first staging error, if any
func (eb *EntityBuilder) Err() error {
	return eb.err
}

// Build commits staged components under exclusive world access and finalizes the entity
// A builder finalizes at most once
func (eb *EntityBuilder) Build() (Entity, error) {
	if eb.built {
		return 0, ErrAlreadyBuilt
	}
	if eb.err != nil {
		return 0, eb.err
	}
	eb.built = true

	staged := eb.staged
	eb.staged = nil

	err := eb.world.Write(func(w *World) error {
		for _, commit := range staged {
			commit()
		}
		w.markLive(eb.entity)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return eb.entity, nil
}

// Discard drops staged components; the reserved ID is never reused
func (eb *EntityBuilder) Discard() {
	eb.built = true
	eb.staged = nil
}
