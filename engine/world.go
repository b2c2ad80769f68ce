package engine

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/scenery/load"
)

var (
	// ErrPoisoned marks a world whose exclusive section panicked; every later access fails
	ErrPoisoned = errors.New("world lock poisoned")

	ErrStoreMissing  = errors.New("component store not registered")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrAlreadyBuilt  = errors.New("entity already built")
)

// World holds all entities, component stores and singleton resources
//
// access is the single exclusive-or-shared lock guarding world phases:
// Write for registration, publishing and per-tick mutation, Read for draw passes.
// Store and resource bookkeeping carry their own short-lived locks so that
// lookups inside a Read or Write callback never re-enter access.
type World struct {
	access   sync.RWMutex
	poisoned atomic.Bool

	nextEntityID atomic.Uint64

	mu     sync.RWMutex
	stores map[reflect.Type]AnyStore
	live   map[Entity]struct{}

	// Resources is the singleton table (catalogs, controllers, paths)
	Resources *ResourceStore
}

// NewWorld creates an empty world with no registered stores
func NewWorld() *World {
	return &World{
		stores:    make(map[reflect.Type]AnyStore),
		live:      make(map[Entity]struct{}),
		Resources: NewResourceStore(),
	}
}

// RegisterStore registers storage for component type T
// Repeat registration returns the existing store
func RegisterStore[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()

	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.stores[t]; ok {
		return existing.(*Store[T])
	}
	s := NewStore[T]()
	w.stores[t] = s
	return s
}

// GetStore returns the registered store for component type T
func GetStore[T any](w *World) (*Store[T], bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, ok := w.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return s.(*Store[T]), true
}

// StoreCount returns the number of registered component types
func (w *World) StoreCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.stores)
}

// CreateEntity reserves a new entity ID; the entity becomes live once a builder commits it
func (w *World) CreateEntity() Entity {
	return Entity(w.nextEntityID.Add(1))
}

// IsLive reports whether a builder has committed the entity and it was not destroyed
func (w *World) IsLive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.live[e]
	return ok
}

// Entities returns all live entities in ascending order
func (w *World) Entities() []Entity {
	w.mu.RLock()
	result := make([]Entity, 0, len(w.live))
	for e := range w.live {
		result = append(result, e)
	}
	w.mu.RUnlock()

	slices.Sort(result)
	return result
}

// Destroy removes entities and their components under exclusive access
// Zero entities are skipped
func (w *World) Destroy(entities ...Entity) error {
	return w.Write(func(w *World) error {
		for _, e := range entities {
			if e != 0 {
				w.DestroyEntity(e)
			}
		}
		return nil
	})
}

// DestroyEntity removes an entity and all its components
// Call it inside Write; outside a section use Destroy
func (w *World) DestroyEntity(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, store := range w.stores {
		store.Remove(e)
	}
	delete(w.live, e)
}

func (w *World) markLive(e Entity) {
	w.mu.Lock()
	w.live[e] = struct{}{}
	w.mu.Unlock()
}

// Poisoned reports whether a previous exclusive section panicked
func (w *World) Poisoned() bool {
	return w.poisoned.Load()
}

// Read runs fn holding shared access
// fn must not call Write: the lock is not reentrant
func (w *World) Read(fn func(*World) error) error {
	if w.poisoned.Load() {
		return poisonedError(nil)
	}

	w.access.RLock()
	defer w.access.RUnlock()

	if w.poisoned.Load() {
		return poisonedError(nil)
	}
	return w.run(fn, false)
}

// Write runs fn holding exclusive access
// Hold it only for the mutation itself, never across blocking I/O
func (w *World) Write(fn func(*World) error) error {
	if w.poisoned.Load() {
		return poisonedError(nil)
	}

	w.access.Lock()
	defer w.access.Unlock()

	if w.poisoned.Load() {
		return poisonedError(nil)
	}
	return w.run(fn, true)
}

func (w *World) run(fn func(*World) error, exclusive bool) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if exclusive {
			w.poisoned.Store(true)
			err = poisonedError(r)
			return
		}
		err = fmt.Errorf("world read pass panicked: %v", r)
	}()
	return fn(w)
}

func poisonedError(cause any) error {
	if cause == nil {
		return &load.ResourceAccessError{Resource: "world", Err: ErrPoisoned}
	}
	return &load.ResourceAccessError{Resource: "world", Err: fmt.Errorf("%w: panic: %v", ErrPoisoned, cause)}
}
