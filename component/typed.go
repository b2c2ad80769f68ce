package component

import (
	"sync"

	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

// Payload is a component decodable straight from its envelope payload
// LoadID must use a value receiver; it is called on the zero value
type Payload interface {
	LoadID() string
}

// Typed is the generic loader for components needing no computed fields
type Typed[T Payload] struct {
	mu    sync.RWMutex
	env   load.Envelope
	value T
}

// NewTyped validates the envelope tag against T and decodes its payload
func NewTyped[T Payload](env load.Envelope) (*Typed[T], error) {
	value, err := decodeTyped[T](env)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{env: env, value: value}, nil
}

// Adapt returns the registry constructor for T
func Adapt[T Payload]() Constructor {
	return func(env load.Envelope) (Loader, error) {
		l, err := NewTyped[T](env)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

func decodeTyped[T Payload](env load.Envelope) (T, error) {
	var zero T
	if err := load.CheckID(zero.LoadID(), env); err != nil {
		return zero, err
	}
	return load.Decode[T](env.ActualValue)
}

// Attach stages a fresh copy of the component so entities never share slices or maps
func (l *Typed[T]) Attach(eb *engine.EntityBuilder, _ *engine.World, _ render.Window) (*engine.EntityBuilder, error) {
	l.mu.RLock()
	payload := l.env.ActualValue
	l.mu.RUnlock()

	value, err := load.Decode[T](payload)
	if err != nil {
		return eb, err
	}
	eb = engine.With(eb, value)
	return eb, eb.Err()
}

// Update swaps in a new payload after it validates; on error the cached payload is kept
func (l *Typed[T]) Update(env load.Envelope) error {
	value, err := decodeTyped[T](env)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.env = env
	l.value = value
	l.mu.Unlock()
	return nil
}

// Name returns the load type id of T
func (l *Typed[T]) Name() string {
	var zero T
	return zero.LoadID()
}

// Value returns the decoded component
func (l *Typed[T]) Value() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// Envelope returns the cached envelope
func (l *Typed[T]) Envelope() load.Envelope {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.env
}
