package component

import (
	"reflect"
	"sync"

	"github.com/lixenwraith/scenery/load"
)

// cached holds the validated raw payload of a bespoke loader
type cached[J any] struct {
	id       string
	loose    bool
	validate func(J) error

	mu  sync.RWMutex
	env load.Envelope
	raw J
}

func newCached[J any](id string, env load.Envelope, validate func(J) error) (*cached[J], error) {
	return initCached(&cached[J]{id: id, validate: validate}, env)
}

// newCachedLoose accepts payloads that omit optional fields
func newCachedLoose[J any](id string, env load.Envelope, validate func(J) error) (*cached[J], error) {
	return initCached(&cached[J]{id: id, loose: true, validate: validate}, env)
}

func initCached[J any](c *cached[J], env load.Envelope) (*cached[J], error) {
	raw, err := c.decode(env)
	if err != nil {
		return nil, err
	}
	c.env = env
	c.raw = raw
	return c, nil
}

func (c *cached[J]) decode(env load.Envelope) (J, error) {
	var zero J
	if err := load.CheckID(c.id, env); err != nil {
		return zero, err
	}
	decode := load.Decode[J]
	if c.loose {
		decode = load.DecodeLoose[J]
	}
	raw, err := decode(env.ActualValue)
	if err != nil {
		return zero, err
	}
	if c.validate != nil {
		if err := c.validate(raw); err != nil {
			return zero, &load.ConversionError{
				Value:    env.ActualValue,
				IntoType: reflect.TypeFor[J]().String(),
				Err:      err,
			}
		}
	}
	return raw, nil
}

func (c *cached[J]) update(env load.Envelope) error {
	raw, err := c.decode(env)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.env = env
	c.raw = raw
	c.mu.Unlock()
	return nil
}

func (c *cached[J]) get() J {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw
}

func (c *cached[J]) envelope() load.Envelope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.env
}
