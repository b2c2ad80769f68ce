// Package component holds the attachable component types and the loaders that build them from envelopes
package component

import (
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

// Loader is a validated payload that can attach its component to entities under construction
//
// Construction validates the tag and decodes the payload. Attach may read shared
// world resources and must stage exactly one component on the builder. Update
// replaces the cached payload only when the new envelope validates completely.
// Envelope returns the envelope currently cached.
type Loader interface {
	Attach(eb *engine.EntityBuilder, w *engine.World, win render.Window) (*engine.EntityBuilder, error)
	Update(env load.Envelope) error
	Envelope() load.Envelope
	Name() string
}

// Constructor builds a loader from an envelope carrying its tag
type Constructor func(env load.Envelope) (Loader, error)
