package component

import (
	"maps"
	"slices"

	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
)

// Mux maps load type ids to loader constructors
// Treat a Mux as immutable once handed to an assembly pass; With returns a copy
type Mux map[string]Constructor

// DefaultMux registers every component kind in this package
func DefaultMux() Mux {
	return Mux{
		BasicBooleanID:  Adapt[BasicBooleanComponent](),
		BasicNumberID:   Adapt[BasicNumberComponent](),
		BasicTextID:     Adapt[BasicTextComponent](),
		BasicVectorID:   Adapt[BasicVectorComponent](),
		BasicMapID:      Adapt[BasicMapComponent](),
		PositionID:      Adapt[PositionComponent](),
		PlayerControlID: Adapt[PlayerControlComponent](),
		MeshGraphicID:   NewMeshGraphicLoader,
		TextDisplayID:   NewTextDisplayLoader,
		AnimationID:     NewAnimationLoader,
		SoundID:         NewSoundLoader,
	}
}

// Resolve constructs the loader registered for the envelope's tag
func (m Mux) Resolve(env load.Envelope) (Loader, error) {
	ctor, ok := m[env.LoadTypeID]
	if !ok {
		return nil, &load.UnknownIDError{ID: env.LoadTypeID, Known: m.IDs()}
	}
	return ctor(env)
}

// IDs returns the registered ids in sorted order
func (m Mux) IDs() []string {
	return slices.Sorted(maps.Keys(m))
}

// With returns a copy of m with one more entry
func (m Mux) With(id string, ctor Constructor) Mux {
	out := maps.Clone(m)
	if out == nil {
		out = make(Mux, 1)
	}
	out[id] = ctor
	return out
}

// RegisterStores registers storage for every component type in this package
func RegisterStores(w *engine.World) {
	engine.RegisterStore[BasicBooleanComponent](w)
	engine.RegisterStore[BasicNumberComponent](w)
	engine.RegisterStore[BasicTextComponent](w)
	engine.RegisterStore[BasicVectorComponent](w)
	engine.RegisterStore[BasicMapComponent](w)
	engine.RegisterStore[PositionComponent](w)
	engine.RegisterStore[PlayerControlComponent](w)
	engine.RegisterStore[MeshGraphicComponent](w)
	engine.RegisterStore[TextDisplayComponent](w)
	engine.RegisterStore[AnimationComponent](w)
	engine.RegisterStore[DrawableComponent](w)
	engine.RegisterStore[SoundComponent](w)
}
