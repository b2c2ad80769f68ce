// Package system holds the per-tick passes scenes run over the world
package system

import (
	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/engine"
)

// AnimateSpritesSystem advances every positioned animation one frame
// and stores the resulting sprite as the entity's drawable
// Mutates components, so run it under World.Write
type AnimateSpritesSystem struct{}

func (AnimateSpritesSystem) Run(w *engine.World) error {
	animations, ok := engine.GetStore[component.AnimationComponent](w)
	if !ok {
		return nil
	}
	positions, ok := engine.GetStore[component.PositionComponent](w)
	if !ok {
		return nil
	}
	drawables, ok := engine.GetStore[component.DrawableComponent](w)
	if !ok {
		return nil
	}

	for _, e := range w.Query().With(animations).With(positions).Execute() {
		anim, _ := animations.Get(e)
		pos, _ := positions.Get(e)

		sprite := anim.NextSprite(pos)
		animations.Set(e, anim)
		drawables.Set(e, component.DrawableComponent{Image: anim.Image, Sprite: sprite})
	}
	return nil
}
