package system

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/scenery/catalog"
	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/render"
)

var errDrawNoFonts = errors.New("draw text box: font catalog not published")

// DrawBasicSystem draws every drawable sprite
type DrawBasicSystem struct {
	Frame *render.Frame
}

func (s DrawBasicSystem) Run(w *engine.World) error {
	drawables, ok := engine.GetStore[component.DrawableComponent](w)
	if !ok {
		return nil
	}
	for _, e := range drawables.All() {
		d, _ := drawables.Get(e)
		s.Frame.DrawSprite(d.Image, d.Sprite)
	}
	return nil
}

// DrawTextBoxSystem draws each entity holding both a mesh and a text display:
// the mesh first, then the first line of text in the entity's font
type DrawTextBoxSystem struct {
	Frame *render.Frame
}

func (s DrawTextBoxSystem) Run(w *engine.World) error {
	meshes, ok := engine.GetStore[component.MeshGraphicComponent](w)
	if !ok {
		return nil
	}
	texts, ok := engine.GetStore[component.TextDisplayComponent](w)
	if !ok {
		return nil
	}

	entities := w.Query().With(meshes).With(texts).Execute()
	if len(entities) == 0 {
		return nil
	}

	fonts, ok := engine.GetResource[*catalog.FontCatalog](w.Resources)
	if !ok {
		return errDrawNoFonts
	}

	for _, e := range entities {
		mg, _ := meshes.Get(e)
		td, _ := texts.Get(e)

		font, ok := fonts.Get(td.Font)
		if !ok {
			return fmt.Errorf("draw text box: entity %d: unknown font %q", e, td.Font)
		}
		mg.Mesh.Draw(s.Frame)
		if line, ok := td.Line(0); ok {
			s.Frame.DrawText(line, font.Style)
		}
	}
	return nil
}
