package component

import (
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const MeshGraphicID = "mesh_graphic"

type meshGraphicJSON struct {
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Width       float32 `json:"width"`
	Height      float32 `json:"height"`
	R           float32 `json:"r"`
	G           float32 `json:"g"`
	B           float32 `json:"b"`
	A           float32 `json:"a"`
	StrokeWidth float32 `json:"stroke_width"`
}

// MeshGraphicComponent is a stroked rectangle drawn behind an entity's text
type MeshGraphicComponent struct {
	Mesh *render.Mesh
}

func (j meshGraphicJSON) build() MeshGraphicComponent {
	mesh := render.NewMesh()
	mesh.Stroke(
		render.Rectangle{X: j.X, Y: j.Y, Width: j.Width, Height: j.Height},
		render.Color{R: j.R, G: j.G, B: j.B, A: j.A},
		j.StrokeWidth,
	)
	return MeshGraphicComponent{Mesh: mesh}
}

// MeshGraphicLoader builds a mesh from raw rectangle and color fields
type MeshGraphicLoader struct {
	payload *cached[meshGraphicJSON]
}

// NewMeshGraphicLoader validates a mesh_graphic envelope
func NewMeshGraphicLoader(env load.Envelope) (Loader, error) {
	payload, err := newCached[meshGraphicJSON](MeshGraphicID, env, nil)
	if err != nil {
		return nil, err
	}
	return &MeshGraphicLoader{payload: payload}, nil
}

func (l *MeshGraphicLoader) Attach(eb *engine.EntityBuilder, _ *engine.World, _ render.Window) (*engine.EntityBuilder, error) {
	eb = engine.With(eb, l.payload.get().build())
	return eb, eb.Err()
}

func (l *MeshGraphicLoader) Update(env load.Envelope) error {
	return l.payload.update(env)
}

func (l *MeshGraphicLoader) Envelope() load.Envelope {
	return l.payload.envelope()
}

func (l *MeshGraphicLoader) Name() string {
	return "Mesh Graphic"
}
