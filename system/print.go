package system

import (
	"log/slog"

	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/engine"
)

// PrintBasicComponentsSystem logs every entity carrying all five basic test components
type PrintBasicComponentsSystem struct {
	Logger *slog.Logger
}

func (s PrintBasicComponentsSystem) Run(w *engine.World) error {
	bools, ok1 := engine.GetStore[component.BasicBooleanComponent](w)
	numbers, ok2 := engine.GetStore[component.BasicNumberComponent](w)
	texts, ok3 := engine.GetStore[component.BasicTextComponent](w)
	vectors, ok4 := engine.GetStore[component.BasicVectorComponent](w)
	maps, ok5 := engine.GetStore[component.BasicMapComponent](w)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil
	}

	entities := w.Query().With(bools).With(numbers).With(texts).With(vectors).With(maps).Execute()
	for _, e := range entities {
		b, _ := bools.Get(e)
		n, _ := numbers.Get(e)
		t, _ := texts.Get(e)
		v, _ := vectors.Get(e)
		m, _ := maps.Get(e)

		s.Logger.Info("basic components",
			"entity", uint64(e),
			slog.Group("components",
				"boolean", b.Boolean,
				"number", n.Number,
				"text", t.Text,
				"vector", v.Vector,
				"map", m.Map,
			),
		)
	}
	return nil
}
