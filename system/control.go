package system

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenery/audio"
	"github.com/lixenwraith/scenery/component"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/input"
	"github.com/lixenwraith/scenery/render"
)

// MovePlayersSystem steps player-controlled entities with the arrow keys,
// clamped to the window
type MovePlayersSystem struct {
	Input  *input.State
	Window render.Window
}

func (s MovePlayersSystem) Run(w *engine.World) error {
	controls, ok := engine.GetStore[component.PlayerControlComponent](w)
	if !ok {
		return nil
	}
	positions, ok := engine.GetStore[component.PositionComponent](w)
	if !ok {
		return nil
	}

	dx, dy := 0, 0
	if s.active(tcell.KeyLeft) {
		dx--
	}
	if s.active(tcell.KeyRight) {
		dx++
	}
	if s.active(tcell.KeyUp) {
		dy--
	}
	if s.active(tcell.KeyDown) {
		dy++
	}
	if dx == 0 && dy == 0 {
		return nil
	}

	maxX, maxY := -1, -1
	if s.Window != nil {
		width, height := s.Window.Size()
		maxX, maxY = width-1, height-1
	}

	for _, e := range w.Query().With(controls).With(positions).Execute() {
		pos, _ := positions.Get(e)
		pos.X = step(pos.X, dx, maxX)
		pos.Y = step(pos.Y, dy, maxY)
		positions.Set(e, pos)
	}
	return nil
}

func (s MovePlayersSystem) active(code tcell.Key) bool {
	k := input.CodeKey(code)
	return s.Input.Pressed(k) || s.Input.Held(k)
}

// step moves v by d within [0, limit]; limit < 0 means unbounded
func step(v uint16, d, limit int) uint16 {
	n := int(v) + d
	if n < 0 {
		n = 0
	}
	if limit >= 0 && n > limit {
		n = limit
	}
	if n > 0xFFFF {
		n = 0xFFFF
	}
	return uint16(n)
}

// PlaySoundsSystem plays every player-controlled entity's sound when Key is pressed
type PlaySoundsSystem struct {
	Input *input.State
	Key   input.Key
}

func (s PlaySoundsSystem) Run(w *engine.World) error {
	if !s.Input.Pressed(s.Key) {
		return nil
	}
	ctrl, ok := engine.GetResource[*audio.Controller](w.Resources)
	if !ok {
		return nil
	}
	controls, ok := engine.GetStore[component.PlayerControlComponent](w)
	if !ok {
		return nil
	}
	sounds, ok := engine.GetStore[component.SoundComponent](w)
	if !ok {
		return nil
	}

	for _, e := range w.Query().With(controls).With(sounds).Execute() {
		snd, _ := sounds.Get(e)
		var err error
		if snd.Buffer != nil {
			err = ctrl.PlayClip(snd.Buffer, snd.Volume)
		} else {
			err = ctrl.Play(snd.Clip, snd.Volume)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
