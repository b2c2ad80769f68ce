package input

import (
	"slices"

	"github.com/gdamore/tcell/v2"
)

// DefaultHoldTicks is how long a key stays held without a repeat event
const DefaultHoldTicks = 30

// State tracks keys pressed this tick, keys held from earlier ticks and keys released this tick
//
// Terminals report presses and auto-repeats but no releases, so a held key
// that sees no repeat for holdTicks ticks is released by Clear.
type State struct {
	pressed   map[Key]struct{}
	held      map[Key]int
	released  map[Key]struct{}
	holdTicks int
}

// NewState creates an empty state; holdTicks <= 0 disables implicit release
func NewState(holdTicks int) *State {
	return &State{
		pressed:   make(map[Key]struct{}),
		held:      make(map[Key]int),
		released:  make(map[Key]struct{}),
		holdTicks: holdTicks,
	}
}

// Feed applies a tcell event; non-key events are ignored
func (s *State) Feed(ev tcell.Event) {
	if kev, ok := ev.(*tcell.EventKey); ok {
		s.Press(KeyOf(kev))
	}
}

// Press records a key press; a repeat of a held key only refreshes it
func (s *State) Press(k Key) {
	if _, ok := s.held[k]; ok {
		s.held[k] = 0
		return
	}
	s.pressed[k] = struct{}{}
}

// Release records a key release
func (s *State) Release(k Key) {
	s.released[k] = struct{}{}
	delete(s.held, k)
}

// Clear ends the tick: pressed keys become held, released keys are forgotten
// A key released in the same tick it was pressed is not carried into held
func (s *State) Clear() {
	releasedNow := s.released
	s.released = make(map[Key]struct{})

	if s.holdTicks > 0 {
		for k, age := range s.held {
			age++
			if age >= s.holdTicks {
				delete(s.held, k)
				s.released[k] = struct{}{}
				continue
			}
			s.held[k] = age
		}
	}

	for k := range s.pressed {
		if _, ok := releasedNow[k]; ok {
			continue
		}
		s.held[k] = 0
	}
	clear(s.pressed)
}

// Pressed reports whether k went down this tick
func (s *State) Pressed(k Key) bool {
	_, ok := s.pressed[k]
	return ok
}

// Held reports whether k is down from an earlier tick
func (s *State) Held(k Key) bool {
	_, ok := s.held[k]
	return ok
}

// Released reports whether k went up this tick
func (s *State) Released(k Key) bool {
	_, ok := s.released[k]
	return ok
}

// PressedKeys returns the keys pressed this tick in a stable order
func (s *State) PressedKeys() []Key {
	return sortedKeys(s.pressed)
}

// HeldKeys returns the held keys in a stable order
func (s *State) HeldKeys() []Key {
	keys := make([]Key, 0, len(s.held))
	for k := range s.held {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// ReleasedKeys returns the keys released this tick in a stable order
func (s *State) ReleasedKeys() []Key {
	return sortedKeys(s.released)
}

func sortedKeys(set map[Key]struct{}) []Key {
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b Key) int {
	switch {
	case a.less(b):
		return -1
	case b.less(a):
		return 1
	}
	return 0
}
