package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Key identifies one keyboard key: a tcell key code, or a rune when Code is tcell.KeyRune
type Key struct {
	Code tcell.Key
	Rune rune
}

// RuneKey returns the key for a printable rune
func RuneKey(r rune) Key {
	return Key{Code: tcell.KeyRune, Rune: r}
}

// CodeKey returns the key for a special key code
func CodeKey(code tcell.Key) Key {
	return Key{Code: code}
}

// KeyOf extracts the key from a tcell key event
func KeyOf(ev *tcell.EventKey) Key {
	if ev.Key() == tcell.KeyRune {
		return RuneKey(ev.Rune())
	}
	return CodeKey(ev.Key())
}

func (k Key) String() string {
	if k.Code == tcell.KeyRune {
		return fmt.Sprintf("%q", k.Rune)
	}
	if name, ok := tcell.KeyNames[k.Code]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k.Code)
}

func (k Key) less(o Key) bool {
	if k.Code != o.Code {
		return k.Code < o.Code
	}
	return k.Rune < o.Rune
}
