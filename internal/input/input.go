// Package input translates raw key presses into game intents.
package input

import "fmt"

// Code identifies the physical key.
type Code uint8

const (
	CodeUnknown Code = iota
	CodeRune         // Printable character in Key.Rune
	CodeEsc
	CodeEnter
	CodeUp
	CodeDown
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Key is a single key press as reported by the terminal driver.
type Key struct {
	Code Code
	Rune rune
	Mods Modifiers
}

// Char builds a key press for a printable character.
func Char(r rune, mods Modifiers) Key {
	return Key{Code: CodeRune, Rune: r, Mods: mods}
}

func (k Key) String() string {
	prefix := ""
	if k.Mods&ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if k.Mods&ModAlt != 0 {
		prefix += "alt+"
	}
	if k.Mods&ModShift != 0 {
		prefix += "shift+"
	}
	switch k.Code {
	case CodeRune:
		return prefix + string(k.Rune)
	case CodeEsc:
		return prefix + "esc"
	case CodeEnter:
		return prefix + "enter"
	case CodeUp:
		return prefix + "up"
	case CodeDown:
		return prefix + "down"
	}
	return fmt.Sprintf("%skey(%d)", prefix, uint8(k.Code))
}

// Intent is a semantic action, decoupled from the key that produced it.
type Intent uint8

const (
	Quit Intent = iota + 1
	CursorUp
	CursorDown
	Upgrade
)

var intentNames = map[Intent]string{
	Quit:       "quit",
	CursorUp:   "cursor_up",
	CursorDown: "cursor_down",
	Upgrade:    "upgrade",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", uint8(i))
}

// Map returns the intent bound to k. Unbound keys report ok=false.
//
//	q, Q, esc           quit
//	ctrl+c, ctrl+C      quit (control must be the only modifier)
//	down / up           move the cursor
//	enter               upgrade the selection
func Map(k Key) (Intent, bool) {
	switch k.Code {
	case CodeEsc:
		return Quit, true
	case CodeDown:
		return CursorDown, true
	case CodeUp:
		return CursorUp, true
	case CodeEnter:
		return Upgrade, true
	case CodeRune:
		switch {
		case k.Rune == 'q' || k.Rune == 'Q':
			return Quit, true
		case (k.Rune == 'c' || k.Rune == 'C') && k.Mods == ModCtrl:
			return Quit, true
		}
	}
	return 0, false
}
