package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talgya/incremental/internal/input"
)

// TranslateKey converts a Bubble Tea key message into the game's key model.
// Keys the game never binds report false.
func TranslateKey(msg tea.KeyMsg) (input.Key, bool) {
	var mods input.Modifiers
	if msg.Alt {
		mods |= input.ModAlt
	}

	switch msg.Type {
	case tea.KeyEsc:
		return input.Key{Code: input.CodeEsc, Mods: mods}, true
	case tea.KeyEnter:
		return input.Key{Code: input.CodeEnter, Mods: mods}, true
	case tea.KeyUp:
		return input.Key{Code: input.CodeUp, Mods: mods}, true
	case tea.KeyDown:
		return input.Key{Code: input.CodeDown, Mods: mods}, true
	case tea.KeyCtrlC:
		return input.Char('c', mods|input.ModCtrl), true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return input.Key{}, false
		}
		return input.Char(msg.Runes[0], mods), true
	}
	return input.Key{}, false
}
