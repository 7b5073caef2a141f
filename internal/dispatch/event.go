package dispatch

import (
	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/input"
)

// Event is anything the loop consumes: a tick, a raw key or an intent.
type Event interface {
	event()
}

// TickEvent advances the simulation by one tick.
type TickEvent struct{}

// KeyEvent carries a raw key press from the terminal driver.
type KeyEvent struct {
	Key input.Key
}

// IntentEvent carries an intent derived from a key press.
type IntentEvent struct {
	Intent input.Intent
}

func (TickEvent) event()   {}
func (KeyEvent) event()    {}
func (IntentEvent) event() {}

// Status is the dispatcher lifecycle state.
type Status uint8

const (
	Running Status = iota
	Stopped
)

func (s Status) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Frame is the read-only snapshot handed to the renderer after each event.
type Frame struct {
	State   economy.GameState
	Cursor  Cursor
	Status  Status
	SaveErr error // Set on the Stopped frame when saving on quit failed
}

// Stats counts what happened during the session.
type Stats struct {
	Ticks    uint64 // Live ticks processed
	Upgrades uint64 // Applied upgrades
	Rejected uint64 // Upgrade attempts that changed nothing
}
