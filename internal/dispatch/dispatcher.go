// Package dispatch runs the single-threaded control loop: ticks, key presses
// and the intents they produce are drained from one FIFO and routed to the
// progression engine, the upgrade resolver or the selection cursor.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Workiva/go-datastructures/queue"

	"github.com/talgya/incremental/internal/clock"
	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
	"github.com/talgya/incremental/internal/input"
)

// ErrStopped is returned when posting to, or handling with, a stopped dispatcher.
var ErrStopped = errors.New("dispatcher stopped")

// Saver persists the game state when the player quits.
type Saver interface {
	Save(gs *economy.GameState) error
}

// Renderer receives a snapshot after every processed event.
type Renderer interface {
	Render(Frame)
}

// Dispatcher owns the game state and the selection cursor for the lifetime
// of the loop. Only the goroutine calling Run (or Handle) touches them.
type Dispatcher struct {
	state  *economy.GameState
	cursor Cursor
	status Status

	queue    *queue.Queue
	saver    Saver
	renderer Renderer
	clock    clock.Clock

	stats   Stats
	events  []engine.Event
	saveErr error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRenderer attaches a render collaborator.
func WithRenderer(r Renderer) Option {
	return func(d *Dispatcher) { d.renderer = r }
}

// WithClock sets the clock used to timestamp recorded events.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// New creates a running dispatcher over state. saver is called on quit.
func New(state *economy.GameState, saver Saver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		state: state,
		saver: saver,
		queue: queue.New(64),
		clock: clock.Real{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Post appends ev to the loop's queue. It never blocks and never drops;
// it fails only once the dispatcher has stopped. Safe for concurrent use.
func (d *Dispatcher) Post(ev Event) error {
	if err := d.queue.Put(ev); err != nil {
		return ErrStopped
	}
	return nil
}

// Run drains the queue one event at a time, in arrival order, until a Quit
// intent stops the loop. It returns the save error if saving on quit failed.
func (d *Dispatcher) Run() error {
	defer d.queue.Dispose()

	slog.Info("dispatcher started", "resources", d.state.Len())
	d.publish()

	for d.status == Running {
		items, err := d.queue.Get(1)
		if err != nil {
			return ErrStopped
		}
		for _, item := range items {
			if err := d.Handle(item.(Event)); err != nil {
				return err
			}
		}
	}

	slog.Info("dispatcher stopped",
		"ticks", d.stats.Ticks,
		"upgrades", d.stats.Upgrades,
		"rejected", d.stats.Rejected,
	)
	return nil
}

// Handle processes a single event to completion.
func (d *Dispatcher) Handle(ev Event) error {
	if d.status == Stopped {
		return ErrStopped
	}

	var err error
	switch ev := ev.(type) {
	case TickEvent:
		engine.Tick(d.state)
		d.stats.Ticks++
	case KeyEvent:
		if intent, ok := input.Map(ev.Key); ok {
			// Intents join the back of the queue, behind anything already waiting.
			if perr := d.queue.Put(IntentEvent{Intent: intent}); perr != nil {
				return ErrStopped
			}
		}
	case IntentEvent:
		err = d.apply(ev.Intent)
	default:
		panic(fmt.Sprintf("dispatch: unknown event %T", ev))
	}

	d.publish()
	return err
}

func (d *Dispatcher) apply(intent input.Intent) error {
	n := d.state.Len()
	switch intent {
	case input.CursorDown:
		d.cursor.Next(n)
	case input.CursorUp:
		d.cursor.Previous(n)
	case input.Upgrade:
		d.upgrade()
	case input.Quit:
		return d.quit()
	default:
		panic(fmt.Sprintf("dispatch: unknown intent %v", intent))
	}
	return nil
}

// upgrade targets the cursor. With nothing selected, pressing upgrade
// selects the next row instead.
func (d *Dispatcher) upgrade() {
	index, ok := d.cursor.Selected()
	if !ok {
		d.cursor.Next(d.state.Len())
		return
	}

	receipt := engine.Upgrade(d.state, index, true)
	switch receipt.Outcome {
	case engine.Applied:
		d.stats.Upgrades++
		d.events = append(d.events, engine.UpgradeEvent(d.stats.Ticks, d.clock.Now(), receipt))
		slog.Info("upgrade applied",
			"resource", receipt.Kind,
			"level", receipt.Level,
			"cost", receipt.Cost.String(),
		)
	case engine.NoCostResource:
		d.stats.Rejected++
		slog.Warn("roster has no resource to pay with",
			"resource", receipt.Kind,
			"cost_kind", receipt.Cost.Kind,
		)
	default:
		d.stats.Rejected++
		slog.Debug("upgrade rejected",
			"resource", receipt.Kind,
			"outcome", receipt.Outcome,
			"cost", receipt.Cost.String(),
		)
	}
}

func (d *Dispatcher) quit() error {
	d.status = Stopped
	if err := d.saver.Save(d.state); err != nil {
		d.saveErr = fmt.Errorf("save on quit: %w", err)
		slog.Error("save on quit failed", "error", err)
		return d.saveErr
	}
	slog.Info("game saved on quit")
	return nil
}

func (d *Dispatcher) publish() {
	if d.renderer == nil {
		return
	}
	d.renderer.Render(Frame{
		State:   d.state.Clone(),
		Cursor:  d.cursor,
		Status:  d.status,
		SaveErr: d.saveErr,
	})
}

// Status reports whether the loop is still running.
func (d *Dispatcher) Status() Status {
	return d.status
}

// Cursor returns the current selection.
func (d *Dispatcher) Cursor() Cursor {
	return d.cursor
}

// Snapshot returns a deep copy of the game state.
func (d *Dispatcher) Snapshot() economy.GameState {
	return d.state.Clone()
}

// Stats returns the session counters.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// Events returns the notable events recorded this session.
func (d *Dispatcher) Events() []engine.Event {
	out := make([]engine.Event, len(d.events))
	copy(out, d.events)
	return out
}
