// Package engine provides the fixed-tick progression rule, the upgrade
// resolver and the tick timer.
package engine

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/talgya/incremental/internal/clock"
)

// TickRate is the number of simulation ticks per real second. The live loop
// and offline catch-up both use it; it is not user-configurable.
const TickRate = 30.0

// TickInterval is the wall-clock period of one tick at TickRate.
func TickInterval() time.Duration {
	return interval(TickRate)
}

// interval is the wall-clock period of one tick at rate.
func interval(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

// TicksIn converts a wall-clock span into whole ticks at rate (floored).
// Non-positive spans yield zero.
func TicksIn(elapsed time.Duration, rate float64) uint64 {
	if elapsed <= 0 || rate <= 0 {
		return 0
	}
	return uint64(math.Floor(elapsed.Seconds() * rate))
}

// Ticker is the timer collaborator: it emits tick events at a fixed rate.
type Ticker struct {
	Rate    float64     // Ticks per second
	Clock   clock.Clock // Time source for due-tick accounting
	Emitted uint64      // Ticks emitted since Run started
}

// NewTicker creates a ticker at the given rate.
func NewTicker(rate float64, clk clock.Clock) *Ticker {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Ticker{Rate: rate, Clock: clk}
}

// Run calls emit once per due tick until ctx is cancelled or emit fails.
// Due ticks are counted from elapsed time since Run started, so a late
// wake-up emits every tick it missed rather than dropping them.
func (t *Ticker) Run(ctx context.Context, emit func() error) error {
	period := interval(t.Rate)
	wake := time.NewTicker(period)
	defer wake.Stop()

	start := t.Clock.Now()
	slog.Debug("ticker started", "rate", t.Rate, "interval", period)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("ticker stopped", "emitted", t.Emitted)
			return nil
		case <-wake.C:
			due := TicksIn(t.Clock.Now().Sub(start), t.Rate)
			for t.Emitted < due {
				if err := emit(); err != nil {
					slog.Debug("ticker stopped by consumer", "emitted", t.Emitted, "error", err)
					return err
				}
				t.Emitted++
			}
		}
	}
}
