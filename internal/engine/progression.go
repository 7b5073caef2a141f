package engine

import (
	"math"

	"github.com/talgya/incremental/internal/economy"
)

// Tick advances every resource by one tick, in collection order.
//
// progress gains level*progress_per_tick/100; the whole part moves into
// amount and only the fractional remainder is kept, so 0 <= progress < 1
// holds afterwards. A level-0 resource never accrues.
func Tick(gs *economy.GameState) {
	for i := range gs.Resources {
		r := &gs.Resources[i]
		r.Progress += r.Rate()
		whole := math.Floor(r.Progress)
		if whole < 1 {
			continue
		}
		r.Amount = addSat(r.Amount, wholeUnits(whole))
		r.Progress -= whole
	}
}

// Advance runs Tick n times. Offline catch-up goes through here so replayed
// time is numerically identical to time played live.
func Advance(gs *economy.GameState, n uint64) {
	for i := uint64(0); i < n; i++ {
		Tick(gs)
	}
}

// wholeUnits converts a floored, non-negative float to uint64, saturating.
func wholeUnits(f float64) uint64 {
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(f)
}

func addSat(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}
