package engine

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/incremental/internal/economy"
)

// Event categories.
const (
	CategoryUpgrade = "upgrade"
	CategoryCatchUp = "catch_up"
)

// Event is a notable occurrence worth keeping in the session journal.
type Event struct {
	Tick        uint64 // Live tick count when it happened
	At          time.Time
	Category    string
	Kind        economy.Kind
	Level       uint64
	Cost        economy.Cost
	Description string
}

// UpgradeEvent records an applied upgrade.
func UpgradeEvent(tick uint64, at time.Time, r Receipt) Event {
	return Event{
		Tick:        tick,
		At:          at,
		Category:    CategoryUpgrade,
		Kind:        r.Kind,
		Level:       r.Level,
		Cost:        r.Cost,
		Description: fmt.Sprintf("%s upgraded to level %d for %s", r.Kind, r.Level, r.Cost),
	}
}

// CatchUpEvent records ticks replayed for time spent offline.
func CatchUpEvent(at time.Time, ticks uint64, offline time.Duration) Event {
	return Event{
		At:       at,
		Category: CategoryCatchUp,
		Description: fmt.Sprintf("replayed %s ticks for %s offline",
			humanize.Comma(int64(ticks)), offline.Round(time.Second)),
	}
}
