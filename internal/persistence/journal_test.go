package persistence

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := j.SaveMeta("last_session", "abc"); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	j.Close()

	j, err = OpenJournal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	got, err := j.GetMeta("last_session")
	if err != nil || got != "abc" {
		t.Fatalf("expected abc got %q %v", got, err)
	}
}

func TestJournalMeta(t *testing.T) {
	j := openTestJournal(t)

	got, err := j.GetMeta("missing")
	if err != nil || got != "" {
		t.Fatalf("expected empty value for missing key got %q %v", got, err)
	}
	if err := j.SaveMeta("k", "1"); err != nil {
		t.Fatalf("save meta: %v", err)
	}
	if err := j.SaveMeta("k", "2"); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}
	if got, _ := j.GetMeta("k"); got != "2" {
		t.Fatalf("expected overwritten value 2 got %q", got)
	}
}

func TestJournalLifetimeTicks(t *testing.T) {
	j := openTestJournal(t)

	total, err := j.LifetimeTicks()
	if err != nil || total != 0 {
		t.Fatalf("expected 0 on empty journal got %d %v", total, err)
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := Session{ID: "a", StartedAt: start, EndedAt: start.Add(time.Minute), OfflineTicks: 10, LiveTicks: 1800}
	if err := j.SaveSession(first); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := j.SaveSession(Session{ID: "b", StartedAt: start, EndedAt: start, OfflineTicks: 5, LiveTicks: 5}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	// Re-saving a session replaces it.
	first.LiveTicks = 1900
	if err := j.SaveSession(first); err != nil {
		t.Fatalf("replace session: %v", err)
	}

	total, err = j.LifetimeTicks()
	if err != nil {
		t.Fatalf("lifetime ticks: %v", err)
	}
	if total != 10+1900+5+5 {
		t.Fatalf("expected %d got %d", 10+1900+5+5, total)
	}
}

func TestJournalEvents(t *testing.T) {
	j := openTestJournal(t)
	at := time.Date(2025, 2, 3, 4, 5, 6, 7_000_000, time.UTC)

	upgrade := engine.UpgradeEvent(42, at, engine.Receipt{
		Outcome: engine.Applied,
		Kind:    economy.KindIron,
		Cost:    economy.NewCost(math.MaxUint64, economy.KindStone),
		Level:   9,
	})
	catchUp := engine.CatchUpEvent(at.Add(time.Second), 300, 10*time.Second)

	if err := j.SaveEvents("s1", nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if err := j.SaveEvents("s1", []engine.Event{upgrade, catchUp}); err != nil {
		t.Fatalf("save events: %v", err)
	}

	got, err := j.RecentEvents(10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events got %d", len(got))
	}

	// Newest first.
	if got[0].Category != engine.CategoryCatchUp || got[0].Description != catchUp.Description {
		t.Fatalf("unexpected newest event %+v", got[0])
	}
	u := got[1]
	if u.Category != engine.CategoryUpgrade || u.Tick != 42 || u.Kind != economy.KindIron || u.Level != 9 {
		t.Fatalf("unexpected upgrade event %+v", u)
	}
	if u.Cost != upgrade.Cost {
		t.Fatalf("expected cost %v got %v", upgrade.Cost, u.Cost)
	}
	if !u.At.Equal(at) {
		t.Fatalf("expected time %v got %v", at, u.At)
	}

	limited, err := j.RecentEvents(1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected limit 1 to return 1 event got %d %v", len(limited), err)
	}
}
