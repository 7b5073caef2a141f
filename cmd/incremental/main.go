// Command incremental runs the idle resource game in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/talgya/incremental/internal/clock"
	"github.com/talgya/incremental/internal/config"
	"github.com/talgya/incremental/internal/dispatch"
	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
	"github.com/talgya/incremental/internal/input"
	"github.com/talgya/incremental/internal/logging"
	"github.com/talgya/incremental/internal/persistence"
	"github.com/talgya/incremental/internal/tui"
)

const historyTimeFormat = "%Y-%m-%d %H:%M:%S"

func main() {
	configPath := flag.String("config", "", "config file (default ./incremental.yaml when present)")
	history := flag.Int("history", 0, "print the last N journal entries and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *history > 0 {
		err = printHistory(cfg.JournalPath, *history)
	} else {
		err = play(cfg)
	}
	if err != nil {
		slog.Error("exiting with error", "error", err)
		logFile.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logFile.Close()
}

func play(cfg config.Config) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("incremental needs an interactive terminal on stdout")
	}

	session := persistence.Session{ID: uuid.NewString(), StartedAt: time.Now()}
	slog.Info("session starting",
		"session", session.ID,
		"save", cfg.SavePath,
		"tick_interval", engine.TickInterval(),
	)

	// ── Load or start fresh ───────────────────────────────────────────
	gateway := persistence.NewGateway(cfg.SavePath, clock.Real{})
	state, catchUp, err := gateway.Load()
	if err != nil {
		return fmt.Errorf("load save: %w", err)
	}

	var events []engine.Event
	if state == nil {
		slog.Info("no save found, starting a new game")
		state = economy.DefaultState()
	} else if catchUp.Ticks > 0 {
		events = append(events, engine.CatchUpEvent(time.Now(), catchUp.Ticks, catchUp.Offline))
	}
	session.OfflineTicks = catchUp.Ticks

	journal := openJournal(cfg.JournalPath)
	if journal != nil {
		defer journal.Close()
	}

	// ── Dispatcher + terminal ─────────────────────────────────────────
	renderer := &tui.ProgramRenderer{}
	d := dispatch.New(state, gateway, dispatch.WithRenderer(renderer))
	program := tea.NewProgram(tui.NewModel(d), tea.WithAltScreen())
	renderer.Program = program

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := engine.NewTicker(engine.TickRate, clock.Real{})
	go func() {
		_ = ticker.Run(ctx, func() error { return d.Post(dispatch.TickEvent{}) })
	}()

	done := make(chan error, 1)
	go func() {
		done <- d.Run()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		slog.Error("terminal program failed", "error", err)
	}
	// The program can end on its own (terminal error); the game still saves.
	// A dispatcher that already stopped ignores this.
	_ = d.Post(dispatch.IntentEvent{Intent: input.Quit})
	runErr := <-done
	cancel()

	// ── Journal ───────────────────────────────────────────────────────
	stats := d.Stats()
	session.EndedAt = time.Now()
	session.LiveTicks = stats.Ticks
	session.Upgrades = stats.Upgrades
	events = append(events, d.Events()...)
	recordSession(journal, session, events)

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Game saved to %s. %s ticks this session, %d upgrades.\n",
		cfg.SavePath, humanize.Comma(int64(stats.Ticks)), stats.Upgrades)
	if journal != nil {
		if total, err := journal.LifetimeTicks(); err == nil {
			fmt.Printf("Lifetime: %s ticks.\n", humanize.Comma(int64(total)))
		}
	}
	return nil
}

// openJournal returns nil when the journal is disabled or cannot be opened.
func openJournal(path string) *persistence.Journal {
	if path == "" {
		return nil
	}
	j, err := persistence.OpenJournal(path)
	if err != nil {
		slog.Warn("journal unavailable, history will not be recorded", "path", path, "error", err)
		return nil
	}
	return j
}

func recordSession(j *persistence.Journal, s persistence.Session, events []engine.Event) {
	if j == nil {
		return
	}
	if err := j.SaveSession(s); err != nil {
		slog.Warn("journal session write failed", "error", err)
		return
	}
	if err := j.SaveEvents(s.ID, events); err != nil {
		slog.Warn("journal event write failed", "error", err)
	}
	if err := j.SaveMeta("last_session", s.ID); err != nil {
		slog.Warn("journal meta write failed", "error", err)
	}
	if err := j.SaveMeta("last_session_end", strconv.FormatInt(s.EndedAt.Unix(), 10)); err != nil {
		slog.Warn("journal meta write failed", "error", err)
	}
	slog.Info("session recorded",
		"session", s.ID,
		"offline_ticks", s.OfflineTicks,
		"live_ticks", s.LiveTicks,
		"events", len(events),
	)
}

func printHistory(path string, limit int) error {
	if path == "" {
		return errors.New("journal is disabled (journal_path is empty)")
	}
	j, err := persistence.OpenJournal(path)
	if err != nil {
		return err
	}
	defer j.Close()

	events, err := j.RecentEvents(limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No journal entries yet.")
	}
	for _, e := range events {
		fmt.Printf("%s  %-8s  %s\n", strftime.Format(historyTimeFormat, e.At.Local()), e.Category, e.Description)
	}

	if last, err := j.GetMeta("last_session"); err == nil && last != "" {
		fmt.Printf("Last session: %s\n", last)
	}
	total, err := j.LifetimeTicks()
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	fmt.Printf("Lifetime: %s ticks.\n", humanize.Comma(int64(total)))
	return nil
}
