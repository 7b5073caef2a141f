// Package persistence stores the game: a JSON save file that is the source of
// truth, and a SQLite journal of past sessions.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/incremental/internal/clock"
	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
)

// DefaultSavePath is used when no save path is configured.
const DefaultSavePath = "save.json"

// ErrCorruptSave wraps any decode or validation failure of an existing save.
var ErrCorruptSave = errors.New("corrupt save")

// CatchUp describes the offline progress applied by Load.
type CatchUp struct {
	Offline time.Duration
	Ticks   uint64
}

// Gateway reads and writes the save file.
type Gateway struct {
	Path  string
	Rate  float64     // Ticks per second used for offline catch-up
	Clock clock.Clock // Compared against the file's modification time
}

// NewGateway creates a gateway at path using the live tick rate.
func NewGateway(path string, clk clock.Clock) *Gateway {
	if path == "" {
		path = DefaultSavePath
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Gateway{Path: path, Rate: engine.TickRate, Clock: clk}
}

// Save writes the full state as indented JSON. The file is written beside the
// target and renamed over it, so a reader never sees a partial save. Its
// modification time is set from the gateway clock.
func (g *Gateway) Save(gs *economy.GameState) error {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}

	dir := filepath.Dir(g.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}

	now := g.Clock.Now()
	if err := os.Chtimes(tmpPath, now, now); err != nil {
		return fmt.Errorf("stamp save: %w", err)
	}
	if err := os.Rename(tmpPath, g.Path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}

	slog.Debug("game saved", "path", g.Path, "bytes", humanize.Bytes(uint64(len(data))))
	return nil
}

// Load reads the save and applies offline progress for the time elapsed
// since it was written. A missing file returns a nil state and no error.
func (g *Gateway) Load() (*economy.GameState, CatchUp, error) {
	data, err := os.ReadFile(g.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, CatchUp{}, nil
	}
	if err != nil {
		return nil, CatchUp{}, fmt.Errorf("read save: %w", err)
	}

	info, err := os.Stat(g.Path)
	if err != nil {
		return nil, CatchUp{}, fmt.Errorf("stat save: %w", err)
	}

	var gs economy.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, CatchUp{}, fmt.Errorf("%w: %s: %w", ErrCorruptSave, g.Path, err)
	}
	if gs.Len() == 0 {
		return nil, CatchUp{}, fmt.Errorf("%w: %s: no resources", ErrCorruptSave, g.Path)
	}
	if err := gs.Validate(); err != nil {
		return nil, CatchUp{}, fmt.Errorf("%w: %s: %w", ErrCorruptSave, g.Path, err)
	}

	elapsed := g.Clock.Now().Sub(info.ModTime())
	if elapsed < 0 {
		slog.Warn("save is dated in the future, skipping offline progress",
			"path", g.Path,
			"modified", info.ModTime(),
		)
		elapsed = 0
	}

	ticks := engine.TicksIn(elapsed, g.Rate)
	engine.Advance(&gs, ticks)

	slog.Info("save loaded",
		"path", g.Path,
		"offline", elapsed.Round(time.Second),
		"ticks", humanize.Comma(int64(ticks)),
	)
	return &gs, CatchUp{Offline: elapsed, Ticks: ticks}, nil
}
