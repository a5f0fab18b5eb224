// Command phoenicia runs the Surreal Phoenicians trading core: a surreal
// price demo, market boards and autopilot simulations saved to SQLite.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Lunthu/Surreal-Phoenicians/internal/config"
	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/persistence"
	"github.com/Lunthu/Surreal-Phoenicians/internal/voyage"
)

var (
	cfg      *config.Config
	seedFlag int64
	dbFlag   string
	worldArg string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "phoenicia",
	Short: "Mediterranean trading with surreal prices",
	Long: `phoenicia runs the Surreal Phoenicians trading core.

Prices carry three axes: real coins, an infinitesimal reputation nudge and
an infinite embargo marker. Markets restock every 14 days.

Examples:
  phoenicia demo
  phoenicia market tyre
  phoenicia simulate --turns 40`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("seed") {
			cfg.Seed = seedFlag
		}
		if flags.Changed("db") {
			cfg.DBPath = dbFlag
		}
		if flags.Changed("world") {
			cfg.WorldPath = worldArg
		}
		if flags.Changed("log-level") {
			if cfg.LogLevel, err = config.ParseLevel(logLevel); err != nil {
				return err
			}
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", config.DefaultSeed, "random seed (env PHOENICIA_SEED)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", config.DefaultDBPath, "SQLite save file (env PHOENICIA_DB)")
	rootCmd.PersistentFlags().StringVar(&worldArg, "world", "", "YAML world definition (env PHOENICIA_WORLD)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error (env PHOENICIA_LOG_LEVEL)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the default logger: text on a terminal, JSON when
// piped.
func setupLogging(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func loadWorld() (*economy.World, error) {
	if cfg.WorldPath == "" {
		return economy.DefaultWorld(), nil
	}
	w, err := economy.LoadWorld(cfg.WorldPath)
	if err != nil {
		return nil, err
	}
	slog.Info("world loaded", "path", cfg.WorldPath, "cities", len(w.Cities), "goods", len(w.Goods))
	return w, nil
}

func gameOptions() engine.Options {
	return engine.Options{
		Rng:    entropy.NewSeeded(cfg.Seed),
		Sea:    voyage.NewSea(cfg.Seed),
		Logger: slog.Default(),
	}
}

func openDB() (*persistence.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", cfg.DBPath)
	return db, nil
}

// loadOrNewGame resumes the saved game, or starts one when fresh is set or
// nothing is saved.
func loadOrNewGame(db *persistence.DB, fresh bool) (*engine.Game, error) {
	if !fresh {
		ok, err := db.HasGame()
		if err != nil {
			return nil, fmt.Errorf("check save: %w", err)
		}
		if ok {
			warnSeedChange(db)
			return db.LoadGame(gameOptions())
		}
	}
	w, err := loadWorld()
	if err != nil {
		return nil, err
	}
	slog.Info("new game", "seed", cfg.Seed)
	return engine.New(w, gameOptions()), nil
}

// saveGame writes the game along with the seed it was played under.
func saveGame(db *persistence.DB, g *engine.Game) error {
	if err := db.SaveGame(g); err != nil {
		return err
	}
	return db.SaveMeta("seed", strconv.FormatInt(cfg.Seed, 10))
}

// warnSeedChange notes a resume under a different seed than the save was
// played with. The game still loads; only future randomness differs.
func warnSeedChange(db *persistence.DB) {
	saved, err := db.GetMeta("seed")
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return
	case err != nil:
		slog.Warn("read saved seed", "error", err)
		return
	}
	if saved != strconv.FormatInt(cfg.Seed, 10) {
		slog.Warn("resuming with a different seed", "saved", saved, "seed", cfg.Seed)
	}
}
