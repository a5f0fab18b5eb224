package persistence

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "phoenicia.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietOptions() engine.Options {
	return engine.Options{
		Rng:    entropy.NewSeeded(7),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLoadWithoutSave(t *testing.T) {
	is := is.New(t)
	db := openTemp(t)

	ok, err := db.HasGame()
	is.NoErr(err)
	is.True(!ok)

	_, err = db.LoadGame(quietOptions())
	is.True(errors.Is(err, ErrNoGame))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	is := is.New(t)
	db := openTemp(t)

	g := engine.New(economy.DefaultWorld(), quietOptions())
	_, err := g.Buy("glass", 4)
	is.NoErr(err)
	g.GrantCharter(economy.Charter{Cities: []string{"gadir"}, Goods: []string{"purple_dye"}})
	_, err = g.Travel("gadir")
	is.NoErr(err)
	_, err = g.Sell("glass", 1)
	is.NoErr(err)

	is.NoErr(db.SaveGame(g))
	ok, err := db.HasGame()
	is.NoErr(err)
	is.True(ok)

	loaded, err := db.LoadGame(quietOptions())
	is.NoErr(err)

	is.Equal(loaded.State, g.State)
	is.Equal(*loaded.Supply, *g.Supply)
	is.Equal(loaded.World.Goods, g.World.Goods)
	is.Equal(loaded.World.Cities, g.World.Cities)
	is.Equal(loaded.World.Routes, g.World.Routes)
	is.Equal(loaded.NetWorth(), g.NetWorth())
}

func TestSaveReplacesPreviousSave(t *testing.T) {
	is := is.New(t)
	db := openTemp(t)

	g := engine.New(economy.DefaultWorld(), quietOptions())
	is.NoErr(db.SaveGame(g))

	_, err := g.Buy("salt", 2)
	is.NoErr(err)
	is.NoErr(db.SaveGame(g))

	loaded, err := db.LoadGame(quietOptions())
	is.NoErr(err)
	is.Equal(loaded.State.Cargo, map[string]int{"salt": 2})
	is.Equal(len(loaded.State.Events), 1)
	is.Equal(loaded.World.Cities["carthage"].Stock["salt"], 28)
}

func TestRecentEventsAndMeta(t *testing.T) {
	is := is.New(t)
	db := openTemp(t)

	g := engine.New(economy.DefaultWorld(), quietOptions())
	_, err := g.Buy("wine", 1)
	is.NoErr(err)
	_, err = g.Buy("salt", 1)
	is.NoErr(err)
	is.NoErr(db.SaveGame(g))

	events, err := db.RecentEvents(1)
	is.NoErr(err)
	is.Equal(len(events), 1)
	is.Equal(events[0], g.State.Events[1])

	is.NoErr(db.SaveMeta("player", "Hanno"))
	v, err := db.GetMeta("player")
	is.NoErr(err)
	is.Equal(v, "Hanno")
}
