// Package persistence provides SQLite-based game state storage.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/supply"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// ErrNoGame is returned by LoadGame when nothing has been saved yet.
var ErrNoGame = errors.New("no saved game")

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS goods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		base_real REAL NOT NULL,
		base_eps REAL NOT NULL,
		monopoly INTEGER NOT NULL,
		fragile INTEGER NOT NULL,
		perishable INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS city_stock (
		city_id TEXT NOT NULL,
		good_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (city_id, good_id, kind)
	);

	CREATE TABLE IF NOT EXISTS modifiers (
		city_id TEXT NOT NULL,
		good_id TEXT NOT NULL,
		real_mod REAL NOT NULL,
		eps_mod REAL NOT NULL,
		omega_mod REAL NOT NULL,
		PRIMARY KEY (city_id, good_id)
	);

	CREATE TABLE IF NOT EXISTS routes (
		from_city TEXT NOT NULL,
		to_city TEXT NOT NULL,
		min_days INTEGER NOT NULL,
		max_days INTEGER NOT NULL,
		base_risk REAL NOT NULL,
		PRIMARY KEY (from_city, to_city)
	);

	CREATE TABLE IF NOT EXISTS charters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cities_json TEXT NOT NULL,
		goods_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cargo (
		good_id TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

const (
	stockCurrent = "stock"
	stockBase    = "base"
)

type stockRow struct {
	CityID   string `db:"city_id"`
	GoodID   string `db:"good_id"`
	Kind     string `db:"kind"`
	Quantity int    `db:"quantity"`
}

type modifierRow struct {
	CityID string `db:"city_id"`
	GoodID string `db:"good_id"`
	economy.CityModifier
}

type cityRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Region string `db:"region"`
}

type charterRow struct {
	CitiesJSON string `db:"cities_json"`
	GoodsJSON  string `db:"goods_json"`
}

type cargoRow struct {
	GoodID   string `db:"good_id"`
	Quantity int    `db:"quantity"`
}

// saveWorld writes the market reference data and current stock (full replace).
func saveWorld(tx *sqlx.Tx, w *economy.World) error {
	for _, table := range []string{"goods", "cities", "city_stock", "modifiers", "routes"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, id := range w.GoodIDs() {
		_, err := tx.NamedExec(`INSERT INTO goods
			(id, name, base_real, base_eps, monopoly, fragile, perishable)
			VALUES (:id, :name, :base_real, :base_eps, :monopoly, :fragile, :perishable)`,
			w.Goods[id])
		if err != nil {
			return fmt.Errorf("insert good %s: %w", id, err)
		}
	}

	stock, err := tx.Preparex("INSERT INTO city_stock (city_id, good_id, kind, quantity) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stock.Close()

	for _, id := range w.CityIDs() {
		c := w.Cities[id]
		if _, err := tx.Exec("INSERT INTO cities (id, name, region) VALUES (?, ?, ?)", c.ID, c.Name, c.Region); err != nil {
			return fmt.Errorf("insert city %s: %w", id, err)
		}
		for good, q := range c.Stock {
			if _, err := stock.Exec(c.ID, good, stockCurrent, q); err != nil {
				return fmt.Errorf("insert stock %s/%s: %w", id, good, err)
			}
		}
		for good, q := range c.BaseStock {
			if _, err := stock.Exec(c.ID, good, stockBase, q); err != nil {
				return fmt.Errorf("insert base stock %s/%s: %w", id, good, err)
			}
		}
		for good, m := range c.Modifiers {
			_, err := tx.NamedExec(`INSERT INTO modifiers (city_id, good_id, real_mod, eps_mod, omega_mod)
				VALUES (:city_id, :good_id, :real_mod, :eps_mod, :omega_mod)`,
				modifierRow{CityID: c.ID, GoodID: good, CityModifier: m})
			if err != nil {
				return fmt.Errorf("insert modifier %s/%s: %w", id, good, err)
			}
		}
	}

	for _, r := range w.Routes {
		_, err := tx.NamedExec(`INSERT INTO routes (from_city, to_city, min_days, max_days, base_risk)
			VALUES (:from_city, :to_city, :min_days, :max_days, :base_risk)`, r)
		if err != nil {
			return fmt.Errorf("insert route %s-%s: %w", r.From, r.To, err)
		}
	}
	return nil
}

func saveState(tx *sqlx.Tx, s *engine.State) error {
	for _, table := range []string{"charters", "cargo", "events"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, ch := range s.Charters {
		citiesJSON, _ := json.Marshal(ch.Cities)
		goodsJSON, _ := json.Marshal(ch.Goods)
		if _, err := tx.Exec("INSERT INTO charters (cities_json, goods_json) VALUES (?, ?)",
			string(citiesJSON), string(goodsJSON)); err != nil {
			return fmt.Errorf("insert charter: %w", err)
		}
	}

	for good, q := range s.Cargo {
		if _, err := tx.Exec("INSERT INTO cargo (good_id, quantity) VALUES (?, ?)", good, q); err != nil {
			return fmt.Errorf("insert cargo %s: %w", good, err)
		}
	}

	for _, e := range s.Events {
		_, err := tx.Exec(
			"INSERT INTO events (day, description, category) VALUES (?, ?, ?)",
			e.Day, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveGame performs a full save of the game in one transaction.
func (db *DB) SaveGame(g *engine.Game) error {
	s := g.State
	slog.Info("saving game", "day", s.Day, "city", s.CityID, "events", len(s.Events))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveWorld(tx, g.World); err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	if err := saveState(tx, s); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	shipJSON, _ := json.Marshal(s.Ship)
	statsJSON, _ := json.Marshal(s.Stats)
	meta := map[string]string{
		"day":              strconv.Itoa(s.Day),
		"city":             s.CityID,
		"cash":             s.Cash.String(),
		"start_cash":       s.StartCash.String(),
		"reputation":       strconv.FormatFloat(s.Reputation, 'g', -1, 64),
		"owns_house":       strconv.FormatBool(s.OwnsHouse),
		"completed":        strconv.FormatBool(s.Completed),
		"refresh_interval": strconv.Itoa(g.Supply.Interval),
		"last_refresh_day": strconv.Itoa(g.Supply.LastRefreshDay),
		"refreshes":        strconv.Itoa(g.Supply.Refreshes),
		"ship":             string(shipJSON),
		"stats":            string(statsJSON),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("game saved")
	return nil
}

// HasGame reports whether a game has been saved.
func (db *DB) HasGame() (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM game_meta WHERE key = 'day'"); err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoadGame rebuilds the saved game. Options supply what is not persisted:
// the random source, the sea and the logger.
func (db *DB) LoadGame(opts engine.Options) (*engine.Game, error) {
	ok, err := db.HasGame()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoGame
	}

	world, err := db.loadWorld()
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}

	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM game_meta"); err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value
	}

	m := metaReader{meta: meta}
	state := &engine.State{
		Day:        m.intValue("day"),
		CityID:     meta["city"],
		Cash:       m.numberValue("cash"),
		StartCash:  m.numberValue("start_cash"),
		Cargo:      make(map[string]int),
		Reputation: m.floatValue("reputation"),
		OwnsHouse:  m.boolValue("owns_house"),
		Completed:  m.boolValue("completed"),
	}
	m.decode("ship", &state.Ship)
	m.decode("stats", &state.Stats)
	sched := &supply.Scheduler{
		Interval:       m.intValue("refresh_interval"),
		LastRefreshDay: m.intValue("last_refresh_day"),
		Refreshes:      m.intValue("refreshes"),
	}
	if m.err != nil {
		return nil, fmt.Errorf("load meta: %w", m.err)
	}

	if err := db.loadState(state); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if _, ok := world.City(state.CityID); !ok {
		return nil, fmt.Errorf("load state: unknown city %q", state.CityID)
	}

	slog.Info("game loaded", "day", state.Day, "city", state.CityID)
	return engine.Restore(world, state, sched, opts), nil
}

func (db *DB) loadWorld() (*economy.World, error) {
	w := &economy.World{
		Goods:  make(map[string]*economy.Good),
		Cities: make(map[string]*economy.City),
	}

	var goods []economy.Good
	if err := db.conn.Select(&goods, "SELECT id, name, base_real, base_eps, monopoly, fragile, perishable FROM goods"); err != nil {
		return nil, err
	}
	for i := range goods {
		w.Goods[goods[i].ID] = &goods[i]
	}

	var cities []cityRow
	if err := db.conn.Select(&cities, "SELECT id, name, region FROM cities"); err != nil {
		return nil, err
	}
	for _, c := range cities {
		w.Cities[c.ID] = &economy.City{
			ID:        c.ID,
			Name:      c.Name,
			Region:    c.Region,
			Stock:     make(map[string]int),
			BaseStock: make(map[string]int),
			Modifiers: make(map[string]economy.CityModifier),
		}
	}

	var stock []stockRow
	if err := db.conn.Select(&stock, "SELECT city_id, good_id, kind, quantity FROM city_stock"); err != nil {
		return nil, err
	}
	for _, r := range stock {
		c, ok := w.Cities[r.CityID]
		if !ok {
			return nil, fmt.Errorf("stock for unknown city %q", r.CityID)
		}
		if r.Kind == stockBase {
			c.BaseStock[r.GoodID] = r.Quantity
		} else {
			c.Stock[r.GoodID] = r.Quantity
		}
	}

	var mods []modifierRow
	if err := db.conn.Select(&mods, "SELECT city_id, good_id, real_mod, eps_mod, omega_mod FROM modifiers"); err != nil {
		return nil, err
	}
	for _, r := range mods {
		c, ok := w.Cities[r.CityID]
		if !ok {
			return nil, fmt.Errorf("modifier for unknown city %q", r.CityID)
		}
		c.Modifiers[r.GoodID] = r.CityModifier
	}

	if err := db.conn.Select(&w.Routes,
		"SELECT from_city, to_city, min_days, max_days, base_risk FROM routes ORDER BY rowid"); err != nil {
		return nil, err
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (db *DB) loadState(s *engine.State) error {
	var charters []charterRow
	if err := db.conn.Select(&charters, "SELECT cities_json, goods_json FROM charters ORDER BY id"); err != nil {
		return err
	}
	for _, r := range charters {
		var ch economy.Charter
		if err := json.Unmarshal([]byte(r.CitiesJSON), &ch.Cities); err != nil {
			return fmt.Errorf("charter cities: %w", err)
		}
		if err := json.Unmarshal([]byte(r.GoodsJSON), &ch.Goods); err != nil {
			return fmt.Errorf("charter goods: %w", err)
		}
		s.Charters = append(s.Charters, ch)
	}

	var cargo []cargoRow
	if err := db.conn.Select(&cargo, "SELECT good_id, quantity FROM cargo"); err != nil {
		return err
	}
	for _, r := range cargo {
		s.Cargo[r.GoodID] = r.Quantity
	}

	return db.conn.Select(&s.Events, "SELECT day, description, category FROM events ORDER BY id")
}

// metaReader decodes game_meta values, keeping the first error.
type metaReader struct {
	meta map[string]string
	err  error
}

func (m *metaReader) fail(key string, err error) {
	if m.err == nil {
		m.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (m *metaReader) intValue(key string) int {
	v, err := strconv.Atoi(m.meta[key])
	if err != nil {
		m.fail(key, err)
	}
	return v
}

func (m *metaReader) floatValue(key string) float64 {
	v, err := strconv.ParseFloat(m.meta[key], 64)
	if err != nil {
		m.fail(key, err)
	}
	return v
}

func (m *metaReader) boolValue(key string) bool {
	v, err := strconv.ParseBool(m.meta[key])
	if err != nil {
		m.fail(key, err)
	}
	return v
}

func (m *metaReader) numberValue(key string) surreal.Number {
	v, err := surreal.Parse(m.meta[key])
	if err != nil {
		m.fail(key, err)
	}
	return v
}

func (m *metaReader) decode(key string, dst any) {
	if err := json.Unmarshal([]byte(m.meta[key]), dst); err != nil {
		m.fail(key, err)
	}
}

// SaveMeta stores a key-value pair in game metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT day, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
