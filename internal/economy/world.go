package economy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed world.yaml
var defaultWorldYAML []byte

// World is the full reference data set: goods, cities and routes.
// Only city stock mutates after construction.
type World struct {
	Goods  map[string]*Good
	Cities map[string]*City
	Routes []Route
}

type worldFile struct {
	Goods  []Good  `yaml:"goods"`
	Cities []City  `yaml:"cities"`
	Routes []Route `yaml:"routes"`
}

// DefaultWorld returns a fresh copy of the built-in Mediterranean world.
func DefaultWorld() *World {
	w, err := ParseWorld(defaultWorldYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded world.yaml: %v", err))
	}
	return w
}

// LoadWorld reads a world definition from a YAML file.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	return ParseWorld(data)
}

// ParseWorld decodes and validates a YAML world definition.
func ParseWorld(data []byte) (*World, error) {
	var f worldFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}

	w := &World{
		Goods:  make(map[string]*Good, len(f.Goods)),
		Cities: make(map[string]*City, len(f.Cities)),
		Routes: f.Routes,
	}
	for i := range f.Goods {
		g := f.Goods[i]
		if _, dup := w.Goods[g.ID]; dup {
			return nil, fmt.Errorf("duplicate good %q", g.ID)
		}
		w.Goods[g.ID] = &g
	}
	for i := range f.Cities {
		c := f.Cities[i]
		if _, dup := w.Cities[c.ID]; dup {
			return nil, fmt.Errorf("duplicate city %q", c.ID)
		}
		if c.Stock == nil {
			c.Stock = make(map[string]int)
		}
		if c.BaseStock == nil {
			c.BaseStock = make(map[string]int)
		}
		if c.Modifiers == nil {
			c.Modifiers = make(map[string]CityModifier)
		}
		w.Cities[c.ID] = &c
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks referential integrity and value ranges.
func (w *World) Validate() error {
	for id, c := range w.Cities {
		for gid, n := range c.Stock {
			if _, ok := w.Goods[gid]; !ok {
				return fmt.Errorf("city %s stocks unknown good %q", id, gid)
			}
			if n < 0 {
				return fmt.Errorf("city %s: negative stock %d of %s", id, n, gid)
			}
		}
		for gid, n := range c.BaseStock {
			if _, ok := w.Goods[gid]; !ok {
				return fmt.Errorf("city %s base stock references unknown good %q", id, gid)
			}
			if n < 0 {
				return fmt.Errorf("city %s: negative base stock %d of %s", id, n, gid)
			}
		}
		for gid := range c.Modifiers {
			if _, ok := w.Goods[gid]; !ok {
				return fmt.Errorf("city %s modifies unknown good %q", id, gid)
			}
		}
	}
	for _, r := range w.Routes {
		if _, ok := w.Cities[r.From]; !ok {
			return fmt.Errorf("route from unknown city %q", r.From)
		}
		if _, ok := w.Cities[r.To]; !ok {
			return fmt.Errorf("route to unknown city %q", r.To)
		}
		if r.MinDays < 1 || r.MaxDays < r.MinDays {
			return fmt.Errorf("route %s→%s: bad duration %d..%d", r.From, r.To, r.MinDays, r.MaxDays)
		}
	}
	return nil
}

// Good returns a good by ID.
func (w *World) Good(id string) (*Good, bool) {
	g, ok := w.Goods[id]
	return g, ok
}

// City returns a city by ID.
func (w *World) City(id string) (*City, bool) {
	c, ok := w.Cities[id]
	return c, ok
}

// CityIDs returns all city IDs, sorted.
func (w *World) CityIDs() []string {
	ids := make([]string, 0, len(w.Cities))
	for id := range w.Cities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GoodIDs returns all good IDs, sorted.
func (w *World) GoodIDs() []string {
	ids := make([]string, 0, len(w.Goods))
	for id := range w.Goods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoutesFrom returns the routes departing a city, in definition order.
func (w *World) RoutesFrom(cityID string) []Route {
	var out []Route
	for _, r := range w.Routes {
		if r.From == cityID {
			out = append(out, r)
		}
	}
	return out
}

// Route finds the lane between two cities.
func (w *World) Route(from, to string) (Route, bool) {
	for _, r := range w.Routes {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return Route{}, false
}

// Clone returns a deep copy. Goods are shared since they are immutable.
func (w *World) Clone() *World {
	cp := &World{
		Goods:  make(map[string]*Good, len(w.Goods)),
		Cities: make(map[string]*City, len(w.Cities)),
		Routes: append([]Route(nil), w.Routes...),
	}
	for id, g := range w.Goods {
		cp.Goods[id] = g
	}
	for id, c := range w.Cities {
		cp.Cities[id] = c.clone()
	}
	return cp
}
