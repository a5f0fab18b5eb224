// Package economy provides the static and semi-static market reference data:
// goods, cities with their stock and modifiers, charters, and sea routes.
package economy

import "sort"

// Good is a tradeable commodity. Identity and base prices never change.
type Good struct {
	ID         string  `yaml:"id" json:"id" db:"id"`
	Name       string  `yaml:"name" json:"name" db:"name"`
	BaseReal   float64 `yaml:"base_real" json:"base_real" db:"base_real"`
	BaseEps    float64 `yaml:"base_eps" json:"base_eps" db:"base_eps"`
	Monopoly   bool    `yaml:"monopoly" json:"monopoly" db:"monopoly"` // scarcity can trigger embargo
	Fragile    bool    `yaml:"fragile" json:"fragile" db:"fragile"`
	Perishable bool    `yaml:"perishable" json:"perishable" db:"perishable"`
}

// CityModifier adjusts a good's base price in one city.
// Omega is 0 for unrestricted trade and >= 1 for embargo / monopoly protection.
type CityModifier struct {
	Real  float64 `yaml:"real" json:"real" db:"real_mod"`
	Eps   float64 `yaml:"eps" json:"eps" db:"eps_mod"`
	Omega float64 `yaml:"omega" json:"omega" db:"omega_mod"`
}

// IsSpecialty reports whether the modifier marks the city as a production
// source for the good (a negative real delta).
func (m CityModifier) IsSpecialty() bool {
	return m.Real < 0
}

// City is a market town.
type City struct {
	ID        string                  `yaml:"id" json:"id"`
	Name      string                  `yaml:"name" json:"name"`
	Region    string                  `yaml:"region" json:"region"`
	Stock     map[string]int          `yaml:"stock" json:"stock"`           // good ID → current stock
	BaseStock map[string]int          `yaml:"base_stock" json:"base_stock"` // good ID → reference level for restocking
	Modifiers map[string]CityModifier `yaml:"modifiers" json:"modifiers"`
}

// StockOf returns the current stock of a good, 0 when the city has none.
func (c *City) StockOf(goodID string) int {
	return c.Stock[goodID]
}

// Modifier returns the city's modifier for a good, if any.
func (c *City) Modifier(goodID string) (CityModifier, bool) {
	m, ok := c.Modifiers[goodID]
	return m, ok
}

// IsSpecialty reports whether the city produces the good.
func (c *City) IsSpecialty(goodID string) bool {
	m, ok := c.Modifiers[goodID]
	return ok && m.IsSpecialty()
}

// GoodIDs returns the IDs of goods the city stocks, sorted.
func (c *City) GoodIDs() []string {
	ids := make([]string, 0, len(c.Stock))
	for id := range c.Stock {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *City) clone() *City {
	cp := *c
	cp.Stock = make(map[string]int, len(c.Stock))
	for k, v := range c.Stock {
		cp.Stock[k] = v
	}
	cp.BaseStock = make(map[string]int, len(c.BaseStock))
	for k, v := range c.BaseStock {
		cp.BaseStock[k] = v
	}
	cp.Modifiers = make(map[string]CityModifier, len(c.Modifiers))
	for k, v := range c.Modifiers {
		cp.Modifiers[k] = v
	}
	return &cp
}

// Charter exempts a set of goods in a set of cities from embargo.
type Charter struct {
	Cities []string `yaml:"cities" json:"cities"`
	Goods  []string `yaml:"goods" json:"goods"`
}

// AppliesTo reports whether the charter covers the (city, good) pair.
func (ch Charter) AppliesTo(cityID, goodID string) bool {
	return contains(ch.Cities, cityID) && contains(ch.Goods, goodID)
}

// AnyCharterApplies reports whether one of charters covers (city, good).
func AnyCharterApplies(charters []Charter, cityID, goodID string) bool {
	for _, ch := range charters {
		if ch.AppliesTo(cityID, goodID) {
			return true
		}
	}
	return false
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Route is a one-way sea lane between two cities.
type Route struct {
	From     string  `yaml:"from" json:"from" db:"from_city"`
	To       string  `yaml:"to" json:"to" db:"to_city"`
	MinDays  int     `yaml:"min_days" json:"min_days" db:"min_days"`
	MaxDays  int     `yaml:"max_days" json:"max_days" db:"max_days"`
	BaseRisk float64 `yaml:"base_risk" json:"base_risk" db:"base_risk"` // chance of a travel event
}
