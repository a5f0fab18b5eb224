// Package supply restocks city markets on a fixed cadence. Producing
// cities get extra stock of their specialties; other goods drift around
// their base level. A refresh never removes existing stock.
package supply

import (
	"sort"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
)

// DefaultInterval is the number of days between supply caravans.
const DefaultInterval = 14

// Restock variance bounds, inclusive.
const (
	SpecialtyMin = 2
	SpecialtyMax = 8
	RegularMin   = -2
	RegularMax   = 4
)

// State is the scheduler state for a given day.
type State uint8

const (
	Idle State = iota
	Due
)

func (s State) String() string {
	if s == Due {
		return "due"
	}
	return "idle"
}

// Change records one restocked (city, good) entry.
type Change struct {
	City   string `json:"city"`
	Good   string `json:"good"`
	Target int    `json:"target"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Added returns the units the refresh delivered.
func (c Change) Added() int {
	return c.After - c.Before
}

// Report summarizes one refresh.
type Report struct {
	Day     int      `json:"day"`
	Changes []Change `json:"changes"`
}

// Delivered returns only the changes that raised stock.
func (r *Report) Delivered() []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Added() > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Scheduler tracks when the last refresh happened.
type Scheduler struct {
	Interval       int `json:"interval"`
	LastRefreshDay int `json:"last_refresh_day"`
	Refreshes      int `json:"refreshes"` // refreshes applied so far
}

// NewScheduler starts a scheduler whose clock begins on startDay.
func NewScheduler(startDay int) *Scheduler {
	return &Scheduler{Interval: DefaultInterval, LastRefreshDay: startDay}
}

// State reports whether a refresh is due on day.
func (s *Scheduler) State(day int) State {
	if day-s.LastRefreshDay >= s.Interval {
		return Due
	}
	return Idle
}

// DaysUntil returns the days remaining before the next refresh; 0 or less
// means one is due.
func (s *Scheduler) DaysUntil(day int) int {
	return s.Interval - (day - s.LastRefreshDay)
}

// CheckAndRefresh restocks cities when a refresh is due on day. It returns
// false and leaves cities untouched otherwise. Cities and goods are visited
// in ID order so a seeded source reproduces the outcome.
func (s *Scheduler) CheckAndRefresh(day int, cities map[string]*economy.City, rng entropy.Source) (*Report, bool) {
	if s.State(day) != Due {
		return nil, false
	}

	report := &Report{Day: day}
	for _, cityID := range sortedKeys(cities) {
		city := cities[cityID]
		if city.Stock == nil {
			city.Stock = make(map[string]int)
		}
		for _, goodID := range sortedKeys(city.BaseStock) {
			base := city.BaseStock[goodID]
			current := city.Stock[goodID]

			var target int
			if city.IsSpecialty(goodID) {
				target = base + rng.IntRange(SpecialtyMin, SpecialtyMax)
			} else {
				target = max(1, base+rng.IntRange(RegularMin, RegularMax))
			}

			after := max(current, target)
			city.Stock[goodID] = after
			report.Changes = append(report.Changes, Change{
				City:   cityID,
				Good:   goodID,
				Target: target,
				Before: current,
				After:  after,
			})
		}
	}

	s.LastRefreshDay = day
	s.Refreshes++
	return report, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
