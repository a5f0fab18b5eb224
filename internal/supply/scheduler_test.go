package supply

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
)

func TestStateTransitions(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(1)

	is.Equal(s.State(1), Idle)
	is.Equal(s.State(14), Idle)
	is.Equal(s.DaysUntil(14), 1)
	is.Equal(s.State(15), Due)

	cities := economy.DefaultWorld().Cities
	_, ok := s.CheckAndRefresh(10, cities, entropy.NewSeeded(1))
	is.True(!ok)
	is.Equal(s.Refreshes, 0)

	report, ok := s.CheckAndRefresh(20, cities, entropy.NewSeeded(1))
	is.True(ok)
	is.Equal(report.Day, 20)
	is.Equal(s.LastRefreshDay, 20)
	is.Equal(s.Refreshes, 1)
	is.Equal(s.State(20), Idle)
	is.Equal(s.DaysUntil(20), 14)
}

func TestSpecialtyRestock(t *testing.T) {
	is := is.New(t)
	city := &economy.City{
		ID:        "tyre",
		Stock:     map[string]int{"purple_dye": 5},
		BaseStock: map[string]int{"purple_dye": 5},
		Modifiers: map[string]economy.CityModifier{"purple_dye": {Real: -40, Eps: -2}},
	}
	s := NewScheduler(0)

	report, ok := s.CheckAndRefresh(14, map[string]*economy.City{"tyre": city}, &entropy.Scripted{Ints: []int{8}})
	is.True(ok)
	is.Equal(city.Stock["purple_dye"], 13)
	is.Equal(report.Changes, []Change{{City: "tyre", Good: "purple_dye", Target: 13, Before: 5, After: 13}})
}

func TestRegularRestockFloorAndNoLoss(t *testing.T) {
	is := is.New(t)
	city := &economy.City{
		ID:        "gadir",
		Stock:     map[string]int{"salt": 40, "wine": 0},
		BaseStock: map[string]int{"salt": 20, "wine": 1},
	}
	s := NewScheduler(0)

	// salt draws +4 → 24 < 40 keeps 40; wine draws -2 → max(1, -1) = 1.
	report, ok := s.CheckAndRefresh(30, map[string]*economy.City{"gadir": city}, &entropy.Scripted{Ints: []int{4, -2}})
	is.True(ok)
	is.Equal(city.Stock["salt"], 40)
	is.Equal(city.Stock["wine"], 1)
	is.Equal(len(report.Delivered()), 1)
	is.Equal(report.Delivered()[0].Good, "wine")
}

func TestRefreshIsMonotonic(t *testing.T) {
	is := is.New(t)
	w := economy.DefaultWorld()
	rng := entropy.NewSeeded(99)
	s := NewScheduler(1)

	for day := 1; day < 400; day += 5 {
		// Drain some stock to give refreshes something to do.
		for _, c := range w.Cities {
			for g := range c.Stock {
				c.Stock[g] /= 2
			}
		}
		before := map[string]map[string]int{}
		for id, c := range w.Cities {
			before[id] = map[string]int{}
			for g, n := range c.Stock {
				before[id][g] = n
			}
		}

		s.CheckAndRefresh(day, w.Cities, rng)

		for id, c := range w.Cities {
			for g, n := range before[id] {
				is.True(c.Stock[g] >= n)
			}
		}
	}
	is.True(s.Refreshes > 10)
}

func TestSeededRefreshIsReproducible(t *testing.T) {
	is := is.New(t)
	a, b := economy.DefaultWorld(), economy.DefaultWorld()
	ra, _ := NewScheduler(1).CheckAndRefresh(15, a.Cities, entropy.NewSeeded(5))
	rb, _ := NewScheduler(1).CheckAndRefresh(15, b.Cities, entropy.NewSeeded(5))
	is.Equal(ra, rb)
	is.Equal(a.Cities["tyre"].Stock, b.Cities["tyre"].Stock)
}
