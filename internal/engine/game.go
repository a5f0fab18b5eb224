// Package engine runs the turn-based trading game. Each player action is a
// single transaction over the explicit State: it is validated in full and
// then applied in one step, so a rejected action leaves everything as it was.
package engine

import (
	"log/slog"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/pricing"
	"github.com/Lunthu/Surreal-Phoenicians/internal/supply"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
	"github.com/Lunthu/Surreal-Phoenicians/internal/voyage"
)

// Game ties the world, the merchant's state and the supply scheduler
// together.
type Game struct {
	World  *economy.World
	State  *State
	Supply *supply.Scheduler
	Sea    *voyage.Sea

	rng entropy.Source
	log *slog.Logger
}

// Options configure a Game. Zero values pick defaults: a seeded source with
// seed 1, calm neutral seas and the default slog logger.
type Options struct {
	Rng    entropy.Source
	Sea    *voyage.Sea
	Logger *slog.Logger
}

// New starts a fresh game in a private copy of world, so one world
// definition can seed any number of games.
func New(world *economy.World, opts Options) *Game {
	world = world.Clone()
	start := StartCity
	if _, ok := world.City(start); !ok {
		if ids := world.CityIDs(); len(ids) > 0 {
			start = ids[0]
		}
	}
	return Restore(world, NewState(start), supply.NewScheduler(StartDay), opts)
}

// Restore rebuilds a game from saved parts.
func Restore(world *economy.World, state *State, sched *supply.Scheduler, opts Options) *Game {
	if opts.Rng == nil {
		opts.Rng = entropy.NewSeeded(1)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Game{
		World:  world,
		State:  state,
		Supply: sched,
		Sea:    opts.Sea,
		rng:    opts.Rng,
		log:    opts.Logger,
	}
}

// CurrentCity returns the city the merchant is docked in.
func (g *Game) CurrentCity() *economy.City {
	c, _ := g.World.City(g.State.CityID)
	return c
}

// QuoteAt prices a good in any city for the current merchant.
func (g *Game) QuoteAt(goodID, cityID string, buying bool) (surreal.Number, error) {
	good, ok := g.World.Good(goodID)
	if !ok {
		return surreal.Number{}, reject(InvalidSelection, goodID, cityID, "unknown good")
	}
	city, ok := g.World.City(cityID)
	if !ok {
		return surreal.Number{}, reject(InvalidSelection, goodID, cityID, "unknown city")
	}
	s := g.State
	return pricing.Quote(good, city, buying, s.Cargo[goodID], s.Reputation, s.Charters), nil
}

// Quote prices a good in the current city.
func (g *Game) Quote(goodID string, buying bool) (surreal.Number, error) {
	return g.QuoteAt(goodID, g.State.CityID, buying)
}

// NetWorth values cash plus cargo at the average legal sell price across
// all cities.
func (g *Game) NetWorth() surreal.Number {
	sell := func(goodID, cityID string) surreal.Number {
		q, err := g.QuoteAt(goodID, cityID, false)
		if err != nil {
			return surreal.New(0, 0, 1) // unknown goods have no legal market
		}
		return q
	}
	return pricing.NetWorth(g.State.Cash, g.State.Cargo, g.World.CityIDs(), sell)
}

// GrantCharter adds a trading charter. Charters are never revoked.
func (g *Game) GrantCharter(ch economy.Charter) {
	g.State.Charters = append(g.State.Charters, ch)
	g.log.Info("charter granted", "cities", ch.Cities, "goods", ch.Goods)
}

// DaysUntilRefresh returns the days left before the next supply caravan.
func (g *Game) DaysUntilRefresh() int {
	return g.Supply.DaysUntil(g.State.Day)
}
