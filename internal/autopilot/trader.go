// Package autopilot plays the trading game without a human: a greedy
// merchant that sells what it carries, buys the cargo with the best margin
// over the reachable markets and sails there.
package autopilot

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/pricing"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// StepKind enumerates what the merchant did on a turn.
type StepKind uint8

const (
	StepIdle    StepKind = iota
	StepTrade            // bought cargo and sailed to sell it
	StepSail             // sailed without cargo
	StepHome             // sailed to Carthage to buy the house
	StepVictory          // bought the house
)

func (k StepKind) String() string {
	switch k {
	case StepTrade:
		return "trade"
	case StepSail:
		return "sail"
	case StepHome:
		return "home"
	case StepVictory:
		return "victory"
	default:
		return "idle"
	}
}

// Step is the outcome of one turn.
type Step struct {
	Kind   StepKind
	Sold   []engine.Receipt
	Bought *engine.Receipt
	Voyage *engine.Voyage
}

// Trader is a greedy merchant. MinMargin is the smallest per-unit real
// profit it will bother carrying.
type Trader struct {
	MinMargin float64
}

// Turn plays one turn: victory if possible, otherwise sell, buy and sail.
func (t Trader) Turn(g *engine.Game) (Step, error) {
	if g.State.Completed {
		return Step{Kind: StepIdle}, nil
	}
	if g.State.CityID == engine.HouseCity && g.CanAffordHouse() {
		if err := g.BuyHouse(); err != nil {
			return Step{}, err
		}
		return Step{Kind: StepVictory}, nil
	}

	var step Step
	sold, err := sellAll(g)
	if err != nil {
		return step, err
	}
	step.Sold = sold

	// Enough coin for the house: head home.
	if g.CanAffordHouse() {
		if _, ok := g.World.Route(g.State.CityID, engine.HouseCity); ok {
			v, err := g.Travel(engine.HouseCity)
			if err != nil {
				return step, err
			}
			step.Kind, step.Voyage = StepHome, &v
			return step, nil
		}
	}

	routes := routesByLength(g.World.RoutesFrom(g.State.CityID))
	if len(routes) == 0 {
		return step, nil
	}

	dest := routes[0].To
	step.Kind = StepSail
	if p, ok := t.bestPlan(g, routes); ok {
		if r, err := buyUpTo(g, p.good, p.qty); err == nil {
			step.Kind, step.Bought = StepTrade, &r
			dest = p.dest
		} else if !isRejection(err) {
			return step, err
		}
	}

	v, err := g.Travel(dest)
	if err != nil {
		return step, err
	}
	step.Voyage = &v
	return step, nil
}

type plan struct {
	good   string
	dest   string
	qty    int
	profit float64
}

// bestPlan finds the cargo with the largest expected real profit over the
// reachable markets. Selling a bigger lot depresses the price, so each
// candidate lot size is priced with the holdings it would create. Routes
// are scanned shortest first so ties go to the quicker crossing.
func (t Trader) bestPlan(g *engine.Game, routes []economy.Route) (plan, bool) {
	s := g.State
	city := g.CurrentCity()
	var best plan
	found := false
	for _, goodID := range city.GoodIDs() {
		good, ok := g.World.Good(goodID)
		if !ok {
			continue
		}
		buy := pricing.Quote(good, city, true, s.Cargo[goodID], s.Reputation, s.Charters)
		if !buy.IsLegal() || buy.Real <= 0 {
			continue
		}
		maxQty := min(city.StockOf(goodID), s.FreeHold(), int(s.Cash.Real/buy.Real))

		for _, r := range routes {
			dest, ok := g.World.City(r.To)
			if !ok {
				continue
			}
			for qty := 1; qty <= maxQty; qty++ {
				sell := pricing.Quote(good, dest, false, s.Cargo[goodID]+qty, s.Reputation, s.Charters)
				if !sell.IsLegal() {
					break
				}
				margin := sell.Real - buy.Real
				if margin <= t.MinMargin {
					break // margins only shrink with lot size
				}
				profit := margin * float64(qty)
				if !found || profit > best.profit {
					best = plan{good: goodID, dest: r.To, qty: qty, profit: profit}
					found = true
				}
			}
		}
	}
	return best, found
}

// buyUpTo buys qty units, or fewer when the purse falls just short.
func buyUpTo(g *engine.Game, goodID string, qty int) (engine.Receipt, error) {
	for {
		r, err := g.Buy(goodID, qty)
		// The infinitesimal axis can tip a purse that is exactly enough.
		if errors.Is(err, engine.InsufficientFunds) && qty > 1 {
			qty--
			continue
		}
		return r, err
	}
}

// sellAll sells every cargo good that has a legal market here.
func sellAll(g *engine.Game) ([]engine.Receipt, error) {
	goods := make([]string, 0, len(g.State.Cargo))
	for id := range g.State.Cargo {
		goods = append(goods, id)
	}
	sort.Strings(goods)

	var sold []engine.Receipt
	for _, goodID := range goods {
		r, err := g.Sell(goodID, g.State.Cargo[goodID])
		if isRejection(err) {
			slog.Debug("autopilot keeps cargo", "good", goodID, "city", g.State.CityID, "reason", err)
			continue
		}
		if err != nil {
			return sold, err
		}
		sold = append(sold, r)
	}
	return sold, nil
}

func routesByLength(routes []economy.Route) []economy.Route {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].MinDays != routes[j].MinDays {
			return routes[i].MinDays < routes[j].MinDays
		}
		return routes[i].To < routes[j].To
	})
	return routes
}

func isRejection(err error) bool {
	var ae *engine.ActionError
	return errors.As(err, &ae)
}

// Summary reports how an autopilot run went.
type Summary struct {
	Turns    int
	Days     int
	Trades   int
	Won      bool
	NetWorth surreal.Number
	Rating   engine.Rating
}

// Run plays up to maxTurns turns, stopping early on victory.
func Run(g *engine.Game, t Trader, maxTurns int) (Summary, error) {
	var sum Summary
	for sum.Turns < maxTurns && !g.State.Completed {
		step, err := t.Turn(g)
		if err != nil {
			return sum, fmt.Errorf("turn %d: %w", sum.Turns+1, err)
		}
		sum.Turns++
		slog.Debug("autopilot turn", "turn", sum.Turns, "kind", step.Kind.String(), "day", g.State.Day, "city", g.State.CityID, "cash", g.State.Cash.String())
		if step.Kind == StepIdle {
			break
		}
	}
	sum.Days = g.State.Day
	sum.Trades = g.State.Stats.TotalTrades
	sum.Won = g.State.OwnsHouse
	sum.NetWorth = g.NetWorth()
	sum.Rating = g.Rate()
	return sum, nil
}
