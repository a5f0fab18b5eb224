package engine

import (
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// The victory house is sold only in Carthage.
const (
	HouseCity  = "carthage"
	HouseCoins = 10000
)

var housePrice = surreal.FromReal(HouseCoins)

// CanAffordHouse reports whether the merchant has the cash for the house
// and does not own it yet.
func (g *Game) CanAffordHouse() bool {
	return !g.State.OwnsHouse && g.State.Cash.GreaterEq(housePrice)
}

// BuyHouse buys the house in Carthage, which wins the game.
func (g *Game) BuyHouse() error {
	s := g.State
	switch {
	case s.CityID != HouseCity:
		return reject(WrongCity, "", s.CityID, "houses are only sold in %s", HouseCity)
	case s.OwnsHouse:
		return reject(AlreadyOwned, "", s.CityID, "")
	case !g.CanAffordHouse():
		return reject(InsufficientFunds, "", s.CityID, "need %.0f more coins", HouseCoins-s.Cash.Real)
	}

	s.Cash = s.Cash.Sub(housePrice)
	s.OwnsHouse = true
	s.Completed = true
	s.record(s.Day, "house", "Purchased a magnificent house in Carthage")
	g.log.Info("victory", "day", s.Day, "cash", s.Cash.String())
	return nil
}

// Rating scores a finished career out of 10.
type Rating struct {
	Score  int      `json:"score"`
	Title  string   `json:"title"`
	Awards []string `json:"awards"`
	Profit float64  `json:"profit"`
}

// Rate evaluates the merchant's performance. Profit counts the house at
// its purchase price.
func (g *Game) Rate() Rating {
	s := g.State
	worth := g.NetWorth()
	if s.OwnsHouse {
		worth = worth.Add(housePrice)
	}
	r := Rating{Profit: worth.Real - s.StartCash.Real}

	award := func(points int, name string) {
		r.Score += points
		r.Awards = append(r.Awards, name)
	}

	switch {
	case s.Day <= 30:
		award(3, "Speed Merchant")
	case s.Day <= 60:
		award(2, "Efficient Trader")
	default:
		award(1, "Steady Progress")
	}

	switch {
	case r.Profit > 15000:
		award(3, "Master Merchant")
	case r.Profit > 10000:
		award(2, "Successful Trader")
	default:
		award(1, "Profitable Venture")
	}

	if len(s.Stats.CitiesVisited) >= len(g.World.Cities) {
		award(2, "Explorer")
	}
	if s.Stats.EventsEncountered >= 5 {
		award(1, "Adventurer")
	}

	switch {
	case r.Score >= 8:
		r.Title = "Legendary Phoenician Merchant"
	case r.Score >= 6:
		r.Title = "Expert Trader"
	case r.Score >= 4:
		r.Title = "Skilled Merchant"
	default:
		r.Title = "Novice Trader"
	}
	return r
}
