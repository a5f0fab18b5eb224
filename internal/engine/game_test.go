package engine

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/matryer/is"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
	"github.com/Lunthu/Surreal-Phoenicians/internal/voyage"
)

func newGame(rng entropy.Source) *Game {
	return New(economy.DefaultWorld(), Options{
		Rng:    rng,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// snapshot captures everything a transaction may touch.
func snapshot(t *testing.T, g *Game) string {
	t.Helper()
	stocks := map[string]map[string]int{}
	for id, c := range g.World.Cities {
		stocks[id] = c.Stock
	}
	data, err := json.Marshal(struct {
		State  *State
		Stocks map[string]map[string]int
	}{g.State, stocks})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return string(data)
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	is.Equal(g.State.CityID, "carthage")
	is.Equal(g.State.Day, 1)
	is.Equal(g.State.Cash, surreal.New(1240, -1, 0))
	is.Equal(g.State.Reputation, 5.0)
	is.Equal(g.DaysUntilRefresh(), 14)
	is.True(g.State.Stats.CitiesVisited["carthage"])
}

func TestBuyAppliesEverything(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	quote, err := g.Quote("glass", true)
	is.NoErr(err)

	r, err := g.Buy("glass", 3)
	is.NoErr(err)
	is.True(r.Total.Equal(quote.Scale(3)))
	is.True(r.Buying)
	is.Equal(r.City, "carthage")

	s := g.State
	is.True(s.Cash.Equal(StartCash.Sub(quote.Scale(3))))
	is.Equal(s.Cargo["glass"], 3)
	is.Equal(g.CurrentCity().StockOf("glass"), 15)
	is.Equal(s.Stats.TotalTrades, 1)
	is.Equal(s.Stats.GoodsBought["glass"], 3)
	is.True(s.Stats.TotalSpent.Equal(r.Total))
	is.Equal(len(s.Events), 1)
}

func TestSellAppliesEverything(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	_, err := g.Buy("salt", 4)
	is.NoErr(err)

	quote, _ := g.Quote("salt", false)
	r, err := g.Sell("salt", 4)
	is.NoErr(err)
	is.True(r.Total.Equal(quote.Scale(4)))

	_, held := g.State.Cargo["salt"]
	is.True(!held)
	is.Equal(g.CurrentCity().StockOf("salt"), 30)
	is.Equal(g.State.Stats.GoodsSold["salt"], 4)
	is.True(g.State.Stats.TotalEarned.Equal(r.Total))
	is.True(g.State.Cash.Less(StartCash)) // the spread costs money
}

func TestRejectedTradesChangeNothing(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)

	cases := []struct {
		name string
		run  func() error
		kind Kind
	}{
		{"zero quantity", func() error { _, err := g.Buy("glass", 0); return err }, InvalidQuantity},
		{"beyond stock", func() error { _, err := g.Buy("glass", 19); return err }, InvalidQuantity},
		{"not stocked", func() error { _, err := g.Buy("silver", 1); return err }, InvalidQuantity},
		{"unknown good", func() error { _, err := g.Buy("amber", 1); return err }, InvalidSelection},
		{"sell without cargo", func() error { _, err := g.Sell("glass", 1); return err }, InvalidQuantity},
		{"unaffordable", func() error {
			cash := g.State.Cash
			g.State.Cash = surreal.FromReal(100)
			defer func() { g.State.Cash = cash }()
			_, err := g.Buy("olive_oil", 5)
			return err
		}, InsufficientFunds},
		{"full hold", func() error {
			g.State.Ship.CargoCapacity = 2
			defer func() { g.State.Ship.CargoCapacity = 50 }()
			_, err := g.Buy("salt", 3)
			return err
		}, CargoFull},
	}

	for _, tc := range cases {
		before := snapshot(t, g)
		err := tc.run()
		is.True(errors.Is(err, tc.kind)) // tc.name
		var ae *ActionError
		is.True(errors.As(err, &ae))
		is.Equal(snapshot(t, g), before) // tc.name
	}
}

func TestEmbargoAndCharter(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	g.State.CityID = "gadir"
	g.World.Cities["gadir"].Stock["purple_dye"] = 3

	q, err := g.Quote("purple_dye", true)
	is.NoErr(err)
	is.True(!q.IsLegal())

	before := snapshot(t, g)
	_, err = g.Buy("purple_dye", 1)
	is.True(errors.Is(err, IllegalPrice))
	is.Equal(snapshot(t, g), before)

	g.GrantCharter(economy.Charter{Cities: []string{"gadir"}, Goods: []string{"purple_dye"}})
	q, _ = g.Quote("purple_dye", true)
	is.True(q.IsLegal())

	_, err = g.Buy("purple_dye", 1)
	is.NoErr(err)
	is.Equal(g.State.Cargo["purple_dye"], 1)
}

func TestTravel(t *testing.T) {
	is := is.New(t)
	rng := &entropy.Scripted{Ints: []int{9}, Floats: []float64{0.99}}
	g := newGame(rng)

	v, err := g.Travel("gadir")
	is.NoErr(err)
	is.Equal(v.Days(), 9)
	is.Equal(g.State.Day, 10)
	is.Equal(g.State.CityID, "gadir")
	is.True(v.Event == nil)
	is.True(v.Refresh == nil)
	is.Equal(g.State.Stats.RoutesTraveled, 1)

	// Pirates strike on the way back and the caravans are due on arrival.
	rng.Ints = []int{11, int(voyage.Pirates)}
	rng.Floats = []float64{0.01}
	cash := g.State.Cash

	v, err = g.Travel("carthage")
	is.NoErr(err)
	is.Equal(g.State.Day, 21)
	is.True(v.Event != nil && *v.Event == voyage.Pirates)
	is.True(g.State.Cash.Equal(cash.SubReal(50)))
	is.True(v.Refresh != nil)
	is.Equal(g.State.Stats.SupplyRefreshes, 1)
	is.Equal(g.State.Stats.EventsEncountered, 1)
	is.Equal(g.Supply.LastRefreshDay, 21)
	is.Equal(len(g.State.Stats.CitiesVisited), 2)
}

func TestFairWindsShortenVoyage(t *testing.T) {
	is := is.New(t)
	g := newGame(&entropy.Scripted{Ints: []int{9, int(voyage.FairWinds)}, Floats: []float64{0}})
	v, err := g.Travel("gadir")
	is.NoErr(err)
	is.Equal(v.Days(), 8)
}

func TestStormLowersMorale(t *testing.T) {
	is := is.New(t)
	g := newGame(&entropy.Scripted{Ints: []int{9, int(voyage.Storm)}, Floats: []float64{0}})
	_, err := g.Travel("gadir")
	is.NoErr(err)
	is.Equal(g.State.Ship.CrewMorale, 0.9)
}

func TestTravelRejections(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	before := snapshot(t, g)

	_, err := g.Travel("carthage")
	is.True(errors.Is(err, NoRoute))
	_, err = g.Travel("rome")
	is.True(errors.Is(err, InvalidSelection))
	is.Equal(snapshot(t, g), before)
}

func TestNetWorth(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	is.Equal(g.NetWorth(), g.State.Cash)

	_, err := g.Buy("glass", 2)
	is.NoErr(err)
	worth := g.NetWorth()
	is.True(worth.Greater(g.State.Cash))
	is.True(worth.Less(StartCash))
}

func TestHouse(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)

	err := g.BuyHouse()
	is.True(errors.Is(err, InsufficientFunds))
	is.True(!g.CanAffordHouse())

	g.State.CityID = "tyre"
	g.State.Cash = surreal.FromReal(20000)
	is.True(errors.Is(g.BuyHouse(), WrongCity))

	g.State.CityID = "carthage"
	is.NoErr(g.BuyHouse())
	is.True(g.State.OwnsHouse)
	is.True(g.State.Completed)
	is.Equal(g.State.Cash, surreal.FromReal(10000))
	is.True(errors.Is(g.BuyHouse(), AlreadyOwned))

	_, err = g.Buy("glass", 1)
	is.True(errors.Is(err, GameOver))
}

func TestRate(t *testing.T) {
	is := is.New(t)
	g := newGame(nil)
	g.State.Day = 25
	g.State.Cash = surreal.FromReal(27000)
	g.State.Stats.CitiesVisited = map[string]bool{"carthage": true, "tyre": true, "gadir": true}
	g.State.Stats.EventsEncountered = 5
	is.NoErr(g.BuyHouse())

	r := g.Rate()
	is.Equal(r.Score, 9)
	is.Equal(r.Title, "Legendary Phoenician Merchant")
	is.Equal(r.Awards, []string{"Speed Merchant", "Master Merchant", "Explorer", "Adventurer"})

	fresh := newGame(nil).Rate()
	is.Equal(fresh.Score, 4) // fast but barely profitable
	is.Equal(fresh.Title, "Skilled Merchant")
}

func TestActionErrorMessage(t *testing.T) {
	is := is.New(t)
	err := reject(InvalidQuantity, "glass", "carthage", "want %d, stock %d", 30, 18)
	is.Equal(err.Error(), "invalid quantity for glass in carthage: want 30, stock 18")
}

func TestSeasons(t *testing.T) {
	is := is.New(t)
	is.Equal(SeasonOf(1), SeasonSpring)
	is.Equal(SeasonOf(30), SeasonSpring)
	is.Equal(SeasonOf(31), SeasonSummer)
	is.Equal(SeasonOf(91), SeasonWinter)
	is.Equal(SeasonOf(121), SeasonSpring)
	is.Equal(SeasonWinter.String(), "Winter")

	g := newGame(nil)
	route, _ := g.World.Route("carthage", "gadir")
	calm := g.voyageRisk(route)
	g.State.Day = 100
	is.True(g.voyageRisk(route) > calm) // winter crossings are riskier
	is.True(g.voyageRisk(route) <= 1)
}

func TestGamesDoNotShareWorld(t *testing.T) {
	is := is.New(t)
	world := economy.DefaultWorld()
	opts := Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	a := New(world, opts)
	b := New(world, opts)
	before := world.Cities["carthage"].StockOf("glass")

	_, err := a.Buy("glass", 3)
	is.NoErr(err)

	is.Equal(a.CurrentCity().StockOf("glass"), before-3)
	is.Equal(b.CurrentCity().StockOf("glass"), before)
	is.Equal(world.Cities["carthage"].StockOf("glass"), before)
}
