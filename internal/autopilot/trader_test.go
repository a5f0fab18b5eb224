package autopilot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/matryer/is"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// calmGame never rolls a sea event and always takes the shortest crossing.
func calmGame() *engine.Game {
	return engine.New(economy.DefaultWorld(), engine.Options{
		Rng:    &entropy.Scripted{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestTurnSailsWhenNothingPays(t *testing.T) {
	is := is.New(t)
	g := calmGame()

	step, err := Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepSail)
	is.True(step.Bought == nil)
	is.Equal(step.Voyage.Route.To, "gadir") // shortest lane out of Carthage
	is.Equal(g.State.Day, 8)
}

func TestTurnBuysBestLot(t *testing.T) {
	is := is.New(t)
	g := calmGame()
	g.State.CityID = "tyre"

	step, err := Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepTrade)
	is.Equal(step.Bought.Good, "cedar")
	is.Equal(step.Bought.Quantity, 2) // a third unit would sell for less
	is.Equal(g.State.CityID, "carthage")
	is.Equal(g.State.Cargo["cedar"], 2)

	step, err = Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(len(step.Sold), 1)
	is.Equal(step.Sold[0].Quantity, 2)
	is.True(step.Sold[0].Total.Real > 0)
	_, held := g.State.Cargo["cedar"]
	is.True(!held)
	is.True(g.State.Cash.Real > engine.StartCash.Real) // the run turned a profit
}

func TestMinMarginSkipsThinTrades(t *testing.T) {
	is := is.New(t)
	g := calmGame()
	g.State.CityID = "tyre"

	step, err := Trader{MinMargin: 10}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepSail)
	is.Equal(len(g.State.Cargo), 0)
}

func TestHeadsHomeAndWins(t *testing.T) {
	is := is.New(t)
	g := calmGame()
	g.State.CityID = "gadir"
	g.State.Cash = surreal.FromReal(20000)

	step, err := Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepHome)
	is.Equal(g.State.CityID, "carthage")

	step, err = Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepVictory)
	is.True(g.State.OwnsHouse)

	step, err = Trader{}.Turn(g)
	is.NoErr(err)
	is.Equal(step.Kind, StepIdle)
}

func TestRunStopsOnVictory(t *testing.T) {
	is := is.New(t)
	g := calmGame()
	g.State.CityID = "gadir"
	g.State.Cash = surreal.FromReal(20000)

	sum, err := Run(g, Trader{}, 50)
	is.NoErr(err)
	is.Equal(sum.Turns, 2)
	is.True(sum.Won)
	is.Equal(sum.Days, g.State.Day)
	is.True(sum.Rating.Score > 0)
}

func TestRunRespectsTurnLimit(t *testing.T) {
	is := is.New(t)
	g := engine.New(economy.DefaultWorld(), engine.Options{
		Rng:    entropy.NewSeeded(3),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	sum, err := Run(g, Trader{}, 6)
	is.NoErr(err)
	is.Equal(sum.Turns, 6)
	is.True(!sum.Won)
	is.True(sum.Days > engine.StartDay)
	is.Equal(sum.Trades, g.State.Stats.TotalTrades)
}
