// Sailing seasons and their effect on sea risk.
package engine

import "github.com/Lunthu/Surreal-Phoenicians/internal/economy"

// Season is a quarter of the sailing year.
type Season uint8

// Season constants.
const (
	SeasonSpring Season = iota
	SeasonSummer
	SeasonAutumn
	SeasonWinter
)

// SeasonLength is the number of days in each season.
const SeasonLength = 30

// SeasonOf returns the season of a game day. Day 1 opens spring.
func SeasonOf(day int) Season {
	if day < 1 {
		day = 1
	}
	return Season(((day - 1) / SeasonLength) % 4)
}

// String returns a human-readable season name.
func (s Season) String() string {
	switch s {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// RiskMod scales the chance of a sea event. Summer is the calm sailing
// season; winter storms close most lanes.
func (s Season) RiskMod() float64 {
	switch s {
	case SeasonSummer:
		return 0.8
	case SeasonAutumn:
		return 1.2
	case SeasonWinter:
		return 1.5
	default:
		return 1.0
	}
}

// Season returns the current season.
func (g *Game) Season() Season {
	return SeasonOf(g.State.Day)
}

// voyageRisk is the event chance for a crossing departing today.
func (g *Game) voyageRisk(route economy.Route) float64 {
	risk := g.Sea.EffectiveRisk(g.State.Day, route) * g.Season().RiskMod()
	return min(risk, 1)
}
