package engine

import (
	"fmt"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/supply"
	"github.com/Lunthu/Surreal-Phoenicians/internal/voyage"
)

// Voyage describes a completed crossing.
type Voyage struct {
	Route    economy.Route  `json:"route"`
	Departed int            `json:"departed"`
	Arrived  int            `json:"arrived"`
	Event    *voyage.Event  `json:"event,omitempty"`
	Refresh  *supply.Report `json:"refresh,omitempty"`
}

// Days is the length of the crossing.
func (v Voyage) Days() int {
	return v.Arrived - v.Departed
}

// Travel sails to destID, advancing the calendar, rolling for a sea event
// and delivering any supply caravans that came due.
func (g *Game) Travel(destID string) (Voyage, error) {
	s := g.State
	if s.Completed {
		return Voyage{}, reject(GameOver, "", destID, "")
	}
	if _, ok := g.World.City(destID); !ok {
		return Voyage{}, reject(InvalidSelection, "", destID, "unknown city")
	}
	route, ok := g.World.Route(s.CityID, destID)
	if !ok {
		return Voyage{}, reject(NoRoute, "", destID, "no lane from %s", s.CityID)
	}

	// Every draw happens before any state changes.
	days := voyage.TravelDays(route, g.rng)
	risk := g.voyageRisk(route)
	ev, hit := voyage.RollEvent(risk, g.rng)
	if hit && ev == voyage.FairWinds && days > 1 {
		days--
	}

	v := Voyage{Route: route, Departed: s.Day, Arrived: s.Day + days}
	s.Day = v.Arrived
	s.CityID = destID
	s.Stats.CitiesVisited[destID] = true
	s.Stats.RoutesTraveled++
	s.record(s.Day, "voyage", fmt.Sprintf("Arrived in %s after %d days", g.CurrentCity().Name, days))

	if hit {
		v.Event = &ev
		g.applyEvent(ev)
	}

	if report, due := g.Supply.CheckAndRefresh(s.Day, g.World.Cities, g.rng); due {
		v.Refresh = report
		s.Stats.SupplyRefreshes++
		s.record(s.Day, "supply", fmt.Sprintf("Supply caravans arrived: %d markets restocked", len(report.Delivered())))
		g.log.Info("supply refresh", "day", s.Day, "delivered", len(report.Delivered()))
	}

	g.log.Info("voyage", "from", route.From, "to", route.To, "days", days, "day", s.Day, "risk", risk, "season", SeasonOf(v.Departed).String())
	return v, nil
}

func (g *Game) applyEvent(ev voyage.Event) {
	s := g.State
	s.Stats.EventsEncountered++
	s.record(s.Day, "sea", ev.Description())
	switch ev {
	case voyage.Pirates:
		s.Cash = s.Cash.SubReal(voyage.PirateTribute)
	case voyage.Storm:
		s.Ship.CrewMorale *= voyage.StormMorale
	}
	g.log.Debug("sea event", "event", ev.String(), "day", s.Day)
}
