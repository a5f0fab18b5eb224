package engine

import (
	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// Starting position of a new merchant.
const (
	StartCity       = "carthage"
	StartDay        = 1
	StartReputation = 5
	maxEvents       = 200
)

// StartCash is the opening purse, with a slight reputation edge.
var StartCash = surreal.New(1240, -1, 0)

// Ship is the merchant's vessel.
type Ship struct {
	HullLevel     int     `json:"hull_level"`
	RiggingLevel  int     `json:"rigging_level"`
	CargoCapacity int     `json:"cargo_capacity"`
	CrewSize      int     `json:"crew_size"`
	CrewMorale    float64 `json:"crew_morale"`
}

// DefaultShip is a small merchant galley.
func DefaultShip() Ship {
	return Ship{HullLevel: 1, RiggingLevel: 1, CargoCapacity: 50, CrewSize: 8, CrewMorale: 1.0}
}

// Stats tracks the merchant's career.
type Stats struct {
	TotalTrades       int             `json:"total_trades"`
	GoodsBought       map[string]int  `json:"goods_bought"`
	GoodsSold         map[string]int  `json:"goods_sold"`
	TotalSpent        surreal.Number  `json:"total_spent"`
	TotalEarned       surreal.Number  `json:"total_earned"`
	CitiesVisited     map[string]bool `json:"cities_visited"`
	RoutesTraveled    int             `json:"routes_traveled"`
	EventsEncountered int             `json:"events_encountered"`
	SupplyRefreshes   int             `json:"supply_refreshes"`
}

// Event is a notable occurrence in the merchant's journey.
type Event struct {
	Day         int    `json:"day" db:"day"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "trade", "voyage", "supply", "sea", "house"
}

// State is the player's mutable game state. It is passed explicitly to
// every action; nothing is global.
type State struct {
	Day        int               `json:"day"`
	CityID     string            `json:"city_id"`
	Cash       surreal.Number    `json:"cash"`
	StartCash  surreal.Number    `json:"start_cash"`
	Cargo      map[string]int    `json:"cargo"`
	Charters   []economy.Charter `json:"charters"`
	Reputation float64           `json:"reputation"` // merchant guild standing
	Ship       Ship              `json:"ship"`
	OwnsHouse  bool              `json:"owns_house"`
	Completed  bool              `json:"completed"`
	Stats      Stats             `json:"stats"`
	Events     []Event           `json:"events"`
}

// NewState returns the opening state for a merchant starting in cityID.
func NewState(cityID string) *State {
	return &State{
		Day:        StartDay,
		CityID:     cityID,
		Cash:       StartCash,
		StartCash:  StartCash,
		Cargo:      make(map[string]int),
		Reputation: StartReputation,
		Ship:       DefaultShip(),
		Stats: Stats{
			GoodsBought:   make(map[string]int),
			GoodsSold:     make(map[string]int),
			CitiesVisited: map[string]bool{cityID: true},
		},
	}
}

// CargoLoad returns the number of units aboard.
func (s *State) CargoLoad() int {
	n := 0
	for _, q := range s.Cargo {
		n += q
	}
	return n
}

// FreeHold returns the remaining cargo capacity.
func (s *State) FreeHold() int {
	return s.Ship.CargoCapacity - s.CargoLoad()
}

func (s *State) record(day int, category, description string) {
	s.Events = append(s.Events, Event{Day: day, Description: description, Category: category})
	// Keep the log bounded.
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}
