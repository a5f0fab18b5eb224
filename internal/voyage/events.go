package voyage

import "github.com/Lunthu/Surreal-Phoenicians/internal/entropy"

// Event is something that happens at sea.
type Event uint8

const (
	Pirates Event = iota
	Storm
	FairWinds
	Informant
)

// PirateTribute is what pirates take, in coins.
const PirateTribute = 50

// StormMorale multiplies crew morale after a storm.
const StormMorale = 0.9

var allEvents = []Event{Pirates, Storm, FairWinds, Informant}

func (e Event) String() string {
	switch e {
	case Pirates:
		return "pirates"
	case Storm:
		return "storm"
	case FairWinds:
		return "fair winds"
	case Informant:
		return "informant"
	default:
		return "unknown"
	}
}

// Description is the line shown in the event log.
func (e Event) Description() string {
	switch e {
	case Pirates:
		return "Pirates demand tribute! Lost 50 coins."
	case Storm:
		return "Storm delays journey! Crew morale slightly decreased."
	case FairWinds:
		return "Favorable winds! Arrived ahead of schedule."
	case Informant:
		return "Met another trader with valuable information!"
	default:
		return "Nothing of note."
	}
}

// RollEvent decides whether an event occurs given its probability and
// which one it is.
func RollEvent(risk float64, rng entropy.Source) (Event, bool) {
	if rng.Float() >= risk {
		return 0, false
	}
	return allEvents[rng.IntRange(0, len(allEvents)-1)], true
}
