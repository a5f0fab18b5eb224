// Package pricing computes buy and sell quotes for a good in a city from
// base prices, city modifiers, stock levels, player holdings, reputation and
// charters. Quotes carry legality on the infinite axis; callers must check
// IsLegal before trading.
package pricing

import (
	"golang.org/x/exp/constraints"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// Market spread constants.
const (
	BaseSpread         = 0.15 // merchant margin between buy and sell
	SpecialtySellCut   = 0.05 // extra sell discount in a producing city
	BuyStockWeight     = 0.10
	SellStockWeight    = 0.05
	HoldingPressure    = 0.02 // per unit already held
	SellFloor          = 0.70 // seller never loses more than 30% of market value
	SpecialtyBuyMarkup = 1.02
	SpecialtyBuyEps    = 0.5
	SpecialtySellEps   = 0.3
	ReputationEps      = -0.15 // per reputation point, both directions
	StockDivisor       = 10.0
	MinStockFactor     = 0.5
	MaxStockFactor     = 2.0
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StockFactor maps a city's stock to the supply pressure multiplier.
func StockFactor(stock int) float64 {
	return clamp(float64(stock)/StockDivisor, MinStockFactor, MaxStockFactor)
}

// BasePrice returns the good's price in the city before market spread:
// base price plus city modifier, with the embargo axis resolved against
// monopoly status and charters.
func BasePrice(good *economy.Good, city *economy.City, charters []economy.Charter) surreal.Number {
	omega := 0.0
	if good.Monopoly {
		omega = 1
	}
	price := surreal.New(good.BaseReal, good.BaseEps, omega)

	if mod, ok := city.Modifier(good.ID); ok {
		price.Real += mod.Real
		price.Eps += mod.Eps
		if good.Monopoly {
			price.Omega = mod.Omega
		} else {
			price.Omega = 0
		}
	}

	// A charter always wins over an embargo.
	if economy.AnyCharterApplies(charters, city.ID, good.ID) {
		price = price.ClearOmega()
	}
	return price
}

// Quote returns the per-unit price the player pays (buying) or receives
// (selling) for good in city. It has no side effects.
func Quote(good *economy.Good, city *economy.City, buying bool, holdings int, reputation float64, charters []economy.Charter) surreal.Number {
	price := BasePrice(good, city, charters)

	stockFactor := StockFactor(city.StockOf(good.ID))
	inventoryPressure := 1 + HoldingPressure*float64(holdings)
	specialty := city.IsSpecialty(good.ID)

	if buying {
		multiplier := 1 + BaseSpread + (1/stockFactor-1)*BuyStockWeight
		price.Real *= multiplier
		// The city resists selling cheap what it specializes in.
		if specialty {
			price.Real *= SpecialtyBuyMarkup
			price.Eps += SpecialtyBuyEps
		}
	} else {
		multiplier := 1 - BaseSpread
		if specialty {
			multiplier -= SpecialtySellCut
		}
		multiplier -= (stockFactor - 1) * SellStockWeight
		multiplier /= inventoryPressure
		price.Real *= max(SellFloor, multiplier)
		if specialty {
			price.Eps -= SpecialtySellEps
		}
	}

	price.Eps += reputation * ReputationEps
	return price
}

// Spread returns the percentage of the buy price lost on an immediate
// resale, based on the real axis. Zero when buy is not positive.
func Spread(buy, sell surreal.Number) float64 {
	if buy.Real <= 0 {
		return 0
	}
	return (buy.Real - sell.Real) / buy.Real * 100
}
