package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lunthu/Surreal-Phoenicians/internal/negotiation"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// Receipt documents a completed trade.
type Receipt struct {
	ID       uuid.UUID      `json:"id"`
	Day      int            `json:"day"`
	City     string         `json:"city"`
	Good     string         `json:"good"`
	Quantity int            `json:"quantity"`
	Buying   bool           `json:"buying"`
	Total    surreal.Number `json:"total"`
}

// settle runs the quote through negotiation and maps its failures onto
// action errors.
func (g *Game) settle(goodID string, buying bool, qty int) (surreal.Number, error) {
	cityID := g.State.CityID
	quote, err := g.Quote(goodID, buying)
	if err != nil {
		return surreal.Number{}, err
	}
	total, err := negotiation.Resolve(quote, buying, qty)
	switch {
	case errors.Is(err, negotiation.ErrNoPermit):
		return surreal.Number{}, reject(IllegalPrice, goodID, cityID, "requires a permit")
	case errors.Is(err, negotiation.ErrInvalidQuantity):
		return surreal.Number{}, reject(InvalidQuantity, goodID, cityID, "quantity %d", qty)
	case err != nil:
		return surreal.Number{}, fmt.Errorf("settle %s: %w", goodID, err)
	}
	return total, nil
}

// Buy purchases qty units of a good in the current city.
func (g *Game) Buy(goodID string, qty int) (Receipt, error) {
	s := g.State
	if s.Completed {
		return Receipt{}, reject(GameOver, goodID, s.CityID, "")
	}
	if _, ok := g.World.Good(goodID); !ok {
		return Receipt{}, reject(InvalidSelection, goodID, s.CityID, "unknown good")
	}
	city := g.CurrentCity()
	stock := city.StockOf(goodID)
	if qty < 1 || qty > stock {
		return Receipt{}, reject(InvalidQuantity, goodID, city.ID, "want %d, stock %d", qty, stock)
	}
	if qty > s.FreeHold() {
		return Receipt{}, reject(CargoFull, goodID, city.ID, "want %d, room for %d", qty, s.FreeHold())
	}

	total, err := g.settle(goodID, true, qty)
	if err != nil {
		return Receipt{}, err
	}
	if s.Cash.Less(total) {
		return Receipt{}, reject(InsufficientFunds, goodID, city.ID, "price %s, cash %s", total, s.Cash)
	}

	s.Cash = s.Cash.Sub(total)
	s.Cargo[goodID] += qty
	city.Stock[goodID] -= qty
	s.Stats.TotalTrades++
	s.Stats.GoodsBought[goodID] += qty
	s.Stats.TotalSpent = s.Stats.TotalSpent.Add(total)

	r := g.receipt(goodID, qty, true, total)
	s.record(s.Day, "trade", fmt.Sprintf("Purchased %dx %s for %s", qty, g.goodName(goodID), total))
	g.log.Info("trade", "side", "buy", "good", goodID, "qty", qty, "city", city.ID, "total", total.String(), "receipt", r.ID)
	return r, nil
}

// Sell sells qty units of cargo in the current city.
func (g *Game) Sell(goodID string, qty int) (Receipt, error) {
	s := g.State
	if s.Completed {
		return Receipt{}, reject(GameOver, goodID, s.CityID, "")
	}
	if _, ok := g.World.Good(goodID); !ok {
		return Receipt{}, reject(InvalidSelection, goodID, s.CityID, "unknown good")
	}
	held := s.Cargo[goodID]
	if qty < 1 || qty > held {
		return Receipt{}, reject(InvalidQuantity, goodID, s.CityID, "want %d, holding %d", qty, held)
	}

	total, err := g.settle(goodID, false, qty)
	if err != nil {
		return Receipt{}, err
	}

	city := g.CurrentCity()
	s.Cash = s.Cash.Add(total)
	s.Cargo[goodID] -= qty
	if s.Cargo[goodID] == 0 {
		delete(s.Cargo, goodID)
	}
	if city.Stock == nil {
		city.Stock = make(map[string]int)
	}
	city.Stock[goodID] += qty
	s.Stats.TotalTrades++
	s.Stats.GoodsSold[goodID] += qty
	s.Stats.TotalEarned = s.Stats.TotalEarned.Add(total)

	r := g.receipt(goodID, qty, false, total)
	s.record(s.Day, "trade", fmt.Sprintf("Sold %dx %s for %s", qty, g.goodName(goodID), total))
	g.log.Info("trade", "side", "sell", "good", goodID, "qty", qty, "city", city.ID, "total", total.String(), "receipt", r.ID)
	return r, nil
}

func (g *Game) receipt(goodID string, qty int, buying bool, total surreal.Number) Receipt {
	return Receipt{
		ID:       uuid.New(),
		Day:      g.State.Day,
		City:     g.State.CityID,
		Good:     goodID,
		Quantity: qty,
		Buying:   buying,
		Total:    total,
	}
}

func (g *Game) goodName(goodID string) string {
	if good, ok := g.World.Good(goodID); ok {
		return good.Name
	}
	return goodID
}
