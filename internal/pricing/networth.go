package pricing

import (
	"sort"

	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// QuoteFunc returns the sell quote for a good in a city.
type QuoteFunc func(goodID, cityID string) surreal.Number

// NetWorth values cash plus cargo. Each cargo good is valued at the average
// of its legal sell quotes across cityIDs; goods with no legal market add
// nothing.
func NetWorth(cash surreal.Number, cargo map[string]int, cityIDs []string, sellQuote QuoteFunc) surreal.Number {
	goods := make([]string, 0, len(cargo))
	for id := range cargo {
		goods = append(goods, id)
	}
	sort.Strings(goods)

	total := cash
	for _, goodID := range goods {
		qty := cargo[goodID]
		if qty <= 0 {
			continue
		}

		sum := surreal.Zero
		count := 0
		for _, cityID := range cityIDs {
			q := sellQuote(goodID, cityID)
			if !q.IsLegal() {
				continue
			}
			sum = sum.Add(q.ClearOmega())
			count++
		}
		if count == 0 {
			continue
		}
		avg := sum.Scale(1 / float64(count))
		total = total.Add(avg.Scale(float64(qty)))
	}
	return total
}
