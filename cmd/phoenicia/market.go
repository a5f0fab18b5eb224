package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Lunthu/Surreal-Phoenicians/internal/engine"
	"github.com/Lunthu/Surreal-Phoenicians/internal/pricing"
	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

var marketFresh bool

var marketCmd = &cobra.Command{
	Use:   "market [city]",
	Short: "Show a city's market board",
	Long: `Show buy and sell quotes for every good a city stocks, as seen by the
saved merchant (or a new one with --new). Defaults to the merchant's port.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		g, err := loadOrNewGame(db, marketFresh)
		if err != nil {
			return err
		}
		cityID := g.State.CityID
		if len(args) == 1 {
			cityID = args[0]
		}
		return printMarket(cmd.OutOrStdout(), g, cityID)
	},
}

func init() {
	marketCmd.Flags().BoolVar(&marketFresh, "new", false, "ignore the saved game")
}

func coins(n surreal.Number) string {
	return humanize.FormatFloat("#,###.##", n.Real)
}

func printMarket(out io.Writer, g *engine.Game, cityID string) error {
	city, ok := g.World.City(cityID)
	if !ok {
		return fmt.Errorf("unknown city %q", cityID)
	}
	s := g.State

	fmt.Fprintf(out, "%s (%s), day %d, %s\n", strings.ToUpper(city.Name), city.Region, s.Day, g.Season())
	fmt.Fprintf(out, "Funds: %s coins [%s]   Cargo: %d/%d\n", coins(s.Cash), s.Cash, s.CargoLoad(), s.Ship.CargoCapacity)
	switch days := g.DaysUntilRefresh(); {
	case days <= 0:
		fmt.Fprintln(out, "Supply caravans are due")
	default:
		fmt.Fprintf(out, "Next supply caravans in %d days\n", days)
	}
	if cityID == engine.HouseCity && !s.OwnsHouse {
		need := engine.HouseCoins - s.Cash.Real
		if need > 0 {
			fmt.Fprintf(out, "House in %s: %s coins, %s more needed\n", city.Name, humanize.Comma(engine.HouseCoins), humanize.FormatFloat("#,###.", need))
		} else {
			fmt.Fprintf(out, "House in %s is affordable\n", city.Name)
		}
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GOOD\tSTOCK\tBUY\tSELL\tSPREAD\tSTATUS")
	for _, goodID := range city.GoodIDs() {
		good, ok := g.World.Good(goodID)
		if !ok {
			continue
		}
		buy, _ := g.QuoteAt(goodID, cityID, true)
		sell, _ := g.QuoteAt(goodID, cityID, false)
		spread := pricing.Spread(buy, sell)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.1f%%\t%s\n",
			good.Name, city.StockOf(goodID), buy, sell, spread, marketStatus(g, cityID, goodID, buy, spread))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nNet worth: %s coins\n", coins(g.NetWorth()))
	return nil
}

func marketStatus(g *engine.Game, cityID, goodID string, buy surreal.Number, spread float64) string {
	city, _ := g.World.City(cityID)
	var tags []string
	stock := city.StockOf(goodID)
	switch {
	case !buy.IsLegal():
		tags = append(tags, "RESTRICTED")
	case stock < 5:
		tags = append(tags, "low stock")
	case stock > 25:
		tags = append(tags, "well stocked")
	case g.State.Cargo[goodID] > 10:
		tags = append(tags, "you hold many")
	}
	if spread > 20 {
		tags = append(tags, "high spread")
	}
	return strings.Join(tags, ", ")
}
