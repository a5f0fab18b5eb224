package main

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Lunthu/Surreal-Phoenicians/internal/autopilot"
)

var (
	simTurns     int
	simMinMargin float64
	simFresh     bool
	simNoSave    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the autopilot merchant trade",
	Long: `Run the greedy autopilot merchant for a number of turns. Each turn sells
cargo, buys the most profitable lot and sails. The game is resumed from and
saved to the SQLite file unless --new or --no-save are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		g, err := loadOrNewGame(db, simFresh)
		if err != nil {
			return err
		}

		sum, err := autopilot.Run(g, autopilot.Trader{MinMargin: simMinMargin}, simTurns)
		if err != nil {
			return err
		}
		slog.Info("simulation finished", "turns", sum.Turns, "day", sum.Days, "won", sum.Won)

		if !simNoSave {
			if err := saveGame(db, g); err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Turns played:  %d\n", sum.Turns)
		fmt.Fprintf(out, "Day:           %d\n", sum.Days)
		fmt.Fprintf(out, "Trades:        %s\n", humanize.Comma(int64(sum.Trades)))
		fmt.Fprintf(out, "Net worth:     %s coins [%s]\n", humanize.FormatFloat("#,###.##", sum.NetWorth.Real), sum.NetWorth)
		fmt.Fprintf(out, "Profit:        %s coins\n", humanize.FormatFloat("#,###.##", sum.Rating.Profit))
		if sum.Won {
			fmt.Fprintln(out, "Victory: a house in Carthage!")
		}
		fmt.Fprintf(out, "Rating:        %d/10, %s\n", sum.Rating.Score, sum.Rating.Title)
		for _, a := range sum.Rating.Awards {
			fmt.Fprintf(out, "  - %s\n", a)
		}

		if n := len(g.State.Events); n > 0 {
			fmt.Fprintln(out, "\nRecent events:")
			for _, e := range g.State.Events[max(0, n-5):] {
				fmt.Fprintf(out, "  %s day: %s\n", humanize.Ordinal(e.Day), e.Description)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simTurns, "turns", 40, "maximum turns to play")
	simulateCmd.Flags().Float64Var(&simMinMargin, "min-margin", 0, "smallest per-unit profit worth carrying")
	simulateCmd.Flags().BoolVar(&simFresh, "new", false, "start a new game instead of resuming")
	simulateCmd.Flags().BoolVar(&simNoSave, "no-save", false, "do not write the result to the database")
}
