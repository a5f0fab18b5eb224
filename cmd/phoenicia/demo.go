package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show surreal price arithmetic",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		glass := surreal.New(120, -1, 0) // reputation bonus
		dye := surreal.New(220, -3, 1)   // embargoed

		fmt.Fprintln(out, "Surreal price demo")
		fmt.Fprintf(out, "  Glass price:            %s\n", glass)
		fmt.Fprintf(out, "  Purple dye (embargoed): %s\n", dye)
		fmt.Fprintf(out, "  Sum:                    %s\n", glass.Add(dye))
		fmt.Fprintf(out, "  Glass is legal:         %t\n", glass.IsLegal())
		fmt.Fprintf(out, "  Dye is legal:           %t\n", dye.IsLegal())
		fmt.Fprintf(out, "  Dye with permit:        %s\n", dye.ClearOmega())
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Glass < dye?            %t\n", glass.Less(dye))
		fmt.Fprintf(out, "  Glass < permitted dye?  %t\n", glass.Less(dye.ClearOmega()))
	},
}
