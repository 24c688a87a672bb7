package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"tracker-comparer/feature/compare"

	"github.com/spf13/cobra"
)

// servicesCmd lists the selectable services.
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the services a comparison can select",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tNOTES")
		for _, e := range compare.Services() {
			notes := ""
			switch {
			case e.NeedsProfileURL:
				notes = "needs --tsa-url"
			case e.OwnProfileOnly:
				notes = "own profile only"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Name, notes)
		}
		_ = w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(servicesCmd)
}
