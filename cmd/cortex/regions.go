package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/cortex/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the region catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		styled := isTerminal()
		for _, r := range catalog.All() {
			marker := " "
			if r.ID == catalog.Default().ID {
				marker = "*"
			}
			if styled {
				fmt.Fprintf(out, "%s %s\n", marker, tui.RegionSwatch(r))
			} else {
				fmt.Fprintf(out, "%s %s\t%s\t%s\t(%g, %g, %g)\n",
					marker, r.ID, r.Label, r.Color, r.Anchor.X, r.Anchor.Y, r.Anchor.Z)
			}
			if verbose, _ := cmd.Flags().GetBool("keywords"); verbose {
				fmt.Fprintf(out, "    %s\n", strings.Join(r.Keywords, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.Flags().BoolP("keywords", "k", false, "Also print the classification keywords")
}
