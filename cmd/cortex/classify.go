package main

import (
	"fmt"

	"github.com/aretw0/cortex/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <label> [concept-id]",
	Short: "Show which region a concept would be placed in",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}
		brain, err := newBrain(cfg, quietLogger(cfg))
		if err != nil {
			return err
		}

		conceptID := ""
		if len(args) > 1 {
			conceptID = args[1]
		}
		region, _ := catalog.Lookup(brain.Classify(args[0], conceptID))

		if isTerminal() {
			fmt.Fprintln(cmd.OutOrStdout(), tui.RegionSwatch(region))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), region.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
