package main

import (
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file...]",
	Short: "Export the brain as a Mermaid diagram",
	Long:  `Integrates the given extraction results and outputs a Mermaid diagram with one subgraph per region.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		brain, err := newBrain(cfg, quietLogger(cfg))
		if err != nil {
			return err
		}

		if len(args) == 0 {
			args = []string{"-"}
		}
		for _, path := range args {
			if err := ingestFile(cmd.Context(), brain, path, cmd.InOrStdin()); err != nil {
				return err
			}
		}
		return printMemory(cmd.OutOrStdout(), brain, "mermaid")
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
