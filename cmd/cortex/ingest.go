package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/presentation/graph"
	"github.com/aretw0/cortex/internal/presentation/tui"
	"github.com/aretw0/cortex/pkg/extraction"
	"github.com/aretw0/cortex/pkg/recall"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Integrate extraction results and print what the brain knows",
	Long: `Reads one extraction result per file (JSON: {"nodes": [...], "links": [...]}),
integrates them in order into a fresh brain, and prints the resulting memory.
Use "-" or no argument to read from stdin.`,
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
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		for _, path := range args {
			if err := ingestFile(ctx, brain, path, cmd.InOrStdin()); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("output")
		return printMemory(cmd.OutOrStdout(), brain, format)
	},
}

func ingestFile(ctx context.Context, brain *cortex.Brain, path string, stdin io.Reader) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := extraction.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := brain.Ingest(ctx, result); err != nil {
		fmt.Fprintf(os.Stderr, "%s: some candidates were rejected: %v\n", path, err)
	}
	return nil
}

func printMemory(w io.Writer, brain *cortex.Brain, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(brain.Snapshot())
	case "mermaid":
		_, err := io.WriteString(w, graph.GenerateMermaid(brain.Snapshot(), brain.Regions()))
		return err
	case "context":
		_, err := fmt.Fprintln(w, brain.Describe())
		return err
	case "", "markdown":
		md := recall.Markdown(brain.Snapshot(), brain.Regions())
		if isTerminal() {
			render, err := tui.NewRenderer(0)
			if err == nil {
				if out, err := render(md); err == nil {
					md = out
				}
			}
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		return fmt.Errorf("unknown output format %q (markdown, context, json, mermaid)", format)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringP("output", "o", "markdown", "Output format: markdown, context, json or mermaid")
}
