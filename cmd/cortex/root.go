package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/internal/config"
	"github.com/aretw0/cortex/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "Cortex is a living knowledge graph shaped like a brain",
	Long: `Cortex integrates concepts and relations extracted from conversation into a
graph of semantic regions. Concepts are reinforced on repetition, activation
fades over time, and signals travel between regions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("regions", "", "Region catalog file, overrides regions.file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error), overrides log.level")
}

// loadConfig reads the configuration and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("regions"); v != "" {
		cfg.Regions.File = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

// newBrain assembles a brain from the configuration plus extra options.
func newBrain(cfg config.Config, logger *slog.Logger, extra ...cortex.Option) (*cortex.Brain, error) {
	opts, err := cfg.BrainOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, cortex.WithLogger(logger))
	opts = append(opts, extra...)
	return cortex.New(opts...), nil
}

// quietLogger is used by one-shot commands: only warnings and errors reach stderr.
func quietLogger(cfg config.Config) *slog.Logger {
	if cfg.Log.Level == "info" {
		return logging.New(slog.LevelWarn, cfg.Log.Format)
	}
	return cfg.Logger()
}

// isTerminal reports whether styled output should be written to stdout.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
