package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rybkr/setupdb/internal/config"
)

var (
	configFile string
	verbose    bool
	workers    int

	cfg    = config.Default()
	logger = slog.Default()

	rootCmd = &cobra.Command{
		Use:   "setupdb",
		Short: "Split Tetris setups into piece placements and put them back together",
		Long: `setupdb reads v115 field documents and works out which sequence of
grounded piece drops builds each field (disassemble), or replays the drops
of a document onto its first field (assemble).`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log search statistics")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Documents processed in parallel (0 = one per CPU)")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads settings and installs the logger. Flags given on the command
// line win over the file and the environment.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		loaded.Workers = workers
	}
	if verbose {
		loaded.LogLevel = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := loaded.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg = loaded
	return nil
}

// overrideBool replaces *dst with the named flag's value when it was set.
func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("flag --%s: %w", name, err)
	}
	*dst = v
	return nil
}
