// Package cli implements the sunbeam-release command-line interface using
// Cobra.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/canonical/sunbeam-release/internal/config"
	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/tool"
	"github.com/canonical/sunbeam-release/internal/ui"
)

var (
	verbose bool
	quiet   bool
	jsonOut bool

	// globalCfg is loaded before any subcommand runs.
	globalCfg = config.DefaultGlobalConfig()

	// newRunner creates the runner used to invoke external tools.
	newRunner = func() tool.Runner { return &tool.ExecRunner{} }
)

var rootCmd = &cobra.Command{
	Use:   "sunbeam-release",
	Short: "Release helpers for OpenStack Sunbeam",
	Long: `Release helpers for OpenStack Sunbeam.

sunbeam-release promotes the charms and snaps that make up a Sunbeam
distribution release from one risk level to the next, using charmcraft,
snap and snapcraft.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		globalCfg = cfg

		ui.SetWriter(cmd.ErrOrStderr())
		ui.SetQuiet(quiet)
		if err := log.Init(log.Options{
			Verbose:       verbose,
			Quiet:         quiet,
			JSONFormat:    jsonOut,
			DebugDir:      config.DebugDir(),
			RetentionDays: cfg.Debug.RetentionDays,
			Stderr:        cmd.ErrOrStderr(),
		}); err != nil {
			// Log init failure is non-fatal; stderr logging still works.
			ui.Warnf("failed to initialize debug logging: %v", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Close()
	},
}

// Execute runs the root command, cancelling it on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors and commands")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}
