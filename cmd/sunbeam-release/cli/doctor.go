package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/sunbeam-release/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the release tooling environment",
	Long: `Checks that charmcraft, snap and snapcraft can be found and prints their
versions, then summarises the catalog in use.

Tool commands can be overridden in ~/.sunbeam-release/config.yaml or with the
SUNBEAM_RELEASE_CHARMCRAFT, SUNBEAM_RELEASE_SNAP and SUNBEAM_RELEASE_SNAPCRAFT
environment variables.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var doctorCatalog string

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorCatalog, "catalog", "", "catalog file replacing the built-in package list")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	tools, err := globalCfg.ToolSet()
	if err != nil {
		return err
	}
	cat, path, err := loadCatalog(doctorCatalog)
	if err != nil {
		return err
	}

	reg := doctor.NewRegistry()
	reg.Register(&doctor.ToolsSection{Runner: newRunner(), Tools: tools})
	reg.Register(&doctor.CatalogSection{Catalog: cat, Path: path})

	if problems := reg.Run(cmd.OutOrStdout()); problems > 0 {
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	return nil
}
