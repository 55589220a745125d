package cli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var releasesCatalog string

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List the supported Sunbeam releases and their tracks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(releasesCatalog)
		if err != nil {
			return err
		}

		table := uitable.New()
		table.MaxColWidth = 40
		table.AddRow("RELEASE", "FAMILY", "TRACK")
		for _, release := range cat.ReleaseNames() {
			name := release
			if release == globalCfg.DefaultRelease {
				name += " (default)"
			}
			for _, kv := range cat.Tracks(release) {
				table.AddRow(name, kv[0], kv[1])
				name = ""
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(releasesCmd)
	releasesCmd.Flags().StringVar(&releasesCatalog, "catalog", "", "catalog file replacing the built-in package list")
}
