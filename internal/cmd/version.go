package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"

	"github.com/3leaps/sharelink/internal/config"
)

var versionExtended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, err := fmt.Fprintf(out, "%s %s\n", config.AppName, versionInfo.Version)
		if err != nil || !versionExtended {
			return err
		}

		v := crucible.GetVersion()
		_, err = fmt.Fprintf(out, "commit:     %s\nbuilt:      %s\ngofulmen:   %s\ncrucible:   %s\n",
			versionInfo.Commit, versionInfo.BuildDate, v.Gofulmen, v.Crucible)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionExtended, "extended", false, "Include build and library details")
}
