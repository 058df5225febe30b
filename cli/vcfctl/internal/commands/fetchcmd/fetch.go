// Package fetchcmd runs the download step on its own.
package fetchcmd

import (
	"github.com/spf13/cobra"

	"vcfkit/cli/vcfctl/internal/commands/setupcmd"
	"vcfkit/cli/vcfctl/internal/steps"
)

func NewCommand(sc *steps.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the VCF data file into the data directory if absent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if force {
				return setupcmd.ForceFetch(sc)
			}
			return setupcmd.FetchStep(sc)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Download again even if the file exists")
	return cmd
}
