package version

import "github.com/spf13/cobra"

var (
	// Cmd prints the version of the binary it is added to.
	Cmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number of portassign",
		Run: func(cmd *cobra.Command, args []string) {
			FprintVersion(cmd.OutOrStdout())
		},
	}
)
