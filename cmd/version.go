package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "cachemole %s (%s) built %s\n", appVersion, appCommit, appDate)
		_, _ = fmt.Fprintf(out, "platform: %s\n", core.PlatformString())
	},
}
