package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sailkite/dockyard/src/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dockyard version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
