package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Actual values can be injected via ldflags in the build command.
var (
	version = "unknown"
	commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (commit %s, %s)\n", app, version, commit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
