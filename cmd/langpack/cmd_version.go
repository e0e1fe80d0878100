package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden at release time via -ldflags "-X main.version=… -X main.commit=…".
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the langpack version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "langpack %s (%s)\n", version, commit)
	},
}
