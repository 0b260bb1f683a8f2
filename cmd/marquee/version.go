package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipSettings,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
