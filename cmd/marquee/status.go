package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	st, err := newClient().Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, st)
		return nil
	}

	syncState := "disabled"
	if st.SyncEnabled {
		syncState = "enabled"
	}
	fmt.Fprintf(out, "marqueed v%s | Server: %s | Status: %s\n\n", st.Version, serverURL, st.Status)
	fmt.Fprintf(out, "  Movies:       %d\n", st.Movies)
	fmt.Fprintf(out, "  Data version: %s\n", st.DataVersion)
	fmt.Fprintf(out, "  Sync:         %s\n", syncState)
	if st.LastSync != nil {
		fmt.Fprintf(out, "  Last sync:    %s (%d created, %d updated, %d failed)\n",
			st.LastSync.StartedAt.Local().Format("2006-01-02 15:04"),
			st.LastSync.Created, st.LastSync.Updated, st.LastSync.Failed)
	}
	return nil
}
