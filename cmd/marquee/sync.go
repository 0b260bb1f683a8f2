package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/storeclient"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import movies from TMDB on the server",
	Long: `Ask the server to import its configured TMDB lists now and wait for
the result. Cached movie lists pick up the changes on their next check.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	res, err := newClient().TriggerSync(cmd.Context())
	if err != nil {
		var fe *storeclient.FetchError
		if errors.As(err, &fe) {
			switch fe.StatusCode {
			case http.StatusServiceUnavailable:
				return errors.New("sync is not enabled on the server")
			case http.StatusConflict:
				return errors.New("a sync is already running")
			}
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), res)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sync complete in %s: %d discovered, %d created, %d updated, %d failed.\n",
		res.Duration, res.Discovered, res.Created, res.Updated, res.Failed)
	return nil
}
