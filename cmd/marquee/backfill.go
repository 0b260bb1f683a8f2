package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/storeclient"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fill in cast and directors for movies already in the catalog",
	Long: `Ask the server to re-import catalog movies from TMDB in batches so
their credits and people records are filled in. Without --all only one
batch runs; pass the printed next offset to continue.

Examples:
  marquee backfill                     # First batch
  marquee backfill --offset 50         # Next batch
  marquee backfill --all --limit 100   # Everything, 100 at a time`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().Int("offset", 0, "Catalog position to start at")
	backfillCmd.Flags().Int("limit", 0, "Movies per batch (default: server decides)")
	backfillCmd.Flags().Bool("all", false, "Keep going until every movie is processed")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	if offset < 0 || limit < 0 {
		return errors.New("--offset and --limit must not be negative")
	}

	client := newClient()
	out := cmd.OutOrStdout()
	var results []*storeclient.BackfillResult
	for {
		res, err := client.Backfill(cmd.Context(), offset, limit)
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
			return fmt.Errorf("backfill failed: %w", err)
		}
		results = append(results, res)
		if !jsonOutput {
			fmt.Fprintf(out, "Backfilled %d-%d of %d: %d succeeded, %d failed.\n",
				offset, res.NextOffset, res.TotalMovies, res.Succeeded, res.Failed)
		}
		if res.Done || !all || res.NextOffset <= offset {
			break
		}
		offset = res.NextOffset
	}

	last := results[len(results)-1]
	if jsonOutput {
		printJSON(out, results)
		return nil
	}
	if last.Done {
		fmt.Fprintln(out, "Backfill complete.")
	} else {
		fmt.Fprintf(out, "More to do: run again with --offset %d.\n", last.NextOffset)
	}
	return nil
}
