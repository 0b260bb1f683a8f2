package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Discard the local cache and reload every movie",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	s.provider.ForceRefresh(cmd.Context())
	st, err := s.provider.WaitSettled(cmd.Context())
	if err != nil {
		return err
	}
	if st.Error {
		return errors.New("refresh failed: could not load movies from " + serverURL)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{
			"count":        len(st.Movies),
			"data_version": st.DataVersion,
		})
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d movies (version %s).\n", len(st.Movies), st.DataVersion)
	return nil
}
