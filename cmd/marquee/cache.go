package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the local movie cache",
	}

	cacheStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the local cache holds",
		Args:  cobra.NoArgs,
		RunE:  runCacheStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached movie list and people",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	}

	invalidateCmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Mark the cache so the next run discards it",
		Args:  cobra.NoArgs,
		RunE:  runCacheInvalidate,
	}

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(clearCmd)
	cacheCmd.AddCommand(invalidateCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(cmd *cobra.Command, _ []string) error {
	cache, _, err := openCache(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	st := cache.Status()
	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, st)
		return nil
	}

	location := cachePath
	if location == "" {
		location = "(memory)"
	}
	fmt.Fprintf(out, "Cache: %s\n\n", location)
	if !st.HasCache {
		fmt.Fprintln(out, "  No cached movies.")
		if st.People > 0 {
			fmt.Fprintf(out, "  People:       %d\n", st.People)
		}
		return nil
	}
	fmt.Fprintf(out, "  Movies:       %d\n", st.Count)
	fmt.Fprintf(out, "  Data version: %s\n", st.DataVersion)
	fmt.Fprintf(out, "  Format:       %s\n", st.SchemaVersion)
	fmt.Fprintf(out, "  People:       %d\n", st.People)
	if !st.WrittenAt.IsZero() {
		fmt.Fprintf(out, "  Written:      %s\n", st.WrittenAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	cache, boot, err := openCache(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	boot.Reset()
	cache.ClearPeople()
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

func runCacheInvalidate(cmd *cobra.Command, _ []string) error {
	cache, boot, err := openCache(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	marker := boot.Invalidate()
	fmt.Fprintf(cmd.OutOrStdout(), "Cache invalidated (marker %s); it will be discarded on the next run.\n", marker)
	return nil
}
