package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/config"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	configPath string
	cachePath  string
	verbose    bool

	// timeout comes from the [client] config section.
	timeout = 30 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse the marquee movie catalog",
	Long: `marquee - browse the marquee movie catalog

Movie lists are cached locally and served instantly; the cache is
checked against the server's data version and refreshed only when
the catalog has changed.

Run 'marqueed' to start the server daemon.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Movie cache file; empty keeps the cache in memory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log cache and network activity")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("marquee {{.Version}}\n")
}

// loadSettings fills unset flags from the config file. A missing config file
// is not an error; an invalid one is.
func loadSettings(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()

	path := configPath
	if path == "" {
		if found, err := config.Discover(); err == nil {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = loaded
	}

	if !cmd.Flags().Changed("server") {
		serverURL = cfg.Client.ServerURL
	}
	if !cmd.Flags().Changed("cache") {
		cachePath = cfg.Client.CachePath
	}
	timeout = cfg.Client.Timeout
	return nil
}

// skipSettings is used by commands that must work without a valid config.
func skipSettings(*cobra.Command, []string) error { return nil }
