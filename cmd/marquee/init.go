package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/config"
)

var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Write a default config file",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipSettings,
	RunE:              runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().String("path", "", "Where to write the config (default: "+config.DefaultPath()+")")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
