package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"symptom-checker/internal/config"
)

var flagInitForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file holding the default settings",
	Args:  cobra.MaximumNArgs(1),
	// init runs before any config exists
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "config.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !flagInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  ✓  wrote %s\n", path)
	return nil
}
