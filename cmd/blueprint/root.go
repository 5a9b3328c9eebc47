package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Blueprint plans group workout sessions",
	Long: `Blueprint turns a session roster and an exercise catalog into a workout
blueprint: ranked candidates, shared pools and per-client assignments for every
round of a template.

Settings are read from BLUEPRINT_* environment variables; flags override them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dataset", "", "YAML dataset of catalogs and sessions to seed the roster with")
	rootCmd.PersistentFlags().String("data", "", "Directory for a file-backed roster (default: in memory)")
	rootCmd.PersistentFlags().String("templates", "", "YAML or JSON file with extra workout templates")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}
