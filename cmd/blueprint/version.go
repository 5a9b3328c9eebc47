package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blueprint",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(blueprint.Version))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "blueprint version %s\n", strings.TrimSpace(blueprint.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
