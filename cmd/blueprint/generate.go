package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/blueprint/internal/presentation/graph"
	"github.com/aretw0/blueprint/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var generateCmd = &cobra.Command{
	Use:   "generate <session-id>",
	Short: "Generate the blueprint of a session",
	Long: `Generates the workout blueprint of a session and prints it.

Formats:
- markdown (default): rendered with colors when stdout is a terminal.
- json: the full blueprint, candidates included.
- mermaid: a flowchart of blocks and placed exercises.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		force, _ := cmd.Flags().GetBool("force")
		client, _ := cmd.Flags().GetString("client")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.service().Generate(cmd.Context(), args[0], force)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Blueprint)
		case "mermaid":
			var overlay *graph.Overlay
			if client != "" {
				overlay = &graph.Overlay{ClientID: client}
			}
			_, err := fmt.Fprint(out, graph.GenerateMermaid(res.Blueprint, overlay))
			return err
		case "markdown", "md":
			md := tui.Markdown(res.Blueprint)
			if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				width, _, err := term.GetSize(int(f.Fd()))
				if err != nil {
					width = 0
				}
				render, err := tui.NewRenderer(width)
				if err != nil {
					return err
				}
				if md, err = render(md); err != nil {
					return err
				}
			}
			_, err := fmt.Fprint(out, md)
			return err
		default:
			return fmt.Errorf("unknown format %q (supported: markdown, json, mermaid)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, json or mermaid")
	generateCmd.Flags().Bool("force", false, "Ignore the cached blueprint")
	generateCmd.Flags().String("client", "", "Highlight one client's exercises (mermaid only)")
}
