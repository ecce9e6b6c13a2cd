package main

import (
	"fmt"

	"github.com/aretw0/soundboard/internal/presentation/graph"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the menu visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the menu, or a markdown outline with --format markdown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := commonOptions(cmd, args)
		if err != nil {
			return err
		}
		sb, err := file.Load(opts.Source)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			var overlay *graph.Overlay
			if selected, _ := cmd.Flags().GetString("path"); selected != "" {
				p, err := domain.ParsePath(selected)
				if err != nil {
					return err
				}
				overlay = &graph.Overlay{Selected: p}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(sb, overlay))
		case "markdown":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMarkdown(sb, console.DefaultLimits()))
		default:
			return fmt.Errorf("unknown format %q (want mermaid or markdown)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: 'mermaid' or 'markdown'")
	graphCmd.Flags().String("path", "", "Highlight the menu path, e.g. 1.2 (mermaid only)")
}
