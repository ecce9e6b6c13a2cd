package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/soundboard/internal/presentation/graph"
	"github.com/aretw0/soundboard/internal/presentation/tui"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show the menu as it reads on the numpad",
	Long:  `Renders the menu outline in the terminal. When stdout is not a terminal the plain markdown is printed.`,
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

		out := cmd.OutOrStdout()
		render := tui.PlainRenderer()
		if isTerminal(out) {
			if render, err = tui.NewRenderer(terminalWidth(out)); err != nil {
				return err
			}
		}
		text, err := render(graph.GenerateMarkdown(sb, console.DefaultLimits()))
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		_, err = io.WriteString(out, text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
