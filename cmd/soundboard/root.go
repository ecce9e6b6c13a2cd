package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/soundboard/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soundboard",
	Short: "Soundboard compiles chat message menus into Source engine configs",
	Long: `Soundboard turns a YAML tree of chat messages into a .cfg script that
plays them from the numpad: digits walk the menu, 0 cancels.`,
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
	rootCmd.PersistentFlags().String("dir", ".", "Directory searched for soundboard.yaml when no file is given")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: 'text' or 'json'")
}

// commonOptions reads the persistent flags and the optional source argument.
func commonOptions(cmd *cobra.Command, args []string) (cli.Options, *slog.Logger, error) {
	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")
	format, _ := cmd.Flags().GetString("log-format")

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	source, err := cli.ResolveSource(dir, arg)
	if err != nil {
		return cli.Options{}, nil, err
	}
	logger, err := cli.CreateLogger(debug, format)
	if err != nil {
		return cli.Options{}, nil, err
	}
	return cli.Options{Source: source, Debug: debug, LogFormat: format}, logger, nil
}
