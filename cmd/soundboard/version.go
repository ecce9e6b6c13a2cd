package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/soundboard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of soundboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "soundboard version %s\n", strings.TrimSpace(soundboard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
