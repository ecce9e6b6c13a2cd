package main

import (
	"github.com/aretw0/soundboard/internal/cli"
	"github.com/aretw0/soundboard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Recompile the soundboard on every save",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := commonOptions(cmd, args)
		if err != nil {
			return err
		}
		opts.Out, _ = cmd.Flags().GetString("out")

		if isTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Watch(ctx, opts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("out", "o", "", "Output path (default: source with .cfg extension)")
}
