package main

import (
	"github.com/aretw0/soundboard/internal/cli"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a soundboard into a .cfg program",
	Long: `Compiles the soundboard and writes the program next to it with a .cfg
extension, or to --out. Nothing is written if compilation fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := commonOptions(cmd, args)
		if err != nil {
			return err
		}
		opts.Out, _ = cmd.Flags().GetString("out")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Compile(ctx, opts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("out", "o", "", "Output path (default: source with .cfg extension)")
	compileCmd.Flags().BoolP("quiet", "q", false, "Do not print a summary")
}
