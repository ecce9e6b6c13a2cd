package main

import (
	"fmt"

	"github.com/aretw0/soundboard"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the soundboard and list every problem",
	Long: `Loads the soundboard and reports every structural problem at once:
reserved digits, bad values, messages that do not wrap to their declared
line count and aliases that overflow the console's command length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := commonOptions(cmd, args)
		if err != nil {
			return err
		}
		sb, err := file.Load(opts.Source)
		if err != nil {
			return err
		}
		c, err := soundboard.New(soundboard.WithLogger(logger))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report, err := c.Validate(cmd.Context(), sb)
		if err != nil {
			problems := domain.Problems(err)
			for _, p := range problems {
				fmt.Fprintf(out, "  - %v\n", p)
			}
			return fmt.Errorf("validation failed with %d problem(s)", len(problems))
		}
		fmt.Fprintf(out, "Soundboard is valid! ✅ %d menus, %d messages, depth %d, %d bytes.\n",
			report.Branches, report.Leaves, report.Depth, report.Stats.Bytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
