/*
PURPOSE:
  Defines the 'extract' subcommand.
  Prints the schedule array of a single file; useful to debug one input.

REQUIREMENTS:
  Implementation-discovered:
  - Same extraction rules as merge, without touching the output directory.

ARCHITECTURE INTEGRATION:
  - Calls: internal/schedule.Extract()

ERROR HANDLING:
  - Returns the extractor's diagnostic as the command error.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  busmerge extract ./dataset/line7.json

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/schedule/extract.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/daryltucker/busmerge/internal/config"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/daryltucker/busmerge/internal/schedule"
	"github.com/spf13/cobra"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the schedule array of a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			field := cfg.Field
			if cmd.Flags().Changed("field") {
				field = opts.field
			}

			records, err := schedule.Extract(args[0], field)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := output.EncodeCombined(out, records); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
