/*
PURPOSE:
  Defines the 'merge' subcommand (also the root command's default action).
  Executes one full scan-extract-write pass.

REQUIREMENTS:
  User-specified:
  - Merge all *.json files of the source directory into one array.
  - Print where the combined data was saved.

  Implementation-discovered:
  - Load config first, then apply flag overrides.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Merge()
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if config load fails or the merge aborts.
  - Skipped source files are not errors; they show up in the summary.

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override -> engine.Merge -> Summary.

USAGE:
  busmerge merge -s ./dataset -o ./dataset/json_processed

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"fmt"

	"github.com/daryltucker/busmerge/internal/engine"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/spf13/cobra"
)

func newMergeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge schedule arrays into the combined file",
		Long: `Scans the source directory (non-recursively) for files ending in .json,
extracts the "busSchedules" array from each and writes the concatenation,
in file-name order, to the combined output file.

Missing or malformed files are skipped with a warning. A missing source
directory aborts the run.`,
		Example: `  # Merge the files next to the binary
  busmerge

  # Merge a specific dataset into a custom output directory
  busmerge merge -s ./dataset_default -o ./out

  # Keep a history of runs in SQLite and a per-file report
  busmerge merge --sqlite runs.db --report report.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, opts)
		},
	}
}

func runMerge(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}

	res, err := engine.Merge(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderSummary(res))
	return nil
}
