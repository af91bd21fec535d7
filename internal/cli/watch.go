/*
PURPOSE:
  Defines the 'watch' subcommand.
  Keeps the combined file up to date while source files change.

REQUIREMENTS:
  Implementation-discovered:
  - Dataset folders get refreshed by other tools; re-running merge by hand is tedious.
  - Must stop cleanly on Ctrl-C / SIGTERM.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Watch()

ERROR HANDLING:
  - Setup errors (missing source directory) are returned.
  - Merge errors inside the loop are logged by the engine.

IMPLEMENTATION RULES:
  - Signal handling lives here, not in the engine.

USAGE:
  busmerge watch -s ./dataset

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/watch.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daryltucker/busmerge/internal/engine"
	"github.com/daryltucker/busmerge/internal/model"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var debounce string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the merge whenever source files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				d, err := parseDebounce(debounce)
				if err != nil {
					return err
				}
				cfg.WatchDebounce = d
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return engine.Watch(ctx, cfg, func(res *model.Result, err error) {
				if err == nil {
					fmt.Fprint(out, output.RenderSummary(res))
				}
			})
		},
	}

	cmd.Flags().StringVar(&debounce, "debounce", "", "quiet period before re-merging (e.g. 500ms, 2s)")
	return cmd
}

func parseDebounce(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --debounce %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--debounce must be positive, got %s", d)
	}
	return d, nil
}
