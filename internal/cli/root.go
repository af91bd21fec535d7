/*
PURPOSE:
  Defines the root Cobra command for the busmerge CLI.
  Handles global flags, config loading and logger setup.

REQUIREMENTS:
  User-specified:
  - Running the tool with no arguments performs a merge with default paths.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Commands are built by constructors so tests get a fresh tree each time.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/busmerge/main.go
  - Calls: Child commands (merge, extract, watch, init)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Flag overrides win over env, env wins over config file.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to newRootCmd() and apply them in load().

RELATED FILES:
  - cmd/busmerge/main.go
  - internal/config/config.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"

	"github.com/daryltucker/busmerge/internal/config"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/spf13/cobra"
)

// rootOptions holds values bound to persistent flags.
type rootOptions struct {
	cfgFile   string
	verbose   bool
	logFile   string
	sourceDir string
	outputDir string
	field     string
	jsonl     string
	sqlite    string
	report    string
}

// load builds the effective configuration: file, then env, then flags.
// It also configures the logger, since the log settings live in the config.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source-dir") {
		cfg.SourceDir = o.sourceDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("field") {
		cfg.Field = o.field
	}
	if flags.Changed("jsonl") {
		cfg.JSONLFile = o.jsonl
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = o.sqlite
	}
	if flags.Changed("report") {
		cfg.ReportFile = o.report
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}

	if err := output.Configure(output.LogOptions{
		Level:   cfg.LogLevel,
		Verbose: o.verbose,
		File:    cfg.LogFile,
	}); err != nil {
		return nil, err
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	output.Logger.Debug("Configuration resolved", "source", cfg.SourceDir, "output", cfg.OutputPath(), "field", cfg.Field)
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "busmerge",
		Short: "Merge bus schedule arrays from a directory of JSON files",
		Long: `busmerge scans a directory for *.json files, extracts the top-level
"busSchedules" array from each and writes the concatenation to
<output-dir>/combined_bus_schedules.json.

Without arguments it behaves like 'busmerge merge'.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is ./busmerge.yaml or ./busmerge.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&opts.logFile, "log-file", "", "also write logs to this file (rotated)")
	pf.StringVarP(&opts.sourceDir, "source-dir", "s", "", "directory to scan (default is the executable's directory)")
	pf.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the combined file (default is <source-dir>/json_processed)")
	pf.StringVar(&opts.field, "field", "", "top-level key holding the schedule array (default \"busSchedules\")")
	pf.StringVar(&opts.jsonl, "jsonl", "", "also write records as JSON Lines to this file")
	pf.StringVar(&opts.sqlite, "sqlite", "", "also store the run in this SQLite database")
	pf.StringVar(&opts.report, "report", "", "also write a per-file CSV report to this file")

	root.AddCommand(newMergeCmd(opts))
	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newInitCmd())

	return root
}

// Execute executes the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
