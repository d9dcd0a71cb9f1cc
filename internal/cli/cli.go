// Package cli implements the depsize command-line interface.
//
// The root command measures the packages of a Python environment and writes
// dependency_graph.html; serve renders the same page on demand over HTTP.
//
// # Commands
//
//   - depsize: write the dependency graph HTML file
//   - serve: serve the dependency graph page over HTTP
//   - completion: generate shell completion scripts
//
// # Output
//
// Logs, the stage spinner and status lines go to the writer given to [New]
// (stderr in main); the largest-packages summary goes to the command's
// stdout. --verbose (-v) enables debug logs such as per-package sizes and
// stage timings.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsize/pkg/buildinfo"
	"github.com/matzehuels/depsize/pkg/observability"
	"github.com/matzehuels/depsize/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "depsize"

	// defaultTop is the number of rows in the largest-packages table.
	defaultTop = 10
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	status *console // shared by the logger, spinner and status lines
}

// New creates a CLI that logs and reports progress to w. The spinner is
// only drawn when w is a terminal.
func New(w io.Writer, level log.Level) *CLI {
	con := newConsole(w)
	return &CLI{Logger: newLogger(con, level), status: con}
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without arguments, the root command writes the dependency graph of
// the current Python environment.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		flags generateFlags
		top   int
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "depsize maps installed Python packages by size and dependency",
		Long: `depsize inspects the packages installed in a Python environment, measures
each one on disk, reads its declared dependencies and writes an interactive
force-directed graph to dependency_graph.html.

Node size and color grow with the package's size; hover a node to see its
size in megabytes.`,
		Example: `  # Graph the environment of python3 on PATH
  depsize

  # Graph a virtualenv, reproducibly, into a custom file
  depsize --python .venv/bin/python --seed 42 -o venv.html

  # Skip the interpreter and read site directories directly
  depsize --site-dir /usr/lib/python3/dist-packages`,
		Args:         cobra.NoArgs,
		Version:      buildinfo.Read().Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts, top)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().StringVarP(&flags.output, "output", "o", pipeline.DefaultOutput, "output HTML file (overwritten)")
	root.Flags().IntVar(&top, "top", defaultTop, "rows in the largest-packages summary (0 to hide)")
	flags.register(root)

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// runGenerate executes the pipeline and prints a summary of the result.
func (c *CLI) runGenerate(ctx context.Context, w io.Writer, opts pipeline.Options, top int) error {
	opts.Logger = c.Logger
	runner := pipeline.NewRunner(c.Logger)

	start := time.Now()
	spin := startSpinner(ctx, c.status, "Starting...")
	restore := observability.AddPipelineHooks(spin)
	result, err := runner.Execute(ctx, opts)
	restore()

	if err != nil {
		if spin.interrupted() {
			spin.stop()
		} else {
			spin.fail("Dependency graph failed")
		}
		return err
	}
	spin.succeed("Dependency graph written to %s", StyleLink.Render(result.Output))

	c.Logger.Debug("stage timings", spin.timings()...)
	c.Logger.Infof("Mapped %s packages (%s)",
		humanize.Comma(int64(result.Stats.NodeCount)), time.Since(start).Round(time.Millisecond))
	fmt.Fprint(w, renderSummary(result, top))
	return nil
}
