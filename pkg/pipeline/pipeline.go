// Package pipeline provides the end-to-end dependency graph pipeline.
//
// The pipeline turns a Python environment into an HTML visualization in six
// stages:
//
//  1. Discover: ask the interpreter for its sys.path (skipped when site
//     directories are given explicitly)
//  2. Open: index the installed distributions in those directories
//  3. Collect: measure each package on disk and read its declared dependencies
//  4. Build: construct the dependency graph from measured packages
//  5. Layout: place nodes with a force-directed engine
//  6. Render: build the Plotly figure and write the HTML page
//
// Per-package failures are logged and never abort a run; discovery, layout
// and output failures are fatal.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output) // dependency_graph.html
//
// [Runner.Generate] runs the same stages but keeps the page in memory.
package pipeline

import (
	"cmp"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/graph"
	"github.com/matzehuels/depsize/pkg/inventory"
	"github.com/matzehuels/depsize/pkg/layout"
	"github.com/matzehuels/depsize/pkg/pyenv"
	"github.com/matzehuels/depsize/pkg/render/plot"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the HTML file written in the working directory.
	DefaultOutput = "dependency_graph.html"

	// DefaultEngine is the force-directed layout engine.
	DefaultEngine = string(layout.DefaultEngine)

	// DefaultPython is the interpreter queried for site directories.
	DefaultPython = pyenv.DefaultPython
)

// Stage names reported to logs and observability hooks.
const (
	StageDiscover = "discover"
	StageOpen     = "open"
	StageCollect  = "collect"
	StageBuild    = "build"
	StageLayout   = "layout"
	StageRender   = "render"
	StageWrite    = "write"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. The toml tags
// match the keys of the optional configuration file.
type Options struct {
	// Environment options
	Python   string   `toml:"python"`
	SiteDirs []string `toml:"site_dirs"` // skips interpreter discovery when set

	// Layout options
	Engine string `toml:"engine"`
	Seed   int64  `toml:"seed"`

	// Render options
	Output   string `toml:"output"`
	Title    string `toml:"title"`
	PlotlyJS string `toml:"plotly_js"` // local plotly.min.js to inline

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Python == "" {
		o.Python = DefaultPython
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Title == "" {
		o.Title = plot.DefaultTitle
	}
	engine, err := layout.ParseEngine(o.Engine)
	if err != nil {
		return err
	}
	o.Engine = string(engine)
	if o.Seed < 0 {
		return deperrors.New(deperrors.ErrCodeInvalidInput, "seed must be non-negative, got %d", o.Seed)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions returns the layout configuration for these options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Engine: layout.Engine(o.Engine), Seed: o.Seed}
}

// HTMLOptions returns the page configuration for these options.
func (o *Options) HTMLOptions() plot.HTMLOptions {
	return plot.HTMLOptions{PlotlyJS: o.PlotlyJS}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Inventory holds every package seen, measured or not.
	Inventory *inventory.Inventory

	// Graph is the dependency graph of measured packages.
	Graph *graph.Graph

	// Positions are the rescaled node positions.
	Positions layout.Positions

	// Figure is the Plotly figure drawn into the page.
	Figure plot.Figure

	// Output is the path written by Execute; empty for Generate.
	Output string

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SiteDirs   int
	Packages   int
	NodeCount  int
	EdgeCount  int
	TotalSize  int64
	Unmeasured []string // packages left out of the graph because sizing failed

	DiscoverTime time.Duration
	CollectTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// Largest returns up to n graph nodes ordered by size, largest first.
func (r *Result) Largest(n int) []*graph.Node {
	nodes := r.Graph.Nodes()
	slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
		return cmp.Compare(b.Size, a.Size)
	})
	if n >= 0 && n < len(nodes) {
		nodes = nodes[:n]
	}
	return nodes
}
