package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsize/pkg/graph"
	"github.com/matzehuels/depsize/pkg/inventory"
	"github.com/matzehuels/depsize/pkg/layout"
	"github.com/matzehuels/depsize/pkg/observability"
	"github.com/matzehuels/depsize/pkg/pyenv"
	"github.com/matzehuels/depsize/pkg/render/plot"
)

// Runner executes the pipeline stages and reports their progress.
//
// The Runner holds no per-run state; one Runner may serve several runs,
// including concurrent ones from the preview server.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs every stage and writes the HTML page to opts.Output,
// replacing any existing file.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderTime, err := r.stage(ctx, StageWrite, func() (int, error) {
		return 1, plot.WriteHTMLFile(opts.Output, result.Figure, opts.HTMLOptions())
	})
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Output = opts.Output
	result.Stats.RenderTime += renderTime

	r.Logger.Info("wrote visualization", "path", opts.Output, "duration", renderTime)
	return result, nil
}

// Generate runs every stage and returns the HTML page instead of writing it.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, []byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Build(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	var page []byte
	renderTime, err := r.stage(ctx, StageRender, func() (int, error) {
		var err error
		page, err = plot.RenderHTML(result.Figure, opts.HTMLOptions())
		return len(page), err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime += renderTime
	return result, page, nil
}

// Build runs the stages up to and including figure construction.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Discover
	dirs := opts.SiteDirs
	if len(dirs) == 0 {
		d, err := r.stage(ctx, StageDiscover, func() (int, error) {
			var err error
			dirs, err = pyenv.Discover(ctx, opts.Python)
			return len(dirs), err
		})
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		result.Stats.DiscoverTime = d
		r.Logger.Debug("discovered site directories", "python", opts.Python, "dirs", dirs, "duration", d)
	}
	result.Stats.SiteDirs = len(dirs)

	// Stage 2: Open
	var env *pyenv.Environment
	d, err := r.stage(ctx, StageOpen, func() (int, error) {
		var err error
		env, err = pyenv.Open(dirs, opts.Logger)
		if err != nil {
			return 0, err
		}
		return env.Len(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("open environment: %w", err)
	}
	result.Stats.DiscoverTime += d

	// Stage 3: Collect
	var inv *inventory.Inventory
	d, err = r.stage(ctx, StageCollect, func() (int, error) {
		var err error
		inv, err = inventory.NewCollector(env, opts.Logger).Collect(ctx)
		if err != nil {
			return 0, err
		}
		return inv.Len(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	result.Inventory = inv
	result.Stats.CollectTime = d
	result.Stats.Packages = inv.Len()
	for _, p := range inv.Packages() {
		if !p.Measured() {
			result.Stats.Unmeasured = append(result.Stats.Unmeasured, p.Name)
		}
	}

	r.Logger.Info("collected packages",
		"packages", inv.Len(),
		"unmeasured", len(result.Stats.Unmeasured),
		"duration", d)

	// Stage 4: Build
	var g *graph.Graph
	_, err = r.stage(ctx, StageBuild, func() (int, error) {
		g = graph.Build(inv)
		return g.NodeCount(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.TotalSize = g.TotalSize()
	r.Logger.Debug("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"roots", len(g.Sources()),
		"leaves", len(g.Sinks()),
		"cyclic", g.HasCycle())

	// Stage 5: Layout
	var pos layout.Positions
	d, err = r.stage(ctx, StageLayout, func() (int, error) {
		var err error
		pos, err = layout.Compute(ctx, g, opts.LayoutOptions())
		return len(pos), err
	})
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = pos
	result.Stats.LayoutTime = d

	r.Logger.Info("computed layout",
		"engine", opts.Engine,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", d)

	// Stage 6: Figure
	start := time.Now()
	result.Figure = plot.Build(g, pos, plot.Options{Title: opts.Title})
	result.Stats.RenderTime = time.Since(start)

	return result, nil
}

// stage runs fn between the observability start and complete events.
// fn reports how many items it produced. A cancelled context takes
// precedence over fn's own error.
func (r *Runner) stage(ctx context.Context, name string, fn func() (int, error)) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)

	start := time.Now()
	count, err := fn()
	elapsed := time.Since(start)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	hooks.OnStageComplete(ctx, name, count, elapsed, err)
	return elapsed, err
}

// applyLogger gives opts the runner's logger when it has none of its own.
func (r *Runner) applyLogger(opts *Options) {
	if r.Logger != nil && opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
