// Package pkg provides the libraries behind depsize, a tool that maps the
// packages installed in a Python environment by size and dependency.
//
// # Overview
//
// The data flow through depsize:
//
//	Python interpreter (sys.path)
//	         ↓
//	    [pyenv] (discover site directories, index distributions)
//	         ↓
//	    [inventory] (measure package directories, read dependencies)
//	         ↓
//	    [graph] (directed graph of measured packages)
//	         ↓
//	    [layout] (force-directed positions via Graphviz)
//	         ↓
//	    [render/plot] (Plotly figure in a standalone HTML page)
//
// [pipeline] runs these stages end to end, and [observability] lets callers
// watch them. [errors] defines the coded errors shared by every package.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SiteDirs: []string{"/usr/lib/python3/dist-packages"},
//	    Seed:     42,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d packages, %d edges\n", result.Stats.NodeCount, result.Stats.EdgeCount)
//
// [pyenv]: github.com/matzehuels/depsize/pkg/pyenv
// [inventory]: github.com/matzehuels/depsize/pkg/inventory
// [graph]: github.com/matzehuels/depsize/pkg/graph
// [layout]: github.com/matzehuels/depsize/pkg/layout
// [render/plot]: github.com/matzehuels/depsize/pkg/render/plot
// [pipeline]: github.com/matzehuels/depsize/pkg/pipeline
// [observability]: github.com/matzehuels/depsize/pkg/observability
// [errors]: github.com/matzehuels/depsize/pkg/errors
package pkg
