// Package layout computes 2D node positions with a force-directed
// algorithm.
//
// Layout is delegated to Graphviz through [github.com/goccy/go-graphviz],
// which runs in-process (WebAssembly) and needs no system install. The
// package converts a [graph.Graph] to DOT, lets the chosen engine place the
// nodes, reads each node's pos attribute back from the rendered DOT, and
// rescales the result so both axes lie within [-1, 1]:
//
//	pos, err := layout.Compute(ctx, g, layout.Options{Engine: layout.EngineFDP, Seed: 42})
//	p := pos["requests"] // layout.Point{X: 0.31, Y: -0.72}
//
// # Engines
//
//   - fdp: spring model with Fruchterman-Reingold style forces (default)
//   - neato: stress majorization spring model
//   - sfdp: multiscale fdp for large graphs
//
// # Reproducibility
//
// With a non-zero Seed the Graphviz start attribute is set and repeated runs
// over the same graph produce the same positions. With Seed 0 the engine's
// own seeding applies.
package layout
