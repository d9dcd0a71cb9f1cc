package layout

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/graph"
)

// Engine names a Graphviz force-directed layout engine.
type Engine string

// Supported engines.
const (
	EngineFDP   Engine = "fdp"
	EngineNeato Engine = "neato"
	EngineSFDP  Engine = "sfdp"
)

// DefaultEngine is used when Options.Engine is empty.
const DefaultEngine = EngineFDP

var engines = map[Engine]graphviz.Layout{
	EngineFDP:   graphviz.FDP,
	EngineNeato: graphviz.NEATO,
	EngineSFDP:  graphviz.SFDP,
}

// ParseEngine validates an engine name. The empty string selects
// DefaultEngine.
func ParseEngine(s string) (Engine, error) {
	if s == "" {
		return DefaultEngine, nil
	}
	e := Engine(strings.ToLower(s))
	if _, ok := engines[e]; !ok {
		return "", deperrors.New(deperrors.ErrCodeInvalidInput, "invalid layout engine: %s (must be 'fdp', 'neato', or 'sfdp')", s)
	}
	return e, nil
}

// Point is a position in layout space.
type Point struct {
	X, Y float64
}

// Positions maps node IDs to their positions.
type Positions map[string]Point

// Options configures layout computation.
type Options struct {
	Engine Engine // layout engine; DefaultEngine when empty
	Seed   int64  // Graphviz start seed; 0 leaves seeding to the engine
}

// Compute places every node of g and returns positions rescaled into
// [-1, 1]. An empty graph yields empty positions without running Graphviz.
func Compute(ctx context.Context, g *graph.Graph, opts Options) (Positions, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return Positions{}, nil
	}

	engine, err := ParseEngine(string(opts.Engine))
	if err != nil {
		return nil, err
	}

	rendered, err := render(ctx, ToDOT(g, opts), engines[engine])
	if err != nil {
		return nil, err
	}

	raw, err := parsePositions(rendered)
	if err != nil {
		return nil, err
	}

	pos := make(Positions, len(ids))
	for i, id := range ids {
		p, ok := raw[dotID(i)]
		if !ok {
			return nil, deperrors.New(deperrors.ErrCodeInternal, "layout: no position for %q", id)
		}
		pos[id] = p
	}
	return Rescale(pos), nil
}

// ToDOT converts g to Graphviz DOT. Nodes are named n0, n1, ... by
// insertion order so package names never need quoting; the package name is
// kept as the tooltip.
func ToDOT(g *graph.Graph, opts Options) string {
	index := make(map[string]int, g.NodeCount())

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Seed != 0 {
		fmt.Fprintf(&buf, "  start=%d;\n", opts.Seed)
	}
	buf.WriteString("  node [shape=point, width=0.05];\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes() {
		index[n.ID] = i
		fmt.Fprintf(&buf, "  %s [tooltip=%q];\n", dotID(i), n.ID)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotID(index[e.From]), dotID(index[e.To]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(i int) string { return "n" + strconv.Itoa(i) }

// render runs engine over dot and returns the positioned DOT output.
func render(ctx context.Context, dot string, engine graphviz.Layout) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(engine)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout %s: %w", engine, err)
	}
	return buf.Bytes(), nil
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`\bpos="([^"]+)"`)
)

// parsePositions extracts node positions from Graphviz DOT output.
// Edge statements start with "nX ->" and are skipped by the pattern.
func parsePositions(dot []byte) (map[string]Point, error) {
	out := make(map[string]Point)
	for _, m := range nodeStmtRe.FindAllSubmatch(dot, -1) {
		attr := posAttrRe.FindSubmatch(m[2])
		if attr == nil {
			continue
		}
		p, err := parsePoint(string(attr[1]))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", m[1], err)
		}
		out[string(m[1])] = p
	}
	return out, nil
}

func parsePoint(s string) (Point, error) {
	s = strings.TrimSuffix(s, "!")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("malformed pos %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("malformed pos %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("malformed pos %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

// Rescale centers positions on their mean and divides by the largest
// absolute coordinate, so every coordinate lies in [-1, 1]. A single
// position, or coincident positions, end up at the origin.
func Rescale(pos Positions) Positions {
	if len(pos) == 0 {
		return pos
	}

	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pos))
	cx, cy = cx/n, cy/n

	var limit float64
	for _, p := range pos {
		limit = math.Max(limit, math.Max(math.Abs(p.X-cx), math.Abs(p.Y-cy)))
	}

	out := make(Positions, len(pos))
	for id, p := range pos {
		q := Point{X: p.X - cx, Y: p.Y - cy}
		if limit > 0 {
			q.X /= limit
			q.Y /= limit
		}
		out[id] = q
	}
	return out
}
