package plot

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/depsize/pkg/graph"
	"github.com/matzehuels/depsize/pkg/layout"
)

func testGraph(t *testing.T) (*graph.Graph, layout.Positions) {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "requests", Size: 500},
		{ID: "idna", Size: 2_097_152},
		{ID: "urllib3", Size: 1_000_000},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []graph.Edge{{From: "requests", To: "idna"}, {From: "requests", To: "urllib3"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	pos := layout.Positions{
		"requests": {X: 0, Y: 0},
		"idna":     {X: 1, Y: -0.5},
		"urllib3":  {X: -1, Y: 0.5},
	}
	return g, pos
}

func TestBuildNodeTrace(t *testing.T) {
	g, pos := testGraph(t)
	fig := Build(g, pos, Options{})

	if len(fig.Data) != 2 {
		t.Fatalf("got %d traces, want 2", len(fig.Data))
	}
	nodes := fig.Data[1]

	if nodes.Mode != "markers" || nodes.HoverInfo != "text" {
		t.Errorf("node trace mode=%q hoverinfo=%q", nodes.Mode, nodes.HoverInfo)
	}
	wantSizes := []float64{0.5, 2097.152, 1000}
	if !slices.Equal(nodes.Marker.Size, wantSizes) {
		t.Errorf("marker sizes = %v, want %v", nodes.Marker.Size, wantSizes)
	}
	if !slices.Equal(nodes.Marker.Color, wantSizes) {
		t.Errorf("marker colors = %v, want %v", nodes.Marker.Color, wantSizes)
	}
	wantText := []string{"requests (0.00 MB)", "idna (2.00 MB)", "urllib3 (0.95 MB)"}
	if !slices.Equal(nodes.Text, wantText) {
		t.Errorf("text = %v, want %v", nodes.Text, wantText)
	}
	if !slices.Equal([]float64(nodes.X), []float64{0, 1, -1}) {
		t.Errorf("x = %v", nodes.X)
	}
	if nodes.Marker.ColorScale != "YlGnBu" || !nodes.Marker.ShowScale {
		t.Errorf("marker scale = %q show=%v", nodes.Marker.ColorScale, nodes.Marker.ShowScale)
	}
	cb := nodes.Marker.ColorBar
	if cb.Thickness != 15 || cb.XAnchor != "left" || cb.Title.Text != "Package Size (KB)" || cb.Title.Side != "right" {
		t.Errorf("colorbar = %+v", cb)
	}
	if nodes.Marker.Line.Width != 2 {
		t.Errorf("marker line width = %v, want 2", nodes.Marker.Line.Width)
	}
}

func TestBuildEdgeTrace(t *testing.T) {
	g, pos := testGraph(t)
	edges := Build(g, pos, Options{}).Data[0]

	if edges.Mode != "lines" || edges.HoverInfo != "none" {
		t.Errorf("edge trace mode=%q hoverinfo=%q", edges.Mode, edges.HoverInfo)
	}
	if edges.Line == nil || edges.Line.Width != 0.5 || edges.Line.Color != "#888" {
		t.Errorf("edge line = %+v", edges.Line)
	}
	if len(edges.X) != 6 || len(edges.Y) != 6 {
		t.Fatalf("edge coords len = %d/%d, want 6", len(edges.X), len(edges.Y))
	}
	if edges.X[0] != 0 || edges.X[1] != 1 || !math.IsNaN(edges.X[2]) {
		t.Errorf("first edge x = %v", edges.X[:3])
	}
	if edges.Y[3] != 0 || edges.Y[4] != 0.5 || !math.IsNaN(edges.Y[5]) {
		t.Errorf("second edge y = %v", edges.Y[3:])
	}
}

func TestBuildLayout(t *testing.T) {
	g, pos := testGraph(t)

	fig := Build(g, pos, Options{})
	l := fig.Layout
	if l.Title.Text != "<br>Package Dependency Graph" || l.Title.Font == nil || l.Title.Font.Size != 16 {
		t.Errorf("title = %+v", l.Title)
	}
	if l.ShowLegend || l.HoverMode != "closest" {
		t.Errorf("showlegend=%v hovermode=%q", l.ShowLegend, l.HoverMode)
	}
	if l.Margin != (Margin{B: 0, L: 0, R: 0, T: 40}) {
		t.Errorf("margin = %+v", l.Margin)
	}
	want := Annotation{Text: "Package Dependencies", XRef: "paper", YRef: "paper", X: 0.005, Y: -0.002}
	if len(l.Annotations) != 1 || l.Annotations[0] != want {
		t.Errorf("annotations = %+v", l.Annotations)
	}
	if l.XAxis != (Axis{}) || l.YAxis != (Axis{}) {
		t.Errorf("axes should hide grid, zero line and ticks: %+v %+v", l.XAxis, l.YAxis)
	}

	custom := Build(g, pos, Options{Title: "site-packages"})
	if custom.Layout.Title.Text != "site-packages" {
		t.Errorf("custom title = %q", custom.Layout.Title.Text)
	}
}

func TestBuildEmpty(t *testing.T) {
	fig := Build(graph.New(), layout.Positions{}, Options{})
	data, err := fig.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(data), `"x":[]`) {
		t.Errorf("empty figure should have empty coordinate lists: %s", data)
	}
}

func TestFigureJSON(t *testing.T) {
	g, pos := testGraph(t)
	data, err := Build(g, pos, Options{}).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	s := string(data)
	for _, want := range []string{
		`"x":[0,1,null,0,-1,null]`,
		`"showlegend":false`,
		`"hovermode":"closest"`,
		`"colorscale":"YlGnBu"`,
		`"showarrow":false`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s", want)
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("figure JSON is invalid: %v", err)
	}
}

func TestSeriesMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Series
		want string
	}{
		{"nil", nil, "[]"},
		{"values", Series{1, -0.25, 3e-7}, "[1,-0.25,3e-07]"},
		{"gaps", Series{1, math.NaN(), math.Inf(1)}, "[1,null,null]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHoverText(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"numpy", 26_351_206, "numpy (25.13 MB)"},
		{"six", 0, "six (0.00 MB)"},
		{"pip", 1024 * 1024, "pip (1.00 MB)"},
	}
	for _, tt := range tests {
		if got := HoverText(tt.name, tt.size); got != tt.want {
			t.Errorf("HoverText(%q, %d) = %q, want %q", tt.name, tt.size, got, tt.want)
		}
	}
}
