package plot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/depsize/pkg/graph"
	"github.com/matzehuels/depsize/pkg/layout"
)

// DefaultTitle is the figure title used when Options.Title is empty.
const DefaultTitle = "<br>Package Dependency Graph"

const (
	annotationText = "Package Dependencies"
	colorBarTitle  = "Package Size (KB)"
	colorScale     = "YlGnBu"
	edgeColor      = "#888"
	edgeWidth      = 0.5
	titleFontSize  = 16

	kilobyte = 1000
	megabyte = 1024 * 1024
)

// Options configures figure construction.
type Options struct {
	Title string // figure title; DefaultTitle when empty
}

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a Plotly scatter trace.
type Trace struct {
	Type      string   `json:"type"`
	Mode      string   `json:"mode"`
	X         Series   `json:"x"`
	Y         Series   `json:"y"`
	HoverInfo string   `json:"hoverinfo"`
	Text      []string `json:"text,omitempty"`
	Line      *Line    `json:"line,omitempty"`
	Marker    *Marker  `json:"marker,omitempty"`
}

// Series is a coordinate list. NaN entries marshal as null, which Plotly
// treats as a gap between line segments.
type Series []float64

// MarshalJSON implements json.Marshaler.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	buf := make([]byte, 0, 2+len(s)*8)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

type Line struct {
	Width float64 `json:"width"`
	Color string  `json:"color,omitempty"`
}

type Marker struct {
	ShowScale    bool      `json:"showscale"`
	ColorScale   string    `json:"colorscale"`
	ReverseScale bool      `json:"reversescale"`
	Color        []float64 `json:"color"`
	Size         []float64 `json:"size"`
	ColorBar     ColorBar  `json:"colorbar"`
	Line         Line      `json:"line"`
}

type ColorBar struct {
	Thickness int    `json:"thickness"`
	Title     Title  `json:"title"`
	XAnchor   string `json:"xanchor"`
}

// Title is a Plotly title object. Side is only meaningful on color bars.
type Title struct {
	Text string `json:"text"`
	Side string `json:"side,omitempty"`
	Font *Font  `json:"font,omitempty"`
}

type Font struct {
	Size int `json:"size"`
}

// Layout is the Plotly figure layout.
type Layout struct {
	Title       Title        `json:"title"`
	ShowLegend  bool         `json:"showlegend"`
	HoverMode   string       `json:"hovermode"`
	Margin      Margin       `json:"margin"`
	Annotations []Annotation `json:"annotations"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
}

type Margin struct {
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
}

type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type Axis struct {
	ShowGrid       bool `json:"showgrid"`
	ZeroLine       bool `json:"zeroline"`
	ShowTickLabels bool `json:"showticklabels"`
}

// Build assembles the figure for g using node positions pos. Nodes appear
// in graph insertion order; a node missing from pos is drawn at the origin.
func Build(g *graph.Graph, pos layout.Positions, opts Options) Figure {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	return Figure{
		Data:   []Trace{edgeTrace(g, pos), nodeTrace(g, pos)},
		Layout: figureLayout(title),
	}
}

func edgeTrace(g *graph.Graph, pos layout.Positions) Trace {
	edges := g.Edges()
	x := make(Series, 0, 3*len(edges))
	y := make(Series, 0, 3*len(edges))
	gap := math.NaN()
	for _, e := range edges {
		p0, p1 := pos[e.From], pos[e.To]
		x = append(x, p0.X, p1.X, gap)
		y = append(y, p0.Y, p1.Y, gap)
	}
	return Trace{
		Type:      "scatter",
		Mode:      "lines",
		X:         x,
		Y:         y,
		HoverInfo: "none",
		Line:      &Line{Width: edgeWidth, Color: edgeColor},
	}
}

func nodeTrace(g *graph.Graph, pos layout.Positions) Trace {
	nodes := g.Nodes()
	x := make(Series, 0, len(nodes))
	y := make(Series, 0, len(nodes))
	sizes := make([]float64, 0, len(nodes))
	text := make([]string, 0, len(nodes))
	for _, n := range nodes {
		p := pos[n.ID]
		x = append(x, p.X)
		y = append(y, p.Y)
		sizes = append(sizes, float64(n.Size)/kilobyte)
		text = append(text, HoverText(n.ID, n.Size))
	}
	return Trace{
		Type:      "scatter",
		Mode:      "markers",
		X:         x,
		Y:         y,
		HoverInfo: "text",
		Text:      text,
		Marker: &Marker{
			ShowScale:  true,
			ColorScale: colorScale,
			Color:      sizes,
			Size:       sizes,
			ColorBar: ColorBar{
				Thickness: 15,
				Title:     Title{Text: colorBarTitle, Side: "right"},
				XAnchor:   "left",
			},
			Line: Line{Width: 2},
		},
	}
}

func figureLayout(title string) Layout {
	return Layout{
		Title:      Title{Text: title, Font: &Font{Size: titleFontSize}},
		ShowLegend: false,
		HoverMode:  "closest",
		Margin:     Margin{B: 0, L: 0, R: 0, T: 40},
		Annotations: []Annotation{{
			Text:      annotationText,
			ShowArrow: false,
			XRef:      "paper",
			YRef:      "paper",
			X:         0.005,
			Y:         -0.002,
		}},
	}
}

// HoverText formats the node label shown on hover, e.g. "numpy (25.13 MB)".
func HoverText(name string, size int64) string {
	return fmt.Sprintf("%s (%.2f MB)", name, float64(size)/megabyte)
}

// JSON returns the figure encoded for Plotly.js.
func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}
