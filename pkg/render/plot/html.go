package plot

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/google/uuid"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
)

// PlotlyCDN is the Plotly.js bundle referenced when no local copy is given.
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// DefaultPageTitle is the HTML document title used when HTMLOptions.PageTitle
// is empty.
const DefaultPageTitle = "Package Dependency Graph"

// HTMLOptions configures the page wrapper around a figure.
type HTMLOptions struct {
	// PlotlyJS is a path to a local plotly.min.js to inline. Empty loads
	// Plotly.js from PlotlyCDN.
	PlotlyJS string

	PageTitle string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.PageTitle}}</title>
<style>html, body { height: 100%; margin: 0; }</style>
{{- if .InlineJS}}
<script type="text/javascript">{{.InlineJS}}</script>
{{- else}}
<script src="{{.CDN}}" charset="utf-8"></script>
{{- end}}
</head>
<body>
<div id="{{.DivID}}" class="plotly-graph-div" style="height:100%; width:100%;"></div>
<script type="text/javascript">
  window.PLOTLYENV = window.PLOTLYENV || {};
  if (document.getElementById({{.DivID}})) {
    var figure = {{.Figure}};
    Plotly.newPlot({{.DivID}}, figure.data, figure.layout, {"responsive": true});
  }
</script>
</body>
</html>
`))

type pageData struct {
	PageTitle string
	CDN       string
	InlineJS  template.JS
	DivID     string
	Figure    template.JS
}

// WriteHTML writes fig to w as a standalone HTML document.
func WriteHTML(w io.Writer, fig Figure, opts HTMLOptions) error {
	figJSON, err := fig.JSON()
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}

	data := pageData{
		PageTitle: opts.PageTitle,
		CDN:       PlotlyCDN,
		DivID:     uuid.NewString(),
		Figure:    template.JS(figJSON),
	}
	if data.PageTitle == "" {
		data.PageTitle = DefaultPageTitle
	}
	if opts.PlotlyJS != "" {
		js, err := os.ReadFile(opts.PlotlyJS)
		if err != nil {
			return deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "read plotly.js %s", opts.PlotlyJS)
		}
		data.InlineJS = template.JS(js)
	}

	return pageTemplate.Execute(w, data)
}

// RenderHTML returns the HTML document for fig.
func RenderHTML(fig Figure, opts HTMLOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, fig, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTMLFile renders fig and writes it to path, replacing any existing
// file. Nothing is written if rendering fails.
func WriteHTMLFile(path string, fig Figure, opts HTMLOptions) error {
	page, err := RenderHTML(fig, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
