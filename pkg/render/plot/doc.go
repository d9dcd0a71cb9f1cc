// Package plot renders a positioned dependency graph as an interactive
// Plotly figure embedded in a standalone HTML page.
//
// # Figure
//
// [Build] produces two scatter traces. The edge trace draws every
// dependency as a thin grey segment; the node trace draws one marker per
// package, sized and colored by its on-disk size in kilobytes (bytes/1000)
// on the YlGnBu color scale, with hover text giving the size in megabytes
// (bytes/1024²):
//
//	fig := plot.Build(g, pos, plot.Options{})
//	err := plot.WriteHTMLFile("dependency_graph.html", fig, plot.HTMLOptions{})
//
// The figure is plain Go data with JSON tags matching the Plotly.js schema,
// so it can be inspected or marshaled independently of the HTML wrapper.
//
// # HTML
//
// [WriteHTML] embeds the figure JSON in a page that loads Plotly.js from the
// CDN, or inlines a local copy when [HTMLOptions].PlotlyJS names a file so
// the page works offline.
package plot
