package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/depsize/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success line to w.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error line to w.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printInfo prints a status line to w.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line to w.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Run Summary
// =============================================================================

// renderSummary formats graph statistics, the packages that could not be
// measured and the top largest packages.
func renderSummary(r *pipeline.Result, top int) string {
	var b strings.Builder

	b.WriteString(renderStats(r.Stats) + "\n")

	if n := len(r.Stats.Unmeasured); n > 0 {
		msg := fmt.Sprintf("%d %s could not be measured: %s",
			n, plural(n, "package", "packages"), strings.Join(r.Stats.Unmeasured, ", "))
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg) + "\n")
	}

	if top > 0 && r.Graph.NodeCount() > 0 {
		b.WriteString(renderLargest(r, top) + "\n")
	}
	return b.String()
}

// renderStats prints graph statistics on a single line.
func renderStats(s pipeline.Stats) string {
	parts := []string{
		fmt.Sprintf("%s %s", humanize.Comma(int64(s.NodeCount)), plural(s.NodeCount, "package", "packages")),
		fmt.Sprintf("%s %s", humanize.Comma(int64(s.EdgeCount)), plural(s.EdgeCount, "edge", "edges")),
		humanize.IBytes(uint64(s.TotalSize)),
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleNumber.Render(part)
	}
	return line
}

// renderLargest renders the top largest packages as a table.
func renderLargest(r *pipeline.Result, top int) string {
	nodes := r.Largest(top)
	rows := make([][]string, 0, len(nodes))
	for i, n := range nodes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			n.ID,
			n.Version,
			humanize.IBytes(uint64(n.Size)),
			strconv.Itoa(r.Graph.OutDegree(n.ID)),
			strconv.Itoa(r.Graph.InDegree(n.ID)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Package", "Version", "Size", "Deps", "Used by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader.Padding(0, 1)
			}
			if col == 3 {
				return styleTableCell.Foreground(colorCyan)
			}
			return styleTableCell
		})

	return t.Render()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
