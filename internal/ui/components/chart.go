// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

// ChartSeries is one line of a multi-series chart.
type ChartSeries struct {
	Label  string
	Values []float64
	Color  asciigraph.AnsiColor
}

// VehicleLineColor returns the chart line color of a vehicle type code,
// matching its legend swatch.
func VehicleLineColor(code string) asciigraph.AnsiColor {
	n, err := strconv.ParseUint(string(styles.VehicleColor(code)), 10, 8)
	if err != nil {
		return asciigraph.Default
	}
	return asciigraph.AnsiColor(n)
}

func clampChartSize(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChartSize(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderMultiLineChart plots several series on shared axes with a legend
// underneath. Shorter series are padded with zeros.
func RenderMultiLineChart(series []ChartSeries, width, height int, caption string) string {
	maxLen := 0
	for _, s := range series {
		maxLen = max(maxLen, len(s.Values))
	}
	if maxLen == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChartSize(width, height)

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	legend := make([]LegendItem, len(series))
	for i, s := range series {
		data[i] = make([]float64, maxLen)
		copy(data[i], s.Values)
		colors[i] = s.Color
		legend[i] = LegendItem{Label: s.Label, Color: ansiToLipgloss(s.Color)}
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)

	return graph + "\n\n" + RenderLegend(legend)
}

func ansiToLipgloss(c asciigraph.AnsiColor) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("%d", c))
}

// RenderBarChart creates a horizontal bar chart with thousands-separated
// values.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-14, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, humanize.Comma(int64(v))))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart. When values
// exceed width the most recent ones are kept.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
