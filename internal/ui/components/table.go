package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

// Table is a fixed-width text table. Cells may carry ANSI styling.
type Table struct {
	Headers []string
	Widths  []int
	// RightAlign marks numeric columns.
	RightAlign []bool
	Rows       [][]string
}

// Render draws the header and rows. Cells wider than their column are
// truncated with an ellipsis.
func (t Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, styles.TableHeaderStyle.Render(t.renderRow(t.Headers)))
	for _, row := range t.Rows {
		lines = append(lines, t.renderRow(row))
	}
	return strings.Join(lines, "\n")
}

func (t Table) renderRow(cells []string) string {
	parts := make([]string, len(t.Headers))
	for i := range t.Headers {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = t.pad(i, cell)
	}
	return strings.Join(parts, " ")
}

func (t Table) pad(col int, cell string) string {
	width := lipgloss.Width(t.Headers[col])
	if col < len(t.Widths) && t.Widths[col] > 0 {
		width = t.Widths[col]
	}

	if lipgloss.Width(cell) > width {
		cell = ansi.Truncate(cell, width, "…")
	}
	gap := strings.Repeat(" ", max(width-lipgloss.Width(cell), 0))

	if col < len(t.RightAlign) && t.RightAlign[col] {
		return gap + cell
	}
	return cell + gap
}
