package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

// FormatGrowth formats a growth percentage with a direction marker.
// Zero counts as up; nil growth renders as "n/a".
func FormatGrowth(growth *float64) string {
	if growth == nil {
		return "n/a"
	}
	if g := *growth; g < 0 {
		return fmt.Sprintf("▼ %.2f%%", g)
	}
	return fmt.Sprintf("▲ +%.2f%%", *growth)
}

// RenderGrowth formats growth in its up, down or unknown color.
func RenderGrowth(growth *float64) string {
	return styles.GetGrowthStyle(growth).Render(FormatGrowth(growth))
}

// Card is a bordered summary tile.
type Card struct {
	Title string
	Value int64
	Lines []string
}

// Render draws the card at the given outer width.
func (c Card) Render(width int) string {
	body := []string{
		styles.CardTitleStyle.Render(c.Title),
		styles.CardValueStyle.Render(humanize.Comma(c.Value)),
	}
	body = append(body, c.Lines...)

	style := styles.CardStyle
	if width > 0 {
		style = style.Width(max(width-style.GetHorizontalBorderSize(), 10))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// GrowthLine renders a "label: growth" line for cards.
func GrowthLine(label string, growth *float64) string {
	return styles.CardLabelStyle.Render(label+": ") + RenderGrowth(growth)
}

// RenderCards lays cards out side by side, sharing width equally.
func RenderCards(width int, cards ...Card) string {
	if len(cards) == 0 {
		return ""
	}
	each := width / len(cards)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.Render(each - 1)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
