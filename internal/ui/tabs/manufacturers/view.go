package manufacturers

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

const (
	maxBars     = 10
	chartHeight = 10
	trendWidth  = 12
)

// View renders the manufacturers tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderMessage(styles.HelpStyle.Render("Loading registrations..."))
	}
	if !m.state.HasData() {
		return m.renderEmpty()
	}

	sel := m.state.Selection()
	filtered := m.state.Filtered()
	sum := m.state.Summary()

	sections := []string{m.renderHeader(sel)}
	if sel.Manufacturer == "" {
		sections = append(sections, m.renderOverview(filtered, sum)...)
	} else {
		sections = append(sections, m.renderSingle(filtered, sum, sel)...)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderMessage(content string) string {
	return styles.DocStyle.Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Manufacturers"),
		"",
		styles.HelpStyle.Render("No manufacturer data available yet."),
		styles.HelpStyle.Render("Data will appear once a dataset is imported."),
	)
	return m.renderMessage(content)
}

func (m *Model) contentWidth() int {
	return max(m.viewport.Width-2, 40)
}

func (m *Model) renderHeader(sel query.Selection) string {
	names := m.state.Manufacturers()
	position := "all"
	if i := slices.Index(names, sel.Manufacturer); i >= 0 {
		position = fmt.Sprintf("%d/%d", i+1, len(names))
	}

	title := styles.TitleStyle.Render("Manufacturer: " + sel.ManufacturerLabel())
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s  •  %s  •  m/M to switch", sel.Range, position))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderOverview(filtered *models.DashboardPayload, sum query.Summary) []string {
	totals := query.ManufacturerTotals(filtered.ManufacturerData)

	cards := components.RenderCards(m.contentWidth(),
		components.Card{
			Title: "Top Registrations",
			Value: sum.TopRegistrations,
			Lines: []string{styles.CardLabelStyle.Render(fmt.Sprintf("%d manufacturers", len(totals)))},
		},
	)

	bars := totals[:min(len(totals), maxBars)]
	values := make([]float64, len(bars))
	labels := make([]string, len(bars))
	for i, t := range bars {
		values[i] = float64(t.Registrations)
		labels[i] = t.Name
	}
	chart := lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.Render("Registrations in Range"),
		components.RenderBarChart(values, labels, m.contentWidth()),
	)

	byMaker := groupByManufacturer(filtered.ManufacturerData)
	table := components.Table{
		Headers:    []string{"Manufacturer", "In Range", "Latest", "YoY", "QoQ", "Trend"},
		Widths:     []int{20, 12, 10, 11, 11, trendWidth},
		RightAlign: []bool{false, true, true, true, true, false},
	}
	for _, t := range totals {
		rows := byMaker[t.Name]
		last := rows[len(rows)-1]
		table.Rows = append(table.Rows, []string{
			t.Name,
			humanize.Comma(t.Registrations),
			humanize.Comma(last.Registrations),
			components.RenderGrowth(last.YoYGrowth),
			components.RenderGrowth(last.QoQGrowth),
			components.RenderSparkline(query.ManufacturerValues(rows), trendWidth),
		})
	}

	return []string{
		cards,
		chart,
		"",
		styles.SubTitleStyle.Render("Manufacturers"),
		table.Render(),
	}
}

func (m *Model) renderSingle(filtered *models.DashboardPayload, sum query.Summary, sel query.Selection) []string {
	rows := filtered.ManufacturerData
	if len(rows) == 0 {
		return []string{styles.HelpStyle.Render("No registrations for " + sel.Manufacturer + " in this range.")}
	}

	var window int64
	for _, row := range rows {
		window += row.Registrations
	}
	last := rows[len(rows)-1]

	cards := components.RenderCards(m.contentWidth(),
		components.Card{
			Title: "Top Registrations · " + monthLabel(last.Date),
			Value: sum.TopRegistrations,
			Lines: []string{
				components.GrowthLine("YoY", sum.ManufacturerYoY),
				components.GrowthLine("QoQ", sum.ManufacturerQoQ),
			},
		},
		components.Card{
			Title: "In Range",
			Value: window,
			Lines: []string{styles.CardLabelStyle.Render(fmt.Sprintf("%d months with registrations", len(rows)))},
		},
	)

	chart := lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.Render("Monthly Registrations"),
		components.RenderLineChart(query.ManufacturerValues(rows), m.contentWidth()-12, chartHeight, sel.Manufacturer+" per month"),
	)

	table := components.Table{
		Headers:    []string{"Month", "Registrations", "YoY", "QoQ"},
		Widths:     []int{8, 14, 11, 11},
		RightAlign: []bool{false, true, true, true},
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		table.Rows = append(table.Rows, []string{
			monthLabel(row.Date),
			humanize.Comma(row.Registrations),
			components.RenderGrowth(row.YoYGrowth),
			components.RenderGrowth(row.QoQGrowth),
		})
	}

	return []string{cards, chart, "", styles.SubTitleStyle.Render("By Month"), table.Render()}
}

// groupByManufacturer splits rows per manufacturer, keeping month order.
func groupByManufacturer(rows []models.ManufacturerAggregate) map[string][]models.ManufacturerAggregate {
	out := make(map[string][]models.ManufacturerAggregate)
	for _, row := range rows {
		out[row.Manufacturer] = append(out[row.Manufacturer], row)
	}
	return out
}

func monthLabel(date string) string {
	p, err := models.ParsePeriod(date)
	if err != nil {
		return date
	}
	return p.String()
}
