package dashboard

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

const chartHeight = 10

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	sel := m.state.Selection()
	sections := []string{m.renderTitle(sel)}

	if err := m.state.PayloadError(); err != nil {
		sections = append(sections, m.renderError(err), "")
	}

	if !m.state.HasData() {
		sections = append(sections, m.renderEmpty())
	} else {
		filtered := m.state.Filtered()
		sections = append(sections,
			m.renderCards(m.state.Summary(), sel),
			m.renderSeriesChart(filtered, sel),
			"",
			m.renderMixChart(filtered),
			"",
			m.renderTable(filtered),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) contentWidth() int {
	return max(m.viewport.Width-2, 40)
}

func (m *Model) renderTitle(sel query.Selection) string {
	title := styles.TitleStyle.Render("Vehicle Registrations")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s  •  %s", sel.Range, sel.Series))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderError(err error) string {
	return styles.ErrorTextStyle.Render("✗ Failed to compute metrics: " + err.Error())
}

func (m *Model) renderEmpty() string {
	rows := []string{
		styles.CardTitleStyle.Render("No registrations loaded"),
		styles.HelpStyle.Render("Point --dataset at a CSV export or press r to reload."),
	}
	return styles.CardStyle.Width(m.contentWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCards(sum query.Summary, sel query.Selection) string {
	total := components.Card{
		Title: "Total Registrations",
		Value: sum.TotalRegistrations,
		Lines: []string{
			components.GrowthLine("YoY", sum.TotalYoYGrowth),
			components.GrowthLine("QoQ", sum.TotalQoQGrowth),
		},
	}

	latest := components.Card{Title: sel.Series.String(), Lines: []string{styles.HelpStyle.Render("no months in range")}}
	if sum.Latest != nil {
		payload := m.state.Payload()
		latest.Title = fmt.Sprintf("%s · %s", sel.Series, monthLabel(sum.Latest.Date))
		latest.Value = sum.SeriesLatest
		latest.Lines = []string{
			components.GrowthLine("YoY", query.SeriesGrowth(payload, sel.Series, sum.Latest.Date, metrics.YearOffset)),
			components.GrowthLine("QoQ", query.SeriesGrowth(payload, sel.Series, sum.Latest.Date, metrics.QuarterOffset)),
		}
	}

	window := components.Card{
		Title: fmt.Sprintf("%s in Range", sel.Series),
		Value: sum.SeriesWindow,
		Lines: []string{styles.CardLabelStyle.Render(fmt.Sprintf("%d months", sum.Months))},
	}

	return components.RenderCards(m.contentWidth(), total, latest, window)
}

func (m *Model) renderSeriesChart(filtered *models.DashboardPayload, sel query.Selection) string {
	header := styles.SubTitleStyle.Render("Monthly Registrations")
	values := query.SeriesValues(filtered.VehicleTypeData, sel.Series)
	caption := fmt.Sprintf("%s per month", sel.Series)
	chart := components.RenderLineChart(values, m.contentWidth()-12, chartHeight, caption)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart)
}

func (m *Model) renderMixChart(filtered *models.DashboardPayload) string {
	header := styles.SubTitleStyle.Render("Vehicle Mix")

	series := make([]components.ChartSeries, 0, len(models.AllVehicleTypes()))
	for _, vt := range models.AllVehicleTypes() {
		values := make([]float64, len(filtered.VehicleTypeData))
		for j, row := range filtered.VehicleTypeData {
			values[j] = float64(row.Count(vt))
		}
		series = append(series, components.ChartSeries{
			Label:  vt.String(),
			Values: values,
			Color:  components.VehicleLineColor(vt.String()),
		})
	}

	chart := components.RenderMultiLineChart(series, m.contentWidth()-12, chartHeight, "registrations by vehicle type")
	return lipgloss.JoinVertical(lipgloss.Left, header, chart)
}

func (m *Model) renderTable(filtered *models.DashboardPayload) string {
	header := styles.SubTitleStyle.Render("By Month")

	rows := slices.Clone(filtered.VehicleTypeData)
	slices.Reverse(rows)

	table := components.Table{
		Headers:    []string{"Month", "2W", "3W", "4W", "Total", "YoY", "QoQ"},
		Widths:     []int{8, 10, 10, 10, 11, 11, 11},
		RightAlign: []bool{false, true, true, true, true, true, true},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			monthLabel(row.Date),
			humanize.Comma(row.TwoWheeler),
			humanize.Comma(row.ThreeWheeler),
			humanize.Comma(row.FourWheeler),
			humanize.Comma(row.Total),
			components.RenderGrowth(row.YoYGrowth),
			components.RenderGrowth(row.QoQGrowth),
		})
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, table.Render())
}

func monthLabel(date string) string {
	p, err := models.ParsePeriod(date)
	if err != nil {
		return date
	}
	return p.String()
}
