package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/vahan-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDatasetCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, dataset and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.viewport.Width-2, 50), 90)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if cfg := m.config; cfg != nil {
		alert := "off"
		if cfg.GrowthAlertThreshold > 0 {
			alert = fmt.Sprintf("±%.1f%% YoY", cfg.GrowthAlertThreshold)
		}
		synthetic := "off"
		if cfg.SyntheticYears > 0 {
			synthetic = fmt.Sprintf("%d years (seed %d)", cfg.SyntheticYears, cfg.SyntheticSeed)
		}

		rows = append(rows,
			m.renderConfigRow("Dataset", cfg.DatasetPath),
			m.renderConfigRow("Database", cfg.DatabasePath),
			m.renderConfigRow("Config Dir", cfg.ConfigDir),
			m.renderConfigRow("Synthetic Data", synthetic),
			m.renderConfigRow("Growth Alert", alert),
			m.renderConfigRow("Reload Debounce", cfg.ReloadDebounce.String()),
			m.renderConfigRow("API Address", cfg.ListenAddr),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDatasetCard() string {
	rows := []string{styles.CardTitleStyle.Render("Dataset")}

	summary := m.state.DatasetSummary()
	if summary == nil || !summary.HasData() {
		rows = append(rows, styles.HelpStyle.Render("No registrations stored"))
	} else {
		rows = append(rows,
			m.renderConfigRow("Rows", humanize.Comma(int64(summary.Rows))),
			m.renderConfigRow("Registrations", humanize.Comma(summary.Registrations)),
			m.renderConfigRow("Period", fmt.Sprintf("%s to %s", summary.FirstDate, summary.LastDate)),
			m.renderConfigRow("Months", strconv.Itoa(summary.Months)),
			m.renderConfigRow("Manufacturers", strconv.Itoa(summary.Manufacturers)),
		)
	}

	if run := m.state.ImportRun(); run != nil {
		checksum := run.Checksum
		if len(checksum) > 12 {
			checksum = checksum[:12]
		}
		rows = append(rows, "",
			m.renderConfigRow("Last Import", humanize.Time(run.ImportedAt)),
			m.renderConfigRow("Source", run.Source),
			m.renderConfigRow("Checksum", checksum),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
