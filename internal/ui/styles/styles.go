// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the dashboard theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Vehicle type colors
	twoWheeler   = lipgloss.Color("39")  // Blue
	threeWheeler = lipgloss.Color("208") // Orange
	fourWheeler  = lipgloss.Color("42")  // Green

	// Status colors
	successColor = lipgloss.Color("42")  // Green
	errorColor   = lipgloss.Color("196") // Red
	warningColor = lipgloss.Color("220") // Yellow
	infoColor    = lipgloss.Color("39")  // Blue

	// Background colors
	bgDark  = lipgloss.Color("235")
	bgLight = lipgloss.Color("237")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// TabBarStyle underlines the tab bar.
var TabBarStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// ActiveTabStyle styles the currently selected tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(Primary).
	Padding(0, 2).
	MarginRight(1)

// InactiveTabStyle styles non-selected tabs.
var InactiveTabStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(bgLight).
	Padding(0, 2).
	MarginRight(1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

var notificationBase = lipgloss.NewStyle().
	Padding(0, 2).
	MarginBottom(1).
	Border(lipgloss.RoundedBorder())

// NotificationSuccessStyle for success notifications.
var NotificationSuccessStyle = notificationBase.
	BorderForeground(successColor).
	Foreground(successColor)

// NotificationErrorStyle for error notifications.
var NotificationErrorStyle = notificationBase.
	BorderForeground(errorColor).
	Foreground(errorColor)

// NotificationWarningStyle for warning notifications.
var NotificationWarningStyle = notificationBase.
	BorderForeground(warningColor).
	Foreground(warningColor)

// NotificationInfoStyle for info notifications.
var NotificationInfoStyle = notificationBase.
	BorderForeground(infoColor).
	Foreground(infoColor)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpSeparatorStyle styles separators in help text.
var HelpSeparatorStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(bgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// Growth styles, picked by GetGrowthStyle.
var growthUpStyle = lipgloss.NewStyle().
	Foreground(successColor).
	Bold(true)

var growthDownStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var growthFlatStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

var growthUnknownStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	Italic(true)

// CardValueStyle renders the headline number of a card.
var CardValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// CardLabelStyle renders the caption under a card value.
var CardLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(errorColor)

// GetGrowthStyle returns the style for a growth percentage. Nil means no
// comparable period.
func GetGrowthStyle(growth *float64) lipgloss.Style {
	switch {
	case growth == nil:
		return growthUnknownStyle
	case *growth > 0:
		return growthUpStyle
	case *growth < 0:
		return growthDownStyle
	default:
		return growthFlatStyle
	}
}

// VehicleColor returns the chart color of a vehicle type code.
func VehicleColor(code string) lipgloss.Color {
	switch code {
	case "2W":
		return twoWheeler
	case "3W":
		return threeWheeler
	case "4W":
		return fourWheeler
	default:
		return Primary
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
