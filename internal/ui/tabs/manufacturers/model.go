// Package manufacturers provides the per-manufacturer registrations tab.
package manufacturers

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vahan-dashboard-tui/internal/app"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the manufacturers tab.
type keyMap struct {
	NextManufacturer key.Binding
	PrevManufacturer key.Binding
	ToggleRange      key.Binding
	Up               key.Binding
	Down             key.Binding
}

// defaultKeyMap returns the default key bindings for the manufacturers tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextManufacturer: key.NewBinding(
			key.WithKeys("m", "n"),
			key.WithHelp("m", "next manufacturer"),
		),
		PrevManufacturer: key.NewBinding(
			key.WithKeys("M", "p"),
			key.WithHelp("M", "prev manufacturer"),
		),
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the manufacturers tab state.
type Model struct {
	state    *app.State
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new manufacturers model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the manufacturers tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the manufacturers tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.SelectionChangedMsg:
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextManufacturer):
			m.state.NextManufacturer()
			return m, app.SelectionChanged(m.state)
		case key.Matches(msg, m.keys.PrevManufacturer):
			m.state.PrevManufacturer()
			return m, app.SelectionChanged(m.state)
		case key.Matches(msg, m.keys.ToggleRange):
			m.state.CycleRange()
			return m, app.SelectionChanged(m.state)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-styles.DocStyle.GetHorizontalFrameSize(), 0)
	m.viewport.Height = max(height-styles.DocStyle.GetVerticalFrameSize(), 0)
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextManufacturer, m.keys.PrevManufacturer, m.keys.ToggleRange}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextManufacturer, m.keys.PrevManufacturer},
		{m.keys.ToggleRange},
		{m.keys.Up, m.keys.Down},
	}
}
