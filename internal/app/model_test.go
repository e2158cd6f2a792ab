package app

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

type stubTab struct {
	keys   key.Binding
	width  int
	height int
}

func newStubTab() *stubTab {
	return &stubTab{keys: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stub action"))}
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(tea.Msg) (Tab, tea.Cmd) { return s, nil }

func (s *stubTab) View() string { return "stub view" }

func (s *stubTab) SetSize(width, height int) { s.width, s.height = width, height }

func (s *stubTab) ShortHelp() []key.Binding { return []key.Binding{s.keys} }

func (s *stubTab) FullHelp() [][]key.Binding { return [][]key.Binding{{s.keys}} }

func readyModel(svc Services) *Model {
	model := NewModel(svc)
	model.ready = true
	model.width = 100
	model.height = 30
	return model
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabDashboard {
		t.Error("Default tab should be Dashboard")
	}
	if len(model.tabs) != 3 {
		t.Errorf("Should have 3 tab slots, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	if NewModel(nil).Init() == nil {
		t.Error("Init returned nil command")
	}

	svc := &fakeServices{records: sampleRecords()}
	model := NewModel(svc)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if svc.ch == nil {
		t.Error("Init should subscribe to service events")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_TabSwitching(t *testing.T) {
	model := readyModel(nil)

	tests := []struct {
		key  tea.KeyMsg
		want TabID
	}{
		{runeKey('2'), TabManufacturers},
		{runeKey('3'), TabInfo},
		{runeKey('1'), TabDashboard},
		{runeKey('2'), TabManufacturers},
		{tea.KeyMsg{Type: tea.KeyTab}, TabInfo},
		{tea.KeyMsg{Type: tea.KeyTab}, TabDashboard},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
	}
	for _, tt := range tests {
		model.Update(tt.key)
		if model.activeTab != tt.want {
			t.Errorf("after %q: ActiveTab = %v, want %v", tt.key.String(), model.activeTab, tt.want)
		}
	}
}

func TestModel_Update_Tick(t *testing.T) {
	_, cmd := NewModel(nil).Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 80
	model.height = 24

	view := model.View()
	for _, want := range []string{"Dashboard", "Manufacturers", "Info", "reload dataset", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}

	tab := newStubTab()
	model.SetTabs([]Tab{tab, nil, nil})
	if tab.width != 80 || tab.height != 24-chromeHeight {
		t.Errorf("tab size = %dx%d", tab.width, tab.height)
	}
	view = model.View()
	for _, want := range []string{"stub view", "stub action"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	model := readyModel(nil)
	model.SetTabs([]Tab{newStubTab(), nil, nil})

	model.Update(runeKey('?'))
	if !model.showHelp {
		t.Error("showHelp should be true")
	}
	view := model.View()
	for _, want := range []string{"Keyboard Shortcuts", "Global", "next tab", "Dashboard", "stub action"} {
		if !strings.Contains(view, want) {
			t.Errorf("help should contain %q", want)
		}
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabDashboard {
		t.Error("tab keys should not switch tabs while help is open")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("Esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := readyModel(nil)
	model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})

	if n := len(model.state.GetNotifications()); n != 1 {
		t.Errorf("Expected 1 notification, got %d", n)
	}
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(TickMsg{Time: time.Now()})
	if n := len(model.state.GetNotifications()); n != 1 {
		t.Errorf("non-expiring notification should stay, got %d", n)
	}

	model.Update(AddNotificationMsg{Message: "Gone", Type: NotificationError, Duration: time.Nanosecond})
	time.Sleep(time.Millisecond)
	model.Update(TickMsg{Time: time.Now()})
	if n := len(model.state.GetNotifications()); n != 1 {
		t.Errorf("expired notification should be cleared by the tick, got %d", n)
	}
}

func TestModel_PayloadLoaded(t *testing.T) {
	model := NewModel(nil)
	model.state.SetLoadingNotification("loading")

	_, cmd := model.Update(PayloadLoadedMsg{
		Payload:   samplePayload(),
		Summary:   &models.DatasetSummary{Rows: 4},
		ImportRun: &models.ImportRun{ID: "run"},
		Forced:    true,
	})

	if model.state.IsInitialLoading() || model.state.AnyLoading() {
		t.Error("loading should be cleared")
	}
	if !model.state.HasData() {
		t.Error("payload should be stored")
	}
	if model.state.ImportRun() == nil {
		t.Error("import run should be stored")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
	if cmd == nil {
		t.Error("forced reload should notify")
	}

	model.Update(PayloadLoadedMsg{Err: errBoom})
	if model.state.PayloadError() == nil {
		t.Error("error should be recorded")
	}
	if !model.state.HasData() {
		t.Error("previous payload should survive an error")
	}
}

func TestModel_Refresh(t *testing.T) {
	svc := &fakeServices{records: sampleRecords()}
	model := readyModel(svc)

	cmd := model.handleKeyMsg(runeKey('r'))
	if cmd == nil {
		t.Fatal("r should return a command")
	}
	refresh, ok := cmd().(RefreshMsg)
	if !ok || !refresh.Force {
		t.Fatalf("expected forced RefreshMsg, got %#v", refresh)
	}

	cmds := model.handleRefresh(refresh)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	model.Update(cmds[0]())
	if !model.state.Loading.Payload {
		t.Error("payload should be loading")
	}
	model.Update(cmds[1]())
	if model.state.Loading.Payload || !model.state.HasData() {
		t.Error("reload should finish with data")
	}

	if len(NewModel(nil).handleRefresh(RefreshMsg{})) != 0 {
		t.Error("refresh without services should do nothing")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)
	payload := samplePayload()

	if cmd := model.handleServiceEvent(services.PayloadUpdatedEvent{Payload: payload}); cmd != nil {
		t.Error("payload update should not notify")
	}
	if model.state.Payload() != payload {
		t.Error("payload should be stored")
	}

	cmd := model.handleServiceEvent(services.DatasetImportedEvent{Run: &models.ImportRun{RecordCount: 7}})
	if add, ok := cmd().(AddNotificationMsg); !ok || !strings.Contains(add.Message, "7") {
		t.Errorf("unexpected import notification %#v", add)
	}

	cmd = model.handleServiceEvent(services.GrowthAlertEvent{Period: "2024-01-01", Growth: 12.5, Threshold: 10})
	add, ok := cmd().(AddNotificationMsg)
	if !ok || add.Type != NotificationWarning || !strings.Contains(add.Message, "+12.50%") || !strings.Contains(add.Message, "2024-01") {
		t.Errorf("unexpected alert notification %#v", add)
	}

	invalid := &metrics.InvalidInputError{Field: "count", Err: metrics.ErrNegativeCount}
	cmd = model.handleServiceEvent(services.ErrorEvent{Service: "metrics", Error: invalid})
	if add, ok := cmd().(AddNotificationMsg); !ok || add.Type != NotificationError {
		t.Errorf("unexpected error notification %#v", add)
	}
	if model.state.PayloadError() == nil {
		t.Error("metrics errors should be recorded")
	}
}

func TestModel_ServiceEventLoop(t *testing.T) {
	model := NewModel(nil)
	ch := make(chan services.ServiceEvent, 1)

	cmds := model.handleSubscriptionEvent(SubscriptionEventMsg{Channel: ch})
	if len(cmds) != 1 || model.eventChannel != ch {
		t.Fatal("subscription should start waiting for events")
	}

	cmds = model.handleServiceEventMsg(ServiceEventMsg{Event: services.PayloadUpdatedEvent{Payload: samplePayload()}})
	if len(cmds) != 1 {
		t.Errorf("expected a re-arm command, got %d", len(cmds))
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	_, cmd := NewModel(nil).Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		tab  TabID
		want string
	}{
		{TabDashboard, "Dashboard"},
		{TabManufacturers, "Manufacturers"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.tab.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
