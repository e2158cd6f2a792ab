// Package services provides service orchestration for the dashboard and API.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/vahan-dashboard-tui/internal/config"
	"github.com/j-veylop/vahan-dashboard-tui/internal/db"
	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services/ingest"
)

type (
	// DatasetImportedEvent is emitted when a new dataset version is stored.
	DatasetImportedEvent struct {
		Run *models.ImportRun
	}

	// PayloadUpdatedEvent is emitted when the dashboard payload is recomputed.
	PayloadUpdatedEvent struct {
		Payload *models.DashboardPayload
		Summary *models.DatasetSummary
	}

	// GrowthAlertEvent is emitted when the latest total YoY growth crosses
	// the configured threshold.
	GrowthAlertEvent struct {
		Period    string
		Growth    float64
		Threshold float64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetImportedEvent) isServiceEvent() {}
func (PayloadUpdatedEvent) isServiceEvent()  {}
func (GrowthAlertEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()           {}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	cfg      *config.Config
	database *db.DB
	ingest   *ingest.Service
	facade   *query.Facade

	mu          sync.RWMutex
	payload     *models.DashboardPayload
	payloadErr  error
	summary     *models.DatasetSummary
	alerted     map[string]bool
	notify      Notifier
	subscribers []chan<- ServiceEvent

	eventChan chan ServiceEvent
	stopChan  chan struct{}
	closeOnce sync.Once
}

// NewManager opens the store, prepares the dataset and starts watching it.
// The payload is computed by the first Reload.
func NewManager(cfg *config.Config) (*Manager, error) {
	return newManager(cfg, true)
}

// NewStaticManager is NewManager without file watching.
func NewStaticManager(cfg *config.Config) (*Manager, error) {
	return newManager(cfg, false)
}

func newManager(cfg *config.Config, watch bool) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		alerted:   make(map[string]bool),
		notify:    beeepNotify,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.ingest, err = ingest.New(m.database, ingest.Options{
		DatasetPath:    cfg.DatasetPath,
		SyntheticYears: cfg.SyntheticYears,
		SyntheticSeed:  cfg.SyntheticSeed,
		Debounce:       cfg.ReloadDebounce,
		Watch:          watch,
	})
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to initialize ingest: %w", err)
	}

	m.facade = query.New(m.database)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the ingest service to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.ingest.Events():
			m.handleIngestEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleIngestEvent(event ingest.Event) {
	switch event.Type {
	case ingest.EventImported:
		m.broadcast(DatasetImportedEvent{Run: event.Run})
		_, _ = m.Recompute(context.Background())

	case ingest.EventUnchanged:
		logger.Debug("dataset unchanged, skipping import", "path", m.ingest.DatasetPath())

	case ingest.EventGenerated:
		logger.Debug("synthetic dataset generated", "path", m.ingest.DatasetPath())

	case ingest.EventError:
		m.broadcast(ErrorEvent{Service: "ingest", Error: event.Error})
	}
}

// Reload imports the dataset when it changed (always when force is set)
// and recomputes the payload. A missing dataset is treated as empty.
func (m *Manager) Reload(ctx context.Context, force bool) (*models.DashboardPayload, error) {
	result, err := m.ingest.Import(ctx, force)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("dataset not found", "path", m.ingest.DatasetPath())
	case err != nil:
		m.broadcast(ErrorEvent{Service: "ingest", Error: err})
		return nil, err
	case !result.Unchanged:
		m.broadcast(DatasetImportedEvent{Run: result.Run})
	}

	return m.Recompute(ctx)
}

// Recompute runs the metrics engine over the stored dataset and caches the
// result for the session.
func (m *Manager) Recompute(ctx context.Context) (*models.DashboardPayload, error) {
	payload, err := m.facade.Payload(ctx)

	summary, sumErr := m.database.Summary(ctx)
	if sumErr != nil {
		logger.Warn("failed to summarize dataset", "error", sumErr)
	}

	m.mu.Lock()
	m.payloadErr = err
	if err == nil {
		m.payload = payload
	}
	if summary != nil {
		m.summary = summary
	}
	m.mu.Unlock()

	if err != nil {
		logger.Error("failed to compute metrics", "error", err)
		m.broadcast(ErrorEvent{Service: "metrics", Error: err})
		return nil, err
	}

	m.broadcast(PayloadUpdatedEvent{Payload: payload, Summary: summary})
	m.checkGrowthAlert(payload)
	return payload, nil
}

// Payload returns the cached payload, computing it on first use. The last
// computation error is returned while it persists.
func (m *Manager) Payload(ctx context.Context) (*models.DashboardPayload, error) {
	m.mu.RLock()
	payload, err := m.payload, m.payloadErr
	m.mu.RUnlock()

	if err != nil {
		return nil, err
	}
	if payload != nil {
		return payload, nil
	}
	return m.Recompute(ctx)
}

// checkGrowthAlert notifies once per period when the latest total YoY
// growth reaches the threshold in either direction.
func (m *Manager) checkGrowthAlert(payload *models.DashboardPayload) {
	threshold := m.cfg.GrowthAlertThreshold
	latest := payload.Latest()
	if threshold <= 0 || latest == nil || latest.YoYGrowth == nil {
		return
	}

	growth := *latest.YoYGrowth
	if math.Abs(growth) < threshold {
		return
	}

	m.mu.Lock()
	if m.alerted[latest.Date] {
		m.mu.Unlock()
		return
	}
	m.alerted[latest.Date] = true
	notify := m.notify
	m.mu.Unlock()

	m.broadcast(GrowthAlertEvent{Period: latest.Date, Growth: growth, Threshold: threshold})

	direction := "up"
	if growth < 0 {
		direction = "down"
	}
	title := fmt.Sprintf("Registrations %s %.1f%% YoY", direction, math.Abs(growth))
	body := fmt.Sprintf("Total registrations for %s moved %.2f%% against last year.", latest.Date[:7], growth)
	if notify != nil {
		if err := notify(title, body); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
}

// SetNotifier replaces the desktop notifier. Nil disables notifications.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Summary returns the last dataset summary.
func (m *Manager) Summary() *models.DatasetSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary
}

// LatestImportRun returns the newest import, preferring the one made by this
// session over the stored history.
func (m *Manager) LatestImportRun(ctx context.Context) (*models.ImportRun, error) {
	if run := m.ingest.LastRun(); run != nil {
		return run, nil
	}
	return m.database.LatestImportRun(ctx)
}

// Records lists stored registrations.
func (m *Manager) Records(ctx context.Context, filter models.RecordFilter) ([]models.RegistrationRecord, error) {
	return m.database.ListRegistrations(ctx, filter)
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.ingest != nil {
			if err := m.ingest.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
