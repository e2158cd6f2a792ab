// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for loading notifications.
const LoadingNotificationID = "__loading__"

const maxNotifications = 10

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Loading resources.
const (
	ResourceInitial = "initial"
	ResourcePayload = "payload"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Payload bool
}

// State is shared by the root model and every tab.
type State struct {
	mu sync.RWMutex

	payload       *models.DashboardPayload
	payloadErr    error
	summary       *models.DatasetSummary
	importRun     *models.ImportRun
	manufacturers []string
	selection     query.Selection

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns a state in initial loading with the default selection.
func NewState() *State {
	return &State{
		payload:       models.EmptyPayload(),
		manufacturers: make([]string, 0),
		selection:     query.DefaultSelection(),
		notifications: make([]Notification, 0),
		Loading:       LoadingState{Initial: true},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourcePayload:
		s.Loading.Payload = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Payload
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetPayload stores a freshly computed payload and clears any earlier
// computation error. A selected manufacturer that no longer exists is reset.
func (s *State) SetPayload(payload *models.DashboardPayload, summary *models.DatasetSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload == nil {
		payload = models.EmptyPayload()
	}
	s.payload = payload
	s.payloadErr = nil
	if summary != nil {
		s.summary = summary
	}
	s.manufacturers = query.ManufacturerNames(payload)
	if s.selection.Manufacturer != "" && !slices.Contains(s.manufacturers, s.selection.Manufacturer) {
		s.selection.Manufacturer = ""
	}
	s.LastUpdated = time.Now()
}

// SetPayloadError records a failed computation. The previous payload stays
// available.
func (s *State) SetPayloadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloadErr = err
}

// Payload returns the full, unfiltered payload.
func (s *State) Payload() *models.DashboardPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payload
}

// PayloadError returns the last computation error, if it still applies.
func (s *State) PayloadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payloadErr
}

// HasData reports whether the payload holds at least one month.
func (s *State) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.payload.IsEmpty()
}

// Filtered returns the payload narrowed to the current selection.
func (s *State) Filtered() *models.DashboardPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Filter(s.payload, s.selection)
}

// Summary derives the dashboard cards for the current selection.
func (s *State) Summary() query.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Summarize(s.payload, s.selection)
}

// Selection returns the current filter state.
func (s *State) Selection() query.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// CycleRange advances to the next date range.
func (s *State) CycleRange() query.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Range = s.selection.Range.Next()
	return s.selection
}

// CycleSeries advances to the next vehicle series.
func (s *State) CycleSeries() query.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Series = s.selection.Series.Next()
	return s.selection
}

// NextManufacturer cycles through All followed by each manufacturer.
func (s *State) NextManufacturer() query.Selection {
	return s.stepManufacturer(1)
}

// PrevManufacturer cycles backwards.
func (s *State) PrevManufacturer() query.Selection {
	return s.stepManufacturer(-1)
}

func (s *State) stepManufacturer(delta int) query.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Position 0 is All, i+1 is manufacturers[i].
	n := len(s.manufacturers) + 1
	pos := 0
	if i := slices.Index(s.manufacturers, s.selection.Manufacturer); i >= 0 {
		pos = i + 1
	}
	pos = ((pos+delta)%n + n) % n

	if pos == 0 {
		s.selection.Manufacturer = ""
	} else {
		s.selection.Manufacturer = s.manufacturers[pos-1]
	}
	return s.selection
}

// Manufacturers returns a copy of the manufacturer names.
func (s *State) Manufacturers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.manufacturers)
}

// SetImportRun stores the latest import run.
func (s *State) SetImportRun(run *models.ImportRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run != nil {
		s.importRun = run
	}
}

// ImportRun returns the latest import run, or nil.
func (s *State) ImportRun() *models.ImportRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.importRun
}

// DatasetSummary returns the store summary, or nil.
func (s *State) DatasetSummary() *models.DatasetSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.IsExpired()
	})
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// TimeSinceUpdate returns the duration since the last payload update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
