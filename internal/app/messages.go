package app

import (
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// PayloadLoadedMsg carries the result of a load or reload.
type PayloadLoadedMsg struct {
	Payload   *models.DashboardPayload
	Summary   *models.DatasetSummary
	ImportRun *models.ImportRun
	Err       error
	// Forced is set for user initiated reloads.
	Forced bool
}

// RefreshMsg requests a reload of the dataset.
type RefreshMsg struct {
	Force bool
}

// SelectionChangedMsg is sent by tabs after they change the shared
// selection.
type SelectionChangedMsg struct {
	Selection query.Selection
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
