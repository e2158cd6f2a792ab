package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	loadTimeout = 30 * time.Second
)

// Services is the part of services.Manager the dashboard uses.
type Services interface {
	Reload(ctx context.Context, force bool) (*models.DashboardPayload, error)
	Summary() *models.DatasetSummary
	LatestImportRun(ctx context.Context) (*models.ImportRun, error)
	Subscribe() (chan services.ServiceEvent, tea.Cmd)
}

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadPayloadCmd imports the dataset if needed and recomputes the payload.
func loadPayloadCmd(svc Services, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		payload, err := svc.Reload(ctx, force)
		msg := PayloadLoadedMsg{Payload: payload, Err: err, Forced: force, Summary: svc.Summary()}

		run, runErr := svc.LatestImportRun(ctx)
		if runErr != nil {
			logger.Warn("failed to load import run", "error", runErr)
		}
		msg.ImportRun = run
		return msg
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(svc Services) tea.Cmd {
	ch, _ := svc.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, LongNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// SelectionChanged returns a command announcing the state's current
// selection. Tabs call it after cycling a filter.
func SelectionChanged(s *State) tea.Cmd {
	sel := s.Selection()
	return func() tea.Msg {
		return SelectionChangedMsg{Selection: sel}
	}
}
