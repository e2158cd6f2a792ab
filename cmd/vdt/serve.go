package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/vahan-dashboard-tui/internal/api"
	"github.com/j-veylop/vahan-dashboard-tui/internal/config"
	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard payload over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg())
		},
	}
	cmd.Flags().String("addr", "", "listen address (env LISTEN_ADDR, default :8080)")
	return cmd
}

// runServe runs the API until ctx is cancelled, then shuts the server down
// within the configured timeout.
func runServe(ctx context.Context, cfg *config.Config) error {
	mgr, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()
	mgr.SetNotifier(nil)

	// Invalid datasets are reported per request as 500 with details.
	if _, err := mgr.Reload(ctx, false); err != nil {
		logger.Warn("initial computation failed", "error", err)
	}

	server := api.New(mgr, api.Options{CORSOrigins: cfg.CORSOrigins})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(cfg.ListenAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP API")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		logEvents(gctx, mgr)
		return nil
	})

	return g.Wait()
}

// logEvents reports dataset reloads until ctx ends.
func logEvents(ctx context.Context, mgr *services.Manager) {
	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			switch e := event.(type) {
			case services.DatasetImportedEvent:
				if e.Run == nil {
					continue
				}
				logger.Info("dataset imported", "records", e.Run.RecordCount, "source", e.Run.Source)
			case services.PayloadUpdatedEvent:
				logger.Info("payload recomputed", "months", len(e.Payload.VehicleTypeData), "registrations", e.Payload.TotalRegistrations)
			case services.GrowthAlertEvent:
				logger.Warn("growth threshold crossed", "period", e.Period, "yoy", e.Growth, "threshold", e.Threshold)
			case services.ErrorEvent:
				logger.Error("service error", "service", e.Service, "error", e.Error)
			}
		}
	}
}
