package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/j-veylop/vahan-dashboard-tui/internal/config"
	"github.com/j-veylop/vahan-dashboard-tui/internal/dataset"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/query"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

func newExportCmd(cfg func() *config.Config) *cobra.Command {
	var (
		pretty bool
		input  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compute the dashboard payload and print it as JSON",
		Long: `Compute the dashboard payload and print it to stdout as JSON.

With --input the records are read from that file directly; otherwise the
configured dataset is imported into the database first. Any failure is
reported on stderr with exit status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := computePayload(cmd.Context(), cfg(), input)
			if err != nil {
				return err
			}
			return writePayload(cmd.OutOrStdout(), payload, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().StringVar(&input, "input", "", "compute from this .csv or .json file instead of the database")
	return cmd
}

func computePayload(ctx context.Context, cfg *config.Config, input string) (*models.DashboardPayload, error) {
	if input != "" {
		records, err := dataset.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return query.New(query.Records(records)).Payload(ctx)
	}

	mgr, err := services.NewStaticManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = mgr.Close() }()
	mgr.SetNotifier(nil)

	return mgr.Reload(ctx, false)
}

func writePayload(w io.Writer, payload *models.DashboardPayload, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return nil
}
