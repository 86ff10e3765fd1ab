package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/export"
	"github.com/imamik/stacktopo/internal/orchestration"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/ui/tui"
	"github.com/imamik/stacktopo/internal/util/logging"
)

// CreateOptions configures a create run.
type CreateOptions struct {
	Load LoadOptions
	// TUI shows the dashboard when stdout is a terminal.
	TUI bool
}

// provisionRunner matches orchestration.Provisioner.
type provisionRunner interface {
	Provision(ctx context.Context) (*provisioning.State, error)
}

// Factory function variables for create.
var (
	// newProvisioner creates the run orchestrator.
	newProvisioner = func(infra openstack.InfrastructureManager, cfg *config.Config, opts ...orchestration.Option) provisionRunner {
		return orchestration.NewProvisioner(infra, cfg, opts...)
	}

	// runProvisionTUI runs the provisioning under the dashboard.
	runProvisionTUI = tui.RunProvisionTUI

	// writeMetricsFile dumps the registry in the node-exporter textfile format.
	writeMetricsFile = prometheus.WriteToTextfile
)

// Create provisions the three-network topology.
//
// The run authenticates once, then executes every step in order and stops
// at the first failure. Nothing is rolled back: on failure the summary and
// the trace file list every resource created so far.
//
// Outputs:
//  1. The export document (output.export_file), after a successful run
//  2. The run trace (output.trace_file), whenever a run started
//  3. Request and step metrics (output.metrics_file)
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, err := loadValidConfig(ctx, opts.Load)
	if err != nil {
		return err
	}
	log := logging.FromContext(ctx)

	reg := prometheus.NewRegistry()
	clientMetrics, err := openstack.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	stepMetrics, err := provisioning.NewStepMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	timeouts := loadTimeouts()

	run := func(ctx context.Context, observer provisioning.Observer) (*provisioning.State, error) {
		infra, err := connect(ctx, cfg, orchestration.ConnectOptions{Timeouts: timeouts, Metrics: clientMetrics})
		if err != nil {
			return nil, err
		}
		return newProvisioner(infra, cfg,
			orchestration.WithObserver(observer),
			orchestration.WithTimeouts(timeouts),
			orchestration.WithStepMetrics(stepMetrics),
		).Provision(ctx)
	}

	log.Info("Provisioning topology", "control_plane", cfg.ControlPlane.BaseURL(), "parallelism", cfg.Provisioning.Parallelism)

	var state *provisioning.State
	var runErr error
	if opts.TUI && isInteractiveTTY() {
		state, runErr = runProvisionTUI(ctx, run, nil, cfg.ControlPlane.BaseURL(), stepNames(cfg))
	} else {
		state, runErr = run(ctx, provisioning.NewLogObserver(log.WithName("provisioning")))
	}

	outErr := writeRunOutputs(cfg, state, runErr, reg)
	fmt.Fprint(stdout, renderCreateSummary(cfg, state, runErr))

	if runErr != nil {
		if outErr != nil {
			log.Error(outErr, "Failed to write run outputs")
		}
		return fmt.Errorf("provisioning failed: %w", runErr)
	}
	return outErr
}

// writeRunOutputs writes every configured output file. All files are
// attempted; the errors are joined.
func writeRunOutputs(cfg *config.Config, state *provisioning.State, runErr error, reg prometheus.Gatherer) error {
	var errs []error

	if state != nil && runErr == nil && cfg.Output.ExportFile != "" {
		if err := export.Write(cfg.Output.ExportFile, export.FromState(state)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write export: %w", err))
		}
	}
	if state != nil && cfg.Output.TraceFile != "" {
		if err := export.Write(cfg.Output.TraceFile, export.NewTrace(state, runErr)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write trace: %w", err))
		}
	}
	if cfg.Output.MetricsFile != "" {
		if err := writeMetricsFile(cfg.Output.MetricsFile, reg); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}

// stepNames lists the steps of a run for cfg without connecting.
func stepNames(cfg *config.Config) []string {
	phases := orchestration.NewProvisioner(nil, cfg).Phases()
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name()
	}
	return names
}
