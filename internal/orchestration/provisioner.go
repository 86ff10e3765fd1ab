package orchestration

import (
	"context"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/provisioning/access"
	"github.com/imamik/stacktopo/internal/provisioning/compute"
	"github.com/imamik/stacktopo/internal/provisioning/infrastructure"
)

// Provisioner orchestrates one provisioning run.
type Provisioner struct {
	infra  openstack.InfrastructureManager
	config *config.Config

	observer provisioning.Observer
	keys     provisioning.KeyWriter
	timeouts *config.Timeouts
	metrics  *provisioning.StepMetrics

	// Phases
	infraProvisioner   *infrastructure.Provisioner
	computeProvisioner *compute.Provisioner
	accessProvisioner  *access.Provisioner
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithObserver replaces the default log observer.
func WithObserver(o provisioning.Observer) Option {
	return func(p *Provisioner) { p.observer = o }
}

// WithKeyWriter replaces the default private key writer.
func WithKeyWriter(w provisioning.KeyWriter) Option {
	return func(p *Provisioner) { p.keys = w }
}

// WithTimeouts overrides the timeouts loaded from the environment.
func WithTimeouts(t *config.Timeouts) Option {
	return func(p *Provisioner) { p.timeouts = t }
}

// WithStepMetrics records step durations.
func WithStepMetrics(m *provisioning.StepMetrics) Option {
	return func(p *Provisioner) { p.metrics = m }
}

// NewProvisioner creates a provisioner for cfg against infra.
func NewProvisioner(infra openstack.InfrastructureManager, cfg *config.Config, opts ...Option) *Provisioner {
	p := &Provisioner{
		infra:              infra,
		config:             cfg,
		infraProvisioner:   infrastructure.NewProvisioner(),
		computeProvisioner: compute.NewProvisioner(),
		accessProvisioner:  access.NewProvisioner(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phases returns the ordered steps of a run.
func (p *Provisioner) Phases() []provisioning.Phase {
	phases := []provisioning.Phase{provisioning.NewValidationPhase()}
	phases = append(phases, p.infraProvisioner.Phases()...)
	phases = append(phases, p.computeProvisioner)
	phases = append(phases, p.accessProvisioner.Phases()...)
	return phases
}

// Provision runs every step in order and stops at the first failure. The
// returned state is never nil; after a failure it holds everything created
// or reused before the failing call.
func (p *Provisioner) Provision(ctx context.Context) (*provisioning.State, error) {
	pCtx := provisioning.NewContext(ctx, p.config, p.infra)
	if p.observer != nil {
		pCtx.Observer = p.observer
	}
	if p.keys != nil {
		pCtx.Keys = p.keys
	}
	if p.timeouts != nil {
		pCtx.Timeouts = p.timeouts
	}
	pCtx.Observer = pCtx.Observer.WithFields(map[string]string{"run_id": pCtx.State.RunID})

	err := provisioning.NewPipeline(p.Phases()...).WithMetrics(p.metrics).Run(pCtx)
	return pCtx.State, err
}
