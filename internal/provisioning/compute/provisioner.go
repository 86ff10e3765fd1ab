package compute

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/util/async"
	"github.com/imamik/stacktopo/internal/util/labels"
)

const phase = provisioning.StepInstances

// Provisioner handles instance provisioning.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface. It returns only
// once every instance is ACTIVE or one of them has failed.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	tasks := make([]async.Task, 0, len(config.Roles()))
	for _, role := range config.Roles() {
		tasks = append(tasks, async.Task{
			Name: ctx.Config.Topology.Network(role).Instance,
			Func: func(taskCtx context.Context) error {
				return p.provisionInstance(ctx, taskCtx, role)
			},
		})
	}

	ctx.Observer.Printf("[%s] Booting %d instances (parallelism %d)...", phase, len(tasks), ctx.Config.Provisioning.Parallelism)
	return async.RunBounded(ctx, tasks, ctx.Config.Provisioning.Parallelism)
}

// provisionInstance runs the create-and-wait chain for one role. A created
// instance is recorded before the wait so a readiness failure still leaves
// it in State.
func (p *Provisioner) provisionInstance(ctx *provisioning.Context, taskCtx context.Context, role config.Role) error {
	spec := ctx.Config.Topology.Network(role)
	network := ctx.State.Network(role)
	if network == nil {
		return provisioning.Fail(phase, openstack.KindServer, spec.Instance,
			fmt.Errorf("network %q has not been provisioned", spec.Name))
	}

	image, err := ctx.Infra.FindImage(taskCtx, ctx.Config.Topology.Image)
	if err != nil {
		return provisioning.Fail(phase, openstack.KindImage, ctx.Config.Topology.Image, err)
	}
	flavor, err := ctx.Infra.FindFlavor(taskCtx, ctx.Config.Topology.Flavor)
	if err != nil {
		return provisioning.Fail(phase, openstack.KindFlavor, ctx.Config.Topology.Flavor, err)
	}

	metadata := labels.NewBuilder().
		WithRunID(ctx.State.RunID).
		WithNetwork(spec.Name).
		Build()

	provisioning.LogResourceCreating(ctx.Observer, phase, string(openstack.KindServer), spec.Instance)
	server, err := ctx.Infra.CreateServer(taskCtx, openstack.ServerCreateOpts{
		Name:      spec.Instance,
		ImageID:   image.ID,
		FlavorID:  flavor.ID,
		NetworkID: network.ID,
		Metadata:  metadata,
	})
	if err != nil {
		return provisioning.Fail(phase, openstack.KindServer, spec.Instance,
			fmt.Errorf("failed to create server: %w", err))
	}
	// Compute answers a boot request with little more than the id.
	if server.Name == "" {
		server.Name = spec.Instance
	}
	ctx.State.SetServer(role, server)
	ctx.State.Track(provisioning.Record{
		Step:   phase,
		Kind:   openstack.KindServer,
		Name:   spec.Instance,
		ID:     server.ID,
		Action: provisioning.ActionCreated,
	})
	provisioning.LogResourceCreated(ctx.Observer, phase, string(openstack.KindServer), spec.Instance, server.ID)

	// The client bounds its own polling; this cap only covers clients that
	// do not, leaving them one extra poll interval.
	waitCtx := taskCtx
	if t := ctx.Timeouts; t != nil && t.ServerActive > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(taskCtx, t.ServerActive+t.PollMaxInterval)
		defer cancel()
	}

	ready, err := ctx.Infra.WaitForServer(waitCtx, server.ID)
	ctx.State.SetServer(role, merge(server, ready))
	if err != nil {
		return provisioning.Fail(phase, openstack.KindServer, spec.Instance,
			fmt.Errorf("server %s not ready: %w", server.ID, err))
	}
	ctx.Observer.Printf("[%s] Server %s is %s", phase, spec.Instance, ready.Status)
	return nil
}

// merge overlays the polled view on the create response. The create
// response of some deployments omits fields such as metadata.
func merge(created, polled *openstack.Server) *openstack.Server {
	if polled == nil {
		return created
	}
	out := *polled
	if out.ID == "" {
		out.ID = created.ID
	}
	if out.Name == "" {
		out.Name = created.Name
	}
	if out.Metadata == nil {
		out.Metadata = created.Metadata
	}
	return &out
}
