package infrastructure

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/util/async"
)

// ProvisionNetworks reuses or creates the three networks. With parallelism
// above one the lookups run concurrently; each network's identifier is in
// State before the step returns.
func (p *Provisioner) ProvisionNetworks(ctx *provisioning.Context) error {
	tasks := make([]async.Task, 0, len(config.Roles()))
	for _, role := range config.Roles() {
		tasks = append(tasks, async.Task{
			Name: string(role),
			Func: func(taskCtx context.Context) error {
				return ensureNetwork(ctx, taskCtx, role)
			},
		})
	}
	return async.RunBounded(ctx, tasks, ctx.Config.Provisioning.Parallelism)
}

func ensureNetwork(ctx *provisioning.Context, taskCtx context.Context, role config.Role) error {
	name := ctx.Config.Topology.Network(role).Name

	network, reused, err := ctx.Infra.EnsureNetwork(taskCtx, name)
	if err != nil {
		return provisioning.Fail(provisioning.StepNetworks, openstack.KindNetwork, name,
			fmt.Errorf("failed to ensure network: %w", err))
	}

	ctx.State.SetNetwork(role, network)
	record(ctx, provisioning.StepNetworks, openstack.KindNetwork, name, network.ID, reused)
	return nil
}

// record adds the ledger entry and event for a create-or-reuse outcome.
func record(ctx *provisioning.Context, step string, kind openstack.Kind, name, id string, reused bool) {
	action := provisioning.ActionCreated
	if reused {
		action = provisioning.ActionReused
		provisioning.LogResourceExists(ctx.Observer, step, string(kind), name, id)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, step, string(kind), name, id)
	}
	ctx.State.Track(provisioning.Record{Step: step, Kind: kind, Name: name, ID: id, Action: action})
}
