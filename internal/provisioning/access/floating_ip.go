package access

import (
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// ProvisionFloatingIP allocates an address on the public network and binds
// it to the target instance.
func (p *Provisioner) ProvisionFloatingIP(ctx *provisioning.Context) error {
	const step = provisioning.StepFloatingIP

	srv, err := target(ctx, step)
	if err != nil {
		return err
	}
	public := ctx.State.Network(config.RolePublic)
	if public == nil {
		return provisioning.Fail(step, openstack.KindFloatingIP, "",
			fmt.Errorf("network %q has not been provisioned", ctx.Config.Topology.Public.Name))
	}

	provisioning.LogResourceCreating(ctx.Observer, step, string(openstack.KindFloatingIP), public.Name)
	fip, err := ctx.Infra.CreateFloatingIP(ctx, public.ID)
	if err != nil {
		return provisioning.Fail(step, openstack.KindFloatingIP, public.Name,
			fmt.Errorf("failed to allocate floating IP: %w", err))
	}
	ctx.State.FloatingIP = fip
	created(ctx, step, openstack.KindFloatingIP, fip.FloatingIPAddress, fip.ID)

	if err := ctx.Infra.AddFloatingIPToServer(ctx, srv.ID, fip.FloatingIPAddress); err != nil {
		return provisioning.Fail(step, openstack.KindFloatingIP, fip.FloatingIPAddress,
			fmt.Errorf("failed to bind to server %s: %w", srv.ID, err))
	}
	attached(ctx, step, openstack.KindFloatingIP, fip.FloatingIPAddress, fip.ID, srv)
	return nil
}
