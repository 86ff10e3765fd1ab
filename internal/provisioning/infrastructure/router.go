package infrastructure

import (
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// ProvisionRouter reuses or creates the router with the public network as
// its external gateway. A newly created router gets one interface per
// private subnet; a reused router is left as found.
func (p *Provisioner) ProvisionRouter(ctx *provisioning.Context) error {
	name := ctx.Config.Topology.Router
	public := ctx.State.Network(config.RolePublic)
	if public == nil {
		return provisioning.Fail(provisioning.StepRouter, openstack.KindRouter, name,
			fmt.Errorf("external network %q has not been provisioned", ctx.Config.Topology.Public.Name))
	}

	router, reused, err := ctx.Infra.EnsureRouter(ctx, name, public.ID)
	if err != nil {
		return provisioning.Fail(provisioning.StepRouter, openstack.KindRouter, name,
			fmt.Errorf("failed to ensure router: %w", err))
	}
	ctx.State.Router = router
	record(ctx, provisioning.StepRouter, openstack.KindRouter, name, router.ID, reused)

	if reused {
		ctx.Observer.Printf("[%s] Router %s reused, leaving its interfaces unchanged", provisioning.StepRouter, name)
		return nil
	}

	for _, role := range config.PrivateRoles() {
		subnetName := ctx.Config.Topology.Network(role).Subnet
		subnet := ctx.State.Subnet(role)
		if subnet == nil {
			return provisioning.Fail(provisioning.StepRouter, openstack.KindSubnet, subnetName,
				fmt.Errorf("subnet for %s has not been provisioned", role))
		}
		if err := ctx.Infra.AddRouterInterface(ctx, router.ID, subnet.ID); err != nil {
			return provisioning.Fail(provisioning.StepRouter, openstack.KindRouter, name,
				fmt.Errorf("failed to attach subnet %s: %w", subnetName, err))
		}
		ctx.State.RouterInterfaces = append(ctx.State.RouterInterfaces, subnet.ID)
		ctx.State.Track(provisioning.Record{
			Step:   provisioning.StepRouter,
			Kind:   openstack.KindSubnet,
			Name:   subnetName,
			ID:     subnet.ID,
			Action: provisioning.ActionAttached,
			Target: router.ID,
		})
		provisioning.LogResourceAttached(ctx.Observer, provisioning.StepRouter, string(openstack.KindSubnet), subnetName, name)
	}
	return nil
}
