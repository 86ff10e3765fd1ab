package infrastructure

import (
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// ProvisionSubnets creates one subnet per network, in role order. By default
// every run issues a create; with reuse_subnets a same-named subnet is kept.
func (p *Provisioner) ProvisionSubnets(ctx *provisioning.Context) error {
	for _, role := range config.Roles() {
		spec := ctx.Config.Topology.Network(role)
		network := ctx.State.Network(role)
		if network == nil {
			return provisioning.Fail(provisioning.StepSubnets, openstack.KindSubnet, spec.Subnet,
				fmt.Errorf("network %q has not been provisioned", spec.Name))
		}

		opts := openstack.SubnetCreateOpts{
			Name:      spec.Subnet,
			NetworkID: network.ID,
			CIDR:      spec.CIDR,
		}

		var (
			subnet *openstack.Subnet
			reused bool
			err    error
		)
		if ctx.Config.Provisioning.ReuseSubnets {
			subnet, reused, err = ctx.Infra.EnsureSubnet(ctx, opts)
		} else {
			provisioning.LogResourceCreating(ctx.Observer, provisioning.StepSubnets, string(openstack.KindSubnet), spec.Subnet)
			subnet, err = ctx.Infra.CreateSubnet(ctx, opts)
		}
		if err != nil {
			return provisioning.Fail(provisioning.StepSubnets, openstack.KindSubnet, spec.Subnet,
				fmt.Errorf("failed to create subnet %s in network %s: %w", spec.CIDR, network.ID, err))
		}

		ctx.State.SetSubnet(role, subnet)
		record(ctx, provisioning.StepSubnets, openstack.KindSubnet, spec.Subnet, subnet.ID, reused)
	}
	return nil
}
