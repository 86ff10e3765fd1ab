package access

import (
	"fmt"

	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/util/ptr"
)

const sshPort = 22

// Rules returns the ingress rules added to the group: SSH over TCP and
// ICMP on any port.
func Rules(groupID string) []openstack.SecurityGroupRuleOpts {
	return []openstack.SecurityGroupRuleOpts{
		{
			SecurityGroupID: groupID,
			Direction:       openstack.DirectionIngress,
			EtherType:       openstack.EtherTypeIPv4,
			Protocol:        openstack.ProtocolTCP,
			PortRangeMin:    ptr.Int(sshPort),
			PortRangeMax:    ptr.Int(sshPort),
		},
		{
			SecurityGroupID: groupID,
			Direction:       openstack.DirectionIngress,
			EtherType:       openstack.EtherTypeIPv4,
			Protocol:        openstack.ProtocolICMP,
		},
	}
}

// ProvisionSecurityGroup creates the group and its rules, then attaches it
// to the target instance.
func (p *Provisioner) ProvisionSecurityGroup(ctx *provisioning.Context) error {
	const step = provisioning.StepSecurityGroup
	name := ctx.Config.Topology.SecurityGroup

	srv, err := target(ctx, step)
	if err != nil {
		return err
	}

	provisioning.LogResourceCreating(ctx.Observer, step, string(openstack.KindSecurityGroup), name)
	group, err := ctx.Infra.CreateSecurityGroup(ctx, name, fmt.Sprintf("stacktopo run %s", ctx.State.RunID))
	if err != nil {
		return provisioning.Fail(step, openstack.KindSecurityGroup, name,
			fmt.Errorf("failed to create security group: %w", err))
	}
	ctx.State.SecurityGroup = group
	created(ctx, step, openstack.KindSecurityGroup, name, group.ID)

	for _, opts := range Rules(group.ID) {
		rule, err := ctx.Infra.CreateSecurityGroupRule(ctx, opts)
		if err != nil {
			return provisioning.Fail(step, openstack.KindSecurityGroupRule, opts.Protocol,
				fmt.Errorf("failed to add %s rule to %s: %w", opts.Protocol, name, err))
		}
		ctx.State.SecurityGroupRules = append(ctx.State.SecurityGroupRules, *rule)
		created(ctx, step, openstack.KindSecurityGroupRule, opts.Protocol, rule.ID)
	}

	if err := ctx.Infra.AddSecurityGroupToServer(ctx, srv.ID, name); err != nil {
		return provisioning.Fail(step, openstack.KindSecurityGroup, name,
			fmt.Errorf("failed to attach to server %s: %w", srv.ID, err))
	}
	attached(ctx, step, openstack.KindSecurityGroup, name, group.ID, srv)
	return nil
}
