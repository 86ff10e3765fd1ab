package access

import (
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// TargetRole is the role whose instance receives the access resources.
const TargetRole = config.RoleBlue

// Provisioner handles the floating IP, security group and keypair steps.
type Provisioner struct {
	// KeyBits is the RSA size used when the keypair is generated locally.
	KeyBits int
}

// NewProvisioner creates a new access provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{KeyBits: 2048}
}

// Phases returns the access steps in order.
func (p *Provisioner) Phases() []provisioning.Phase {
	return []provisioning.Phase{
		provisioning.Step{StepName: provisioning.StepFloatingIP, Run: p.ProvisionFloatingIP},
		provisioning.Step{StepName: provisioning.StepSecurityGroup, Run: p.ProvisionSecurityGroup},
		provisioning.Step{StepName: provisioning.StepKeypair, Run: p.ProvisionKeypair},
	}
}

// target returns the instance access resources attach to.
func target(ctx *provisioning.Context, step string) (*openstack.Server, error) {
	srv := ctx.State.Server(TargetRole)
	if srv == nil {
		name := ctx.Config.Topology.Network(TargetRole).Instance
		return nil, provisioning.Fail(step, openstack.KindServer, name,
			fmt.Errorf("instance %q has not been provisioned", name))
	}
	return srv, nil
}

func attached(ctx *provisioning.Context, step string, kind openstack.Kind, name, id string, srv *openstack.Server) {
	ctx.State.Track(provisioning.Record{
		Step:   step,
		Kind:   kind,
		Name:   name,
		ID:     id,
		Action: provisioning.ActionAttached,
		Target: srv.ID,
	})
	provisioning.LogResourceAttached(ctx.Observer, step, string(kind), name, srv.Name)
}

func created(ctx *provisioning.Context, step string, kind openstack.Kind, name, id string) {
	ctx.State.Track(provisioning.Record{
		Step:   step,
		Kind:   kind,
		Name:   name,
		ID:     id,
		Action: provisioning.ActionCreated,
	})
	provisioning.LogResourceCreated(ctx.Observer, step, string(kind), name, id)
}
