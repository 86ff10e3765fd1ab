package infrastructure

import (
	"github.com/imamik/stacktopo/internal/provisioning"
)

// Provisioner handles network, subnet and router provisioning.
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Phases returns the infrastructure steps in dependency order.
func (p *Provisioner) Phases() []provisioning.Phase {
	return []provisioning.Phase{
		provisioning.Step{StepName: provisioning.StepNetworks, Run: p.ProvisionNetworks},
		provisioning.Step{StepName: provisioning.StepSubnets, Run: p.ProvisionSubnets},
		provisioning.Step{StepName: provisioning.StepRouter, Run: p.ProvisionRouter},
	}
}
