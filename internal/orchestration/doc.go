// Package orchestration provides high-level workflow coordination for a
// provisioning run.
//
// It wires the step provisioners from the internal/provisioning subpackages
// into one ordered pipeline and owns the session that the run authenticates
// with. The steps are:
//  1. Validation - configuration checks, overlap warnings
//  2. Infrastructure - networks, subnets, router and its interfaces
//  3. Compute - one instance per network, each waited on until ACTIVE
//  4. Access - floating IP, security group and keypair on the blue instance
//
// # Usage
//
//	infra, err := orchestration.Connect(ctx, cfg, orchestration.ConnectOptions{})
//	if err != nil {
//		return err
//	}
//	state, err := orchestration.NewProvisioner(infra, cfg).Provision(ctx)
//
// State is returned even when a step fails, so callers can report what was
// created before the failure. Nothing is rolled back.
package orchestration
