// Package provisioning provides shared types, interfaces, and sequencing for
// topology provisioning.
//
// # Subpackages
//
//   - infrastructure/: networks, subnets, router
//   - compute/: instances, image and flavor resolution, readiness
//   - access/: floating IP, security group, keypair
//
// # Core Types
//
// Context carries configuration, state, the control-plane client, and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each step together with a ledger of every
// resource created, reused or attached during the run.
package provisioning
