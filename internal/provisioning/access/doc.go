// Package access makes the blue instance reachable.
//
// It allocates a floating IP on the public network, creates a security
// group allowing SSH and ICMP, and creates a keypair whose private key is
// persisted the moment the control plane returns it. Each resource is then
// attached to the blue instance.
package access
