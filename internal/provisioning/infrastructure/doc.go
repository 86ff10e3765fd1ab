// Package infrastructure provisions the network layer of the topology.
//
// It reuses or creates the blue, red and public networks, creates their
// subnets, and joins the two private subnets to the public network through
// a router. Networks and routers are reused by name; subnets are always
// created unless subnet reuse is enabled.
package infrastructure
