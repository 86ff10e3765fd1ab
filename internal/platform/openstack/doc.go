// Package openstack is a small client for the OpenStack identity, network,
// compute and image APIs.
//
// It covers exactly what topology provisioning needs: a one-shot token
// exchange ([Authenticator]), name lookup over unpaginated collection
// listings ([RealClient.FindByName]), creation with envelope unwrapping
// ([RealClient.Create]) and the handful of sub-resource actions used to wire
// resources together. Typed helpers such as [RealClient.EnsureNetwork] sit on
// top of that generic layer and together satisfy [InfrastructureManager].
//
// The session token is obtained once and never refreshed. A run that
// outlives the token fails on its next request with an [*APIError] carrying
// status 401.
package openstack
