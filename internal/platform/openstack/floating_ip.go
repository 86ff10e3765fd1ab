package openstack

import "context"

type floatingIPCreateParams struct {
	FloatingNetworkID string `json:"floating_network_id"`
}

// CreateFloatingIP allocates an address from the given external network.
func (c *RealClient) CreateFloatingIP(ctx context.Context, networkID string) (*FloatingIP, error) {
	return createTyped[FloatingIP](ctx, c, KindFloatingIP, floatingIPCreateParams{FloatingNetworkID: networkID})
}

func (c *RealClient) ListFloatingIPs(ctx context.Context) ([]FloatingIP, error) {
	return listTyped[FloatingIP](ctx, c, KindFloatingIP)
}
