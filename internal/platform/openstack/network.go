package openstack

import "context"

type networkCreateParams struct {
	Name         string `json:"name"`
	AdminStateUp bool   `json:"admin_state_up"`
}

// EnsureNetwork reuses the first network named name, or creates it.
func (c *RealClient) EnsureNetwork(ctx context.Context, name string) (*Network, bool, error) {
	return (&EnsureOperation[Network]{
		Name: name,
		Kind: KindNetwork,
		Find: c.GetNetworkByName,
		Create: func(ctx context.Context) (*Network, error) {
			return createTyped[Network](ctx, c, KindNetwork, networkCreateParams{Name: name, AdminStateUp: true})
		},
	}).Execute(ctx)
}

// GetNetworkByName returns the first network named name, or nil.
func (c *RealClient) GetNetworkByName(ctx context.Context, name string) (*Network, error) {
	return findTyped[Network](c, KindNetwork)(ctx, name)
}

func (c *RealClient) ListNetworks(ctx context.Context) ([]Network, error) {
	return listTyped[Network](ctx, c, KindNetwork)
}
