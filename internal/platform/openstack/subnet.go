package openstack

import "context"

// SubnetCreateOpts holds the parameters for creating a subnet.
type SubnetCreateOpts struct {
	Name      string
	NetworkID string
	CIDR      string
	// IPVersion defaults to 4.
	IPVersion int
}

type subnetCreateParams struct {
	Name      string `json:"name"`
	NetworkID string `json:"network_id"`
	CIDR      string `json:"cidr"`
	IPVersion int    `json:"ip_version"`
}

// CreateSubnet always issues a create, even if a subnet with the same name
// exists.
func (c *RealClient) CreateSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, error) {
	version := opts.IPVersion
	if version == 0 {
		version = 4
	}
	return createTyped[Subnet](ctx, c, KindSubnet, subnetCreateParams{
		Name:      opts.Name,
		NetworkID: opts.NetworkID,
		CIDR:      opts.CIDR,
		IPVersion: version,
	})
}

// EnsureSubnet reuses the first subnet named opts.Name, or creates it.
func (c *RealClient) EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, bool, error) {
	return (&EnsureOperation[Subnet]{
		Name: opts.Name,
		Kind: KindSubnet,
		Find: c.GetSubnetByName,
		Create: func(ctx context.Context) (*Subnet, error) {
			return c.CreateSubnet(ctx, opts)
		},
	}).Execute(ctx)
}

// GetSubnetByName returns the first subnet named name, or nil.
func (c *RealClient) GetSubnetByName(ctx context.Context, name string) (*Subnet, error) {
	return findTyped[Subnet](c, KindSubnet)(ctx, name)
}

func (c *RealClient) ListSubnets(ctx context.Context) ([]Subnet, error) {
	return listTyped[Subnet](ctx, c, KindSubnet)
}
