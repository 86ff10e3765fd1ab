package openstack

import (
	"context"
	"net/http"
)

type routerCreateParams struct {
	Name                string      `json:"name"`
	AdminStateUp        bool        `json:"admin_state_up"`
	ExternalGatewayInfo GatewayInfo `json:"external_gateway_info"`
}

// EnsureRouter reuses the first router named name, or creates it with its
// gateway on externalNetworkID. Interfaces are not touched here.
func (c *RealClient) EnsureRouter(ctx context.Context, name, externalNetworkID string) (*Router, bool, error) {
	return (&EnsureOperation[Router]{
		Name: name,
		Kind: KindRouter,
		Find: c.GetRouterByName,
		Create: func(ctx context.Context) (*Router, error) {
			return createTyped[Router](ctx, c, KindRouter, routerCreateParams{
				Name:                name,
				AdminStateUp:        true,
				ExternalGatewayInfo: GatewayInfo{NetworkID: externalNetworkID},
			})
		},
	}).Execute(ctx)
}

// GetRouterByName returns the first router named name, or nil.
func (c *RealClient) GetRouterByName(ctx context.Context, name string) (*Router, error) {
	return findTyped[Router](c, KindRouter)(ctx, name)
}

// AddRouterInterface attaches a subnet to a router.
func (c *RealClient) AddRouterInterface(ctx context.Context, routerID, subnetID string) error {
	_, err := c.Action(ctx, KindRouter, routerID, "add_router_interface", http.MethodPut, map[string]string{"subnet_id": subnetID})
	return err
}

func (c *RealClient) ListRouters(ctx context.Context) ([]Router, error) {
	return listTyped[Router](ctx, c, KindRouter)
}
