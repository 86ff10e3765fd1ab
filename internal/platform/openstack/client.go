package openstack

import "context"

// ResourceReader is the kind-agnostic lookup surface.
type ResourceReader interface {
	List(ctx context.Context, kind Kind) ([]Resource, error)
	FindByName(ctx context.Context, kind Kind, name string) (*Resource, error)
}

// NetworkManager defines the interface for managing networks and subnets.
type NetworkManager interface {
	// EnsureNetwork reuses a same-named network or creates one. The bool
	// reports reuse.
	EnsureNetwork(ctx context.Context, name string) (*Network, bool, error)
	GetNetworkByName(ctx context.Context, name string) (*Network, error)
	ListNetworks(ctx context.Context) ([]Network, error)

	CreateSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, error)
	EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, bool, error)
	ListSubnets(ctx context.Context) ([]Subnet, error)
}

// RouterManager defines the interface for managing routers.
type RouterManager interface {
	EnsureRouter(ctx context.Context, name, externalNetworkID string) (*Router, bool, error)
	GetRouterByName(ctx context.Context, name string) (*Router, error)
	AddRouterInterface(ctx context.Context, routerID, subnetID string) error
	ListRouters(ctx context.Context) ([]Router, error)
}

// ServerProvisioner defines the interface for booting and inspecting servers.
type ServerProvisioner interface {
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error)
	GetServer(ctx context.Context, id string) (*Server, error)
	GetServerByName(ctx context.Context, name string) (*Server, error)
	// WaitForServer blocks until the server is ACTIVE, fails, or times out.
	WaitForServer(ctx context.Context, id string) (*Server, error)
	ListServers(ctx context.Context) ([]Server, error)
}

// Catalog resolves images and flavors and lists identity users.
type Catalog interface {
	FindImage(ctx context.Context, name string) (*Image, error)
	FindFlavor(ctx context.Context, name string) (*Flavor, error)
	ListImages(ctx context.Context) ([]Image, error)
	ListFlavors(ctx context.Context) ([]Flavor, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// AccessManager covers the resources that make a server reachable.
type AccessManager interface {
	CreateFloatingIP(ctx context.Context, networkID string) (*FloatingIP, error)
	AddFloatingIPToServer(ctx context.Context, serverID, address string) error
	ListFloatingIPs(ctx context.Context) ([]FloatingIP, error)

	CreateSecurityGroup(ctx context.Context, name, description string) (*SecurityGroup, error)
	CreateSecurityGroupRule(ctx context.Context, opts SecurityGroupRuleOpts) (*SecurityGroupRule, error)
	AddSecurityGroupToServer(ctx context.Context, serverID, groupName string) error

	CreateKeypair(ctx context.Context, name, publicKey string) (*Keypair, error)
	AddKeypairToServer(ctx context.Context, serverID, keypairName string) error
	ListKeypairs(ctx context.Context) ([]Keypair, error)
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	ResourceReader
	NetworkManager
	RouterManager
	ServerProvisioner
	Catalog
	AccessManager
}

var _ InfrastructureManager = (*RealClient)(nil)
