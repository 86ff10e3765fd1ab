package openstack

import "context"

// MockClient is a mock implementation of InfrastructureManager. Unset
// functions return a plausible default derived from their arguments.
type MockClient struct {
	ListFunc       func(ctx context.Context, kind Kind) ([]Resource, error)
	FindByNameFunc func(ctx context.Context, kind Kind, name string) (*Resource, error)

	// Network
	EnsureNetworkFunc    func(ctx context.Context, name string) (*Network, bool, error)
	GetNetworkByNameFunc func(ctx context.Context, name string) (*Network, error)
	ListNetworksFunc     func(ctx context.Context) ([]Network, error)
	CreateSubnetFunc     func(ctx context.Context, opts SubnetCreateOpts) (*Subnet, error)
	EnsureSubnetFunc     func(ctx context.Context, opts SubnetCreateOpts) (*Subnet, bool, error)
	ListSubnetsFunc      func(ctx context.Context) ([]Subnet, error)

	// Router
	EnsureRouterFunc       func(ctx context.Context, name, externalNetworkID string) (*Router, bool, error)
	GetRouterByNameFunc    func(ctx context.Context, name string) (*Router, error)
	AddRouterInterfaceFunc func(ctx context.Context, routerID, subnetID string) error
	ListRoutersFunc        func(ctx context.Context) ([]Router, error)

	// Server
	CreateServerFunc    func(ctx context.Context, opts ServerCreateOpts) (*Server, error)
	GetServerFunc       func(ctx context.Context, id string) (*Server, error)
	GetServerByNameFunc func(ctx context.Context, name string) (*Server, error)
	WaitForServerFunc   func(ctx context.Context, id string) (*Server, error)
	ListServersFunc     func(ctx context.Context) ([]Server, error)

	// Catalog
	FindImageFunc   func(ctx context.Context, name string) (*Image, error)
	FindFlavorFunc  func(ctx context.Context, name string) (*Flavor, error)
	ListImagesFunc  func(ctx context.Context) ([]Image, error)
	ListFlavorsFunc func(ctx context.Context) ([]Flavor, error)
	ListUsersFunc   func(ctx context.Context) ([]User, error)

	// Access
	CreateFloatingIPFunc         func(ctx context.Context, networkID string) (*FloatingIP, error)
	AddFloatingIPToServerFunc    func(ctx context.Context, serverID, address string) error
	ListFloatingIPsFunc          func(ctx context.Context) ([]FloatingIP, error)
	CreateSecurityGroupFunc      func(ctx context.Context, name, description string) (*SecurityGroup, error)
	CreateSecurityGroupRuleFunc  func(ctx context.Context, opts SecurityGroupRuleOpts) (*SecurityGroupRule, error)
	AddSecurityGroupToServerFunc func(ctx context.Context, serverID, groupName string) error
	CreateKeypairFunc            func(ctx context.Context, name, publicKey string) (*Keypair, error)
	AddKeypairToServerFunc       func(ctx context.Context, serverID, keypairName string) error
	ListKeypairsFunc             func(ctx context.Context) ([]Keypair, error)
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

func (m *MockClient) List(ctx context.Context, kind Kind) ([]Resource, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind)
	}
	return nil, nil
}

func (m *MockClient) FindByName(ctx context.Context, kind Kind, name string) (*Resource, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, kind, name)
	}
	return nil, nil
}

func (m *MockClient) EnsureNetwork(ctx context.Context, name string) (*Network, bool, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, name)
	}
	return &Network{ID: "net-" + name, Name: name}, false, nil
}

func (m *MockClient) GetNetworkByName(ctx context.Context, name string) (*Network, error) {
	if m.GetNetworkByNameFunc != nil {
		return m.GetNetworkByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) ListNetworks(ctx context.Context) ([]Network, error) {
	if m.ListNetworksFunc != nil {
		return m.ListNetworksFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) CreateSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, error) {
	if m.CreateSubnetFunc != nil {
		return m.CreateSubnetFunc(ctx, opts)
	}
	return &Subnet{ID: "sub-" + opts.Name, Name: opts.Name, NetworkID: opts.NetworkID, CIDR: opts.CIDR, IPVersion: 4}, nil
}

func (m *MockClient) EnsureSubnet(ctx context.Context, opts SubnetCreateOpts) (*Subnet, bool, error) {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, opts)
	}
	s, err := m.CreateSubnet(ctx, opts)
	return s, false, err
}

func (m *MockClient) ListSubnets(ctx context.Context) ([]Subnet, error) {
	if m.ListSubnetsFunc != nil {
		return m.ListSubnetsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) EnsureRouter(ctx context.Context, name, externalNetworkID string) (*Router, bool, error) {
	if m.EnsureRouterFunc != nil {
		return m.EnsureRouterFunc(ctx, name, externalNetworkID)
	}
	return &Router{ID: "router-" + name, Name: name, ExternalGatewayInfo: &GatewayInfo{NetworkID: externalNetworkID}}, false, nil
}

func (m *MockClient) GetRouterByName(ctx context.Context, name string) (*Router, error) {
	if m.GetRouterByNameFunc != nil {
		return m.GetRouterByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) AddRouterInterface(ctx context.Context, routerID, subnetID string) error {
	if m.AddRouterInterfaceFunc != nil {
		return m.AddRouterInterfaceFunc(ctx, routerID, subnetID)
	}
	return nil
}

func (m *MockClient) ListRouters(ctx context.Context) ([]Router, error) {
	if m.ListRoutersFunc != nil {
		return m.ListRoutersFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	return &Server{ID: "srv-" + opts.Name, Name: opts.Name, Status: ServerStatusBuild}, nil
}

func (m *MockClient) GetServer(ctx context.Context, id string) (*Server, error) {
	if m.GetServerFunc != nil {
		return m.GetServerFunc(ctx, id)
	}
	return &Server{ID: id, Status: ServerStatusActive}, nil
}

func (m *MockClient) GetServerByName(ctx context.Context, name string) (*Server, error) {
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) WaitForServer(ctx context.Context, id string) (*Server, error) {
	if m.WaitForServerFunc != nil {
		return m.WaitForServerFunc(ctx, id)
	}
	return &Server{ID: id, Status: ServerStatusActive}, nil
}

func (m *MockClient) ListServers(ctx context.Context) ([]Server, error) {
	if m.ListServersFunc != nil {
		return m.ListServersFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) FindImage(ctx context.Context, name string) (*Image, error) {
	if m.FindImageFunc != nil {
		return m.FindImageFunc(ctx, name)
	}
	return &Image{ID: "img-" + name, Name: name}, nil
}

func (m *MockClient) FindFlavor(ctx context.Context, name string) (*Flavor, error) {
	if m.FindFlavorFunc != nil {
		return m.FindFlavorFunc(ctx, name)
	}
	return &Flavor{ID: "flv-" + name, Name: name}, nil
}

func (m *MockClient) ListImages(ctx context.Context) ([]Image, error) {
	if m.ListImagesFunc != nil {
		return m.ListImagesFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) ListFlavors(ctx context.Context) ([]Flavor, error) {
	if m.ListFlavorsFunc != nil {
		return m.ListFlavorsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) ListUsers(ctx context.Context) ([]User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) CreateFloatingIP(ctx context.Context, networkID string) (*FloatingIP, error) {
	if m.CreateFloatingIPFunc != nil {
		return m.CreateFloatingIPFunc(ctx, networkID)
	}
	return &FloatingIP{ID: "fip-1", FloatingIPAddress: "172.24.4.10", FloatingNetworkID: networkID}, nil
}

func (m *MockClient) AddFloatingIPToServer(ctx context.Context, serverID, address string) error {
	if m.AddFloatingIPToServerFunc != nil {
		return m.AddFloatingIPToServerFunc(ctx, serverID, address)
	}
	return nil
}

func (m *MockClient) ListFloatingIPs(ctx context.Context) ([]FloatingIP, error) {
	if m.ListFloatingIPsFunc != nil {
		return m.ListFloatingIPsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) CreateSecurityGroup(ctx context.Context, name, description string) (*SecurityGroup, error) {
	if m.CreateSecurityGroupFunc != nil {
		return m.CreateSecurityGroupFunc(ctx, name, description)
	}
	return &SecurityGroup{ID: "sg-" + name, Name: name, Description: description}, nil
}

func (m *MockClient) CreateSecurityGroupRule(ctx context.Context, opts SecurityGroupRuleOpts) (*SecurityGroupRule, error) {
	if m.CreateSecurityGroupRuleFunc != nil {
		return m.CreateSecurityGroupRuleFunc(ctx, opts)
	}
	return &SecurityGroupRule{
		ID:              "rule-" + opts.Protocol,
		SecurityGroupID: opts.SecurityGroupID,
		Direction:       opts.Direction,
		EtherType:       opts.EtherType,
		Protocol:        opts.Protocol,
		PortRangeMin:    opts.PortRangeMin,
		PortRangeMax:    opts.PortRangeMax,
	}, nil
}

func (m *MockClient) AddSecurityGroupToServer(ctx context.Context, serverID, groupName string) error {
	if m.AddSecurityGroupToServerFunc != nil {
		return m.AddSecurityGroupToServerFunc(ctx, serverID, groupName)
	}
	return nil
}

func (m *MockClient) CreateKeypair(ctx context.Context, name, publicKey string) (*Keypair, error) {
	if m.CreateKeypairFunc != nil {
		return m.CreateKeypairFunc(ctx, name, publicKey)
	}
	return &Keypair{Name: name, PublicKey: publicKey}, nil
}

func (m *MockClient) AddKeypairToServer(ctx context.Context, serverID, keypairName string) error {
	if m.AddKeypairToServerFunc != nil {
		return m.AddKeypairToServerFunc(ctx, serverID, keypairName)
	}
	return nil
}

func (m *MockClient) ListKeypairs(ctx context.Context) ([]Keypair, error) {
	if m.ListKeypairsFunc != nil {
		return m.ListKeypairsFunc(ctx)
	}
	return nil, nil
}
