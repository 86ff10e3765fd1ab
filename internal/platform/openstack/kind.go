package openstack

import "fmt"

// Service is an OpenStack API service.
type Service string

const (
	ServiceIdentity Service = "identity"
	ServiceNetwork  Service = "network"
	ServiceCompute  Service = "compute"
	ServiceImage    Service = "image"
)

// Kind is a resource kind addressable through a collection endpoint.
type Kind string

const (
	KindNetwork           Kind = "network"
	KindSubnet            Kind = "subnet"
	KindRouter            Kind = "router"
	KindServer            Kind = "server"
	KindFloatingIP        Kind = "floatingip"
	KindSecurityGroup     Kind = "security_group"
	KindSecurityGroupRule Kind = "security_group_rule"
	KindKeypair           Kind = "keypair"
	KindImage             Kind = "image"
	KindFlavor            Kind = "flavor"
	KindUser              Kind = "user"
)

// kindSpec describes how a kind is addressed and wrapped on the wire.
type kindSpec struct {
	service    Service
	collection string
	singular   string
	plural     string
	idField    string
	// nested marks listings whose items are wrapped in their singular key,
	// as compute does for keypairs.
	nested bool
}

var kinds = map[Kind]kindSpec{
	KindNetwork:           {ServiceNetwork, "networks", "network", "networks", "id", false},
	KindSubnet:            {ServiceNetwork, "subnets", "subnet", "subnets", "id", false},
	KindRouter:            {ServiceNetwork, "routers", "router", "routers", "id", false},
	KindFloatingIP:        {ServiceNetwork, "floatingips", "floatingip", "floatingips", "id", false},
	KindSecurityGroup:     {ServiceNetwork, "security-groups", "security_group", "security_groups", "id", false},
	KindSecurityGroupRule: {ServiceNetwork, "security-group-rules", "security_group_rule", "security_group_rules", "id", false},
	KindServer:            {ServiceCompute, "servers", "server", "servers", "id", false},
	KindKeypair:           {ServiceCompute, "os-keypairs", "keypair", "keypairs", "name", true},
	KindFlavor:            {ServiceCompute, "flavors", "flavor", "flavors", "id", false},
	KindImage:             {ServiceImage, "images", "image", "images", "id", false},
	KindUser:              {ServiceIdentity, "users", "user", "users", "id", false},
}

func specFor(kind Kind) (kindSpec, error) {
	spec, ok := kinds[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown resource kind %q", kind)
	}
	return spec, nil
}

// Plural returns the listing envelope key, e.g. "networks".
func (k Kind) Plural() string {
	return kinds[k].plural
}

// Collection returns the collection path segment, e.g. "security-groups".
func (k Kind) Collection() string {
	return kinds[k].collection
}

// Service returns the API service that owns the kind.
func (k Kind) Service() Service {
	return kinds[k].service
}
