package openstack

import (
	"encoding/json"
	"fmt"
)

// Resource is the kind-agnostic view of one control-plane object. Raw keeps
// the full object as returned, already unwrapped from its envelope.
type Resource struct {
	Kind Kind
	ID   string
	Name string
	Raw  json.RawMessage
}

// decodeAs unmarshals the raw representation into a typed model.
func decodeAs[T any](r *Resource) (*T, error) {
	if r == nil {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s %q: %w", r.Kind, r.ID, err)
	}
	return &out, nil
}

func decodeAll[T any](rs []Resource) ([]T, error) {
	out := make([]T, 0, len(rs))
	for i := range rs {
		v, err := decodeAs[T](&rs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

type Network struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Status       string   `json:"status,omitempty"`
	AdminStateUp bool     `json:"admin_state_up"`
	External     bool     `json:"router:external"`
	Subnets      []string `json:"subnets,omitempty"`
	ProjectID    string   `json:"project_id,omitempty"`
}

type Subnet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NetworkID  string `json:"network_id"`
	CIDR       string `json:"cidr"`
	IPVersion  int    `json:"ip_version"`
	GatewayIP  string `json:"gateway_ip,omitempty"`
	EnableDHCP bool   `json:"enable_dhcp"`
}

// GatewayInfo is the external gateway of a router.
type GatewayInfo struct {
	NetworkID string `json:"network_id"`
}

type Router struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Status              string       `json:"status,omitempty"`
	ExternalGatewayInfo *GatewayInfo `json:"external_gateway_info,omitempty"`
}

// Address is one entry of a server's per-network address list.
type Address struct {
	Addr    string `json:"addr"`
	Version int    `json:"version"`
	Type    string `json:"OS-EXT-IPS:type,omitempty"`
}

// Fault is set on servers in ERROR state.
type Fault struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server status values relevant to readiness.
const (
	ServerStatusActive = "ACTIVE"
	ServerStatusBuild  = "BUILD"
	ServerStatusError  = "ERROR"
)

type Server struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Status    string               `json:"status,omitempty"`
	Addresses map[string][]Address `json:"addresses,omitempty"`
	Metadata  map[string]string    `json:"metadata,omitempty"`
	KeyName   string               `json:"key_name,omitempty"`
	Fault     *Fault               `json:"fault,omitempty"`
}

type FloatingIP struct {
	ID                string `json:"id"`
	FloatingIPAddress string `json:"floating_ip_address"`
	FloatingNetworkID string `json:"floating_network_id"`
	PortID            string `json:"port_id,omitempty"`
	Status            string `json:"status,omitempty"`
}

type SecurityGroup struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Rules       []SecurityGroupRule `json:"security_group_rules,omitempty"`
}

type SecurityGroupRule struct {
	ID              string `json:"id"`
	SecurityGroupID string `json:"security_group_id"`
	Direction       string `json:"direction"`
	EtherType       string `json:"ethertype"`
	Protocol        string `json:"protocol,omitempty"`
	PortRangeMin    *int   `json:"port_range_min,omitempty"`
	PortRangeMax    *int   `json:"port_range_max,omitempty"`
}

// Keypair is identified by name. PrivateKey is only populated in the
// response to a create without a public key.
type Keypair struct {
	Name        string `json:"name"`
	PublicKey   string `json:"public_key,omitempty"`
	PrivateKey  string `json:"private_key,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

type Image struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type Flavor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	VCPUs int    `json:"vcpus,omitempty"`
	RAM   int    `json:"ram,omitempty"`
	Disk  int    `json:"disk,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DomainID string `json:"domain_id,omitempty"`
	Enabled  bool   `json:"enabled"`
}
