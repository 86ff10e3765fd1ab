package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// Document is the exported topology.
type Document struct {
	Network []Network `json:"network"`
	Servers []Server  `json:"servers"`
	Router  []Router  `json:"router"`
}

// Network is one exported network with its subnets.
type Network struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status,omitempty"`
	Subnets []Subnet `json:"subnets"`
}

// Subnet is one exported subnet.
type Subnet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CIDR      string `json:"cidr"`
	GatewayIP string `json:"gateway_ip,omitempty"`
}

// Server is one exported compute instance.
type Server struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Status    string              `json:"status,omitempty"`
	Addresses map[string][]string `json:"addresses,omitempty"`
	KeyName   string              `json:"key_name,omitempty"`
}

// Router is one exported router and the subnets attached to it.
type Router struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Status            string   `json:"status,omitempty"`
	ExternalNetworkID string   `json:"external_network_id,omitempty"`
	Interfaces        []string `json:"interfaces,omitempty"`
}

// FromState builds the document for the resources a run holds.
func FromState(state *provisioning.State) *Document {
	doc := FromListings(state.Networks(), state.Subnets(), state.Servers(), nil)
	if state.Router != nil {
		r := router(*state.Router)
		r.Interfaces = append([]string(nil), state.RouterInterfaces...)
		doc.Router = append(doc.Router, r)
	}
	for _, r := range state.Records() {
		if r.Kind != openstack.KindKeypair || r.Action != provisioning.ActionAttached {
			continue
		}
		for i := range doc.Servers {
			if doc.Servers[i].ID == r.Target {
				doc.Servers[i].KeyName = r.ID
			}
		}
	}
	return doc
}

// FromListings builds the document from control-plane listings. Subnets are
// grouped under their network; subnets of unknown networks are dropped.
func FromListings(networks []openstack.Network, subnets []openstack.Subnet, servers []openstack.Server, routers []openstack.Router) *Document {
	doc := &Document{
		Network: make([]Network, 0, len(networks)),
		Servers: make([]Server, 0, len(servers)),
		Router:  make([]Router, 0, len(routers)),
	}

	byNetwork := make(map[string][]Subnet)
	for _, sn := range subnets {
		byNetwork[sn.NetworkID] = append(byNetwork[sn.NetworkID], Subnet{
			ID:        sn.ID,
			Name:      sn.Name,
			CIDR:      sn.CIDR,
			GatewayIP: sn.GatewayIP,
		})
	}
	for _, n := range networks {
		doc.Network = append(doc.Network, Network{
			ID:      n.ID,
			Name:    n.Name,
			Status:  n.Status,
			Subnets: append([]Subnet{}, byNetwork[n.ID]...),
		})
	}

	for _, s := range servers {
		doc.Servers = append(doc.Servers, server(s))
	}
	for _, r := range routers {
		doc.Router = append(doc.Router, router(r))
	}
	return doc
}

func server(s openstack.Server) Server {
	out := Server{ID: s.ID, Name: s.Name, Status: s.Status, KeyName: s.KeyName}
	if len(s.Addresses) > 0 {
		out.Addresses = make(map[string][]string, len(s.Addresses))
		for network, addrs := range s.Addresses {
			for _, a := range addrs {
				out.Addresses[network] = append(out.Addresses[network], a.Addr)
			}
			sort.Strings(out.Addresses[network])
		}
	}
	return out
}

func router(r openstack.Router) Router {
	out := Router{ID: r.ID, Name: r.Name, Status: r.Status}
	if r.ExternalGatewayInfo != nil {
		out.ExternalNetworkID = r.ExternalGatewayInfo.NetworkID
	}
	return out
}

// Lister is the read-only surface Collect needs.
type Lister interface {
	ListNetworks(ctx context.Context) ([]openstack.Network, error)
	ListSubnets(ctx context.Context) ([]openstack.Subnet, error)
	ListServers(ctx context.Context) ([]openstack.Server, error)
	ListRouters(ctx context.Context) ([]openstack.Router, error)
}

// Collect lists the live topology.
func Collect(ctx context.Context, l Lister) (*Document, error) {
	networks, err := l.ListNetworks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	subnets, err := l.ListSubnets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subnets: %w", err)
	}
	servers, err := l.ListServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	routers, err := l.ListRouters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routers: %w", err)
	}
	return FromListings(networks, subnets, servers, routers), nil
}

// Marshal renders v as indented JSON with a trailing newline.
func Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write marshals v and writes it to path through a temporary file in the
// same directory, so readers never see a partial document.
func Write(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
