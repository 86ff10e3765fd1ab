package provisioning

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
)

// Action describes what a step did to a resource.
type Action string

const (
	ActionCreated  Action = "created"
	ActionReused   Action = "reused"
	ActionAttached Action = "attached"
)

// Record is one ledger entry. For attach records Target names the resource
// the attachment was made to.
type Record struct {
	Step   string         `json:"step"`
	Kind   openstack.Kind `json:"kind"`
	Name   string         `json:"name"`
	ID     string         `json:"id"`
	Action Action         `json:"action"`
	Target string         `json:"target,omitempty"`
	At     time.Time      `json:"at"`
}

// State holds the shared results of provisioning steps.
// It is progressively populated as each step completes and is passed to
// later steps that need earlier identifiers. When a run fails, the state
// still references everything created or reused before the failure.
//
// Role-keyed maps and the ledger are written through methods that take the
// lock, so the networks and instances steps may fill them concurrently.
// The remaining fields are written by one step each.
type State struct {
	RunID string

	mu       sync.Mutex
	networks map[config.Role]*openstack.Network
	subnets  map[config.Role]*openstack.Subnet
	servers  map[config.Role]*openstack.Server
	records  []Record

	Router           *openstack.Router
	RouterInterfaces []string // attached subnet IDs

	FloatingIP *openstack.FloatingIP

	SecurityGroup      *openstack.SecurityGroup
	SecurityGroupRules []openstack.SecurityGroupRule

	// Keypair never holds private key material once it has been persisted.
	Keypair        *openstack.Keypair
	KeyFile        string
	KeyFingerprint string
}

// NewState creates an empty provisioning state with a fresh run ID.
func NewState() *State {
	return &State{
		RunID:    uuid.NewString(),
		networks: make(map[config.Role]*openstack.Network),
		subnets:  make(map[config.Role]*openstack.Subnet),
		servers:  make(map[config.Role]*openstack.Server),
	}
}

func (s *State) SetNetwork(role config.Role, n *openstack.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[role] = n
}

// Network returns the network for role, or nil if that step has not run.
func (s *State) Network(role config.Role) *openstack.Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.networks[role]
}

func (s *State) SetSubnet(role config.Role, sn *openstack.Subnet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subnets[role] = sn
}

func (s *State) Subnet(role config.Role) *openstack.Subnet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subnets[role]
}

func (s *State) SetServer(role config.Role, srv *openstack.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[role] = srv
}

func (s *State) Server(role config.Role) *openstack.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servers[role]
}

// Networks returns the known networks in role order.
func (s *State) Networks() []openstack.Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []openstack.Network
	for _, role := range config.Roles() {
		if n := s.networks[role]; n != nil {
			out = append(out, *n)
		}
	}
	return out
}

// Subnets returns the known subnets in role order.
func (s *State) Subnets() []openstack.Subnet {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []openstack.Subnet
	for _, role := range config.Roles() {
		if sn := s.subnets[role]; sn != nil {
			out = append(out, *sn)
		}
	}
	return out
}

// Servers returns the known servers in role order.
func (s *State) Servers() []openstack.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []openstack.Server
	for _, role := range config.Roles() {
		if srv := s.servers[role]; srv != nil {
			out = append(out, *srv)
		}
	}
	return out
}

// Track appends a ledger entry. A zero At is set to now.
func (s *State) Track(r Record) {
	if r.At.IsZero() {
		r.At = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns a copy of the ledger in the order entries were added.
func (s *State) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Created returns the ledger entries for resources created during the run.
// These are the resources left behind on the control plane when a run fails.
func (s *State) Created() []Record {
	var out []Record
	for _, r := range s.Records() {
		if r.Action == ActionCreated {
			out = append(out, r)
		}
	}
	return out
}
