package config

import "github.com/imamik/stacktopo/internal/util/naming"

// Default values for a local DevStack-style deployment.
const (
	DefaultScheme      = "http"
	DefaultHost        = "localhost"
	DefaultPort        = 8092
	DefaultProject     = "admin"
	DefaultUsername    = "admin"
	DefaultPassword    = "openstack"
	DefaultDomainID    = "default"
	DefaultRouter      = "router"
	DefaultImage       = "cirros-0.5.1-x86_64-disk"
	DefaultFlavor      = "m1.tiny"
	DefaultSecGroup    = "security_group"
	DefaultKeypair     = "keypair"
	DefaultExportFile  = "resultat.json"
	DefaultConfigFile  = "stacktopo.yaml"
	DefaultParallelism = 1

	DefaultIdentityPath = "/identity/v3"
	DefaultNetworkPath  = "/network/v2.0"
	DefaultComputePath  = "/compute/v2.1"
	DefaultImagePath    = "/image/v2"
)

var defaultCIDRs = map[Role]string{
	RoleBlue:   "10.0.0.0/24",
	RoleRed:    "192.168.1.0/24",
	RolePublic: "172.24.4.0/24",
}

// Default returns a fully populated configuration.
func Default() *Config {
	cfg := base()
	cfg.FillDerived()
	return cfg
}

// base holds every default except the per-network names, which
// FillDerived computes from whatever network names end up configured.
func base() *Config {
	return &Config{
		ControlPlane: ControlPlane{
			Scheme:          DefaultScheme,
			Host:            DefaultHost,
			Port:            DefaultPort,
			ProjectName:     DefaultProject,
			Username:        DefaultUsername,
			Password:        DefaultPassword,
			UserDomainID:    DefaultDomainID,
			ProjectDomainID: DefaultDomainID,
			Endpoints: Endpoints{
				Identity: DefaultIdentityPath,
				Network:  DefaultNetworkPath,
				Compute:  DefaultComputePath,
				Image:    DefaultImagePath,
			},
		},
		Topology: Topology{
			Router:        DefaultRouter,
			Image:         DefaultImage,
			Flavor:        DefaultFlavor,
			SecurityGroup: DefaultSecGroup,
			Keypair:       DefaultKeypair,
		},
		Provisioning: Provisioning{Parallelism: DefaultParallelism},
		Output:       Output{ExportFile: DefaultExportFile},
	}
}

// FillDerived completes names that are derived from other names. A network
// renamed to "green" without an explicit subnet name gets "green_subnet".
func (c *Config) FillDerived() {
	for i, role := range Roles() {
		spec := c.Topology.networkRef(role)
		if spec.Name == "" {
			spec.Name = string(role)
		}
		if spec.Subnet == "" {
			spec.Subnet = naming.Subnet(spec.Name)
		}
		if spec.CIDR == "" {
			spec.CIDR = defaultCIDRs[role]
		}
		if spec.Instance == "" {
			spec.Instance = naming.Instance(spec.Name, i+1)
		}
	}
	if c.Output.KeyFile == "" && c.Topology.Keypair != "" {
		c.Output.KeyFile = naming.KeyFile(c.Topology.Keypair)
	}
	if c.Provisioning.Parallelism == 0 {
		c.Provisioning.Parallelism = DefaultParallelism
	}
}
