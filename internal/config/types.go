package config

// Role identifies one of the three networks of the fixed topology.
type Role string

const (
	RoleBlue   Role = "blue"
	RoleRed    Role = "red"
	RolePublic Role = "public"
)

// Roles returns the roles in provisioning order.
func Roles() []Role {
	return []Role{RoleBlue, RoleRed, RolePublic}
}

// PrivateRoles returns the roles whose subnets are attached to the router.
func PrivateRoles() []Role {
	return []Role{RoleBlue, RoleRed}
}

// Config is the full configuration of one provisioning run.
type Config struct {
	ControlPlane ControlPlane `yaml:"control_plane"`
	Topology     Topology     `yaml:"topology"`
	Provisioning Provisioning `yaml:"provisioning"`
	Output       Output       `yaml:"output"`
}

// ControlPlane describes how to reach and authenticate against the API.
type ControlPlane struct {
	Scheme          string    `yaml:"scheme"`
	Host            string    `yaml:"host"`
	Port            int       `yaml:"port"`
	ProjectName     string    `yaml:"project_name"`
	Username        string    `yaml:"username"`
	Password        string    `yaml:"password"`
	UserDomainID    string    `yaml:"user_domain_id"`
	ProjectDomainID string    `yaml:"project_domain_id"`
	Endpoints       Endpoints `yaml:"endpoints"`

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
}

// Endpoints holds the per-service base paths. Relative paths are joined to
// scheme://host:port, absolute URLs are used as given.
type Endpoints struct {
	Identity string `yaml:"identity"`
	Network  string `yaml:"network"`
	Compute  string `yaml:"compute"`
	Image    string `yaml:"image"`
}

// NetworkSpec names one network and everything hanging off it.
type NetworkSpec struct {
	Name     string `yaml:"name"`
	Subnet   string `yaml:"subnet"`
	CIDR     string `yaml:"cidr"`
	Instance string `yaml:"instance"`
}

// Topology holds the display names of every resource the run touches.
type Topology struct {
	Blue   NetworkSpec `yaml:"blue"`
	Red    NetworkSpec `yaml:"red"`
	Public NetworkSpec `yaml:"public"`

	Router        string `yaml:"router"`
	Image         string `yaml:"image"`
	Flavor        string `yaml:"flavor"`
	SecurityGroup string `yaml:"security_group"`
	Keypair       string `yaml:"keypair"`
}

// Network returns the spec for a role. Unknown roles yield a zero spec.
func (t *Topology) Network(role Role) NetworkSpec {
	switch role {
	case RoleBlue:
		return t.Blue
	case RoleRed:
		return t.Red
	case RolePublic:
		return t.Public
	}
	return NetworkSpec{}
}

// networkRef returns a pointer to the spec for role, or nil.
func (t *Topology) networkRef(role Role) *NetworkSpec {
	switch role {
	case RoleBlue:
		return &t.Blue
	case RoleRed:
		return &t.Red
	case RolePublic:
		return &t.Public
	}
	return nil
}

// Provisioning tunes how the run executes.
type Provisioning struct {
	// Parallelism bounds concurrent network and instance work. 1 runs every
	// call in order.
	Parallelism int `yaml:"parallelism"`

	// ReuseSubnets looks subnets up by name before creating them.
	ReuseSubnets bool `yaml:"reuse_subnets"`

	// GenerateKeypair creates the key locally and uploads only the public
	// half instead of letting the control plane generate it.
	GenerateKeypair bool `yaml:"generate_keypair"`
}

// Output lists the files a run writes.
type Output struct {
	KeyFile     string `yaml:"key_file"`
	ExportFile  string `yaml:"export_file"`
	TraceFile   string `yaml:"trace_file"`
	MetricsFile string `yaml:"metrics_file"`
}
