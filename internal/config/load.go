package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path of the YAML file. Empty means DefaultConfigFile.
	Path string
	// Required fails the load when the file does not exist.
	Required bool
	// DotEnv lists .env files to read. Missing files are skipped.
	DotEnv []string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Overrides runs after file and environment, before derived names are
	// filled. CLI flags are applied here.
	Overrides func(*Config)
}

// Load builds a Config from defaults, the YAML file, .env files, the
// environment and overrides, in that order of increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	cfg := base()

	path := opts.Path
	if path == "" {
		path = DefaultConfigFile
	}
	if err := decodeFile(path, opts.Required, cfg); err != nil {
		return nil, err
	}

	lookup, err := envLookup(opts)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if opts.Overrides != nil {
		opts.Overrides(cfg)
	}
	cfg.FillDerived()

	return cfg, nil
}

func decodeFile(path string, required bool, cfg *Config) error {
	// #nosec G304 - path is chosen by the operator
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return nil
}

// envLookup layers .env values under the process environment. Variables
// already set in the environment win, as with godotenv.Load.
func envLookup(opts LoadOptions) (func(string) (string, bool), error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var files []string
	for _, f := range opts.DotEnv {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return lookup, nil
	}

	dotenv, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

type envBinding struct {
	name string
	set  func(*Config, string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

var envBindings = []envBinding{
	{"OPENSTACK_SCHEME", str(func(c *Config) *string { return &c.ControlPlane.Scheme })},
	{"OPENSTACK_IP", str(func(c *Config) *string { return &c.ControlPlane.Host })},
	{"OPENSTACK_PORT", func(c *Config, v string) error {
		port, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.ControlPlane.Port = port
		return nil
	}},
	{"OS_PROJECT_NAME", str(func(c *Config) *string { return &c.ControlPlane.ProjectName })},
	{"OS_USERNAME", str(func(c *Config) *string { return &c.ControlPlane.Username })},
	{"OS_PASSWORD", str(func(c *Config) *string { return &c.ControlPlane.Password })},
	{"OS_USER_DOMAIN_ID", str(func(c *Config) *string { return &c.ControlPlane.UserDomainID })},
	{"OS_PROJECT_DOMAIN_ID", str(func(c *Config) *string { return &c.ControlPlane.ProjectDomainID })},
	{"KEYSTONE_URL", str(func(c *Config) *string { return &c.ControlPlane.Endpoints.Identity })},
	{"NEUTRON_URL", str(func(c *Config) *string { return &c.ControlPlane.Endpoints.Network })},
	{"NOVA_URL", str(func(c *Config) *string { return &c.ControlPlane.Endpoints.Compute })},
	{"GLANCE_URL", str(func(c *Config) *string { return &c.ControlPlane.Endpoints.Image })},
	{"OPENSTACK_RATE_LIMIT", func(c *Config, v string) error {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.ControlPlane.RateLimit = rps
		return nil
	}},

	{"BLUE_NETWORK_NAME", str(func(c *Config) *string { return &c.Topology.Blue.Name })},
	{"BLUE_SUBNET_NAME", str(func(c *Config) *string { return &c.Topology.Blue.Subnet })},
	{"BLUE_SUBNET_CIDR", str(func(c *Config) *string { return &c.Topology.Blue.CIDR })},
	{"BLUE_VM1_NAME", str(func(c *Config) *string { return &c.Topology.Blue.Instance })},
	{"RED_NETWORK_NAME", str(func(c *Config) *string { return &c.Topology.Red.Name })},
	{"RED_SUBNET_NAME", str(func(c *Config) *string { return &c.Topology.Red.Subnet })},
	{"RED_SUBNET_CIDR", str(func(c *Config) *string { return &c.Topology.Red.CIDR })},
	{"RED_VM2_NAME", str(func(c *Config) *string { return &c.Topology.Red.Instance })},
	{"PUBLIC_NETWORK_NAME", str(func(c *Config) *string { return &c.Topology.Public.Name })},
	{"PUBLIC_SUBNET_NAME", str(func(c *Config) *string { return &c.Topology.Public.Subnet })},
	{"PUBLIC_SUBNET_CIDR", str(func(c *Config) *string { return &c.Topology.Public.CIDR })},
	{"PUBLIC_VM3_NAME", str(func(c *Config) *string { return &c.Topology.Public.Instance })},
	{"ROUTER_NAME", str(func(c *Config) *string { return &c.Topology.Router })},
	{"IMAGE_NAME", str(func(c *Config) *string { return &c.Topology.Image })},
	{"FLAVOR_NAME", str(func(c *Config) *string { return &c.Topology.Flavor })},
	{"SECURITY_GROUP_NAME", str(func(c *Config) *string { return &c.Topology.SecurityGroup })},
	{"KEYPAIR_NAME", str(func(c *Config) *string { return &c.Topology.Keypair })},

	{"STACKTOPO_PARALLELISM", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Provisioning.Parallelism = n
		return nil
	}},
	{"STACKTOPO_REUSE_SUBNETS", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Provisioning.ReuseSubnets = b
		return nil
	}},
	{"STACKTOPO_KEY_FILE", str(func(c *Config) *string { return &c.Output.KeyFile })},
	{"STACKTOPO_EXPORT_FILE", str(func(c *Config) *string { return &c.Output.ExportFile })},
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", b.name, err)
		}
	}
	return nil
}

// Save writes cfg as YAML to path with owner-only permissions, since the
// file carries the control-plane password.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
