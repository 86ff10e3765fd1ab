package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate checks the configuration for errors that would make a run fail
// before its first request. It returns warnings for conditions the run
// tolerates, such as overlapping subnet ranges.
func (c *Config) Validate() (warnings []string, err error) {
	var errs []error

	if err := c.validateControlPlane(); err != nil {
		errs = append(errs, fmt.Errorf("control plane validation failed: %w", err))
	}

	nets, err := c.validateTopology()
	if err != nil {
		errs = append(errs, fmt.Errorf("topology validation failed: %w", err))
	}

	if c.Provisioning.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("provisioning.parallelism must be >= 1, got %d", c.Provisioning.Parallelism))
	}

	if c.Output.KeyFile == "" {
		errs = append(errs, errors.New("output.key_file is required"))
	}

	warnings = overlapWarnings(nets)

	return warnings, errors.Join(errs...)
}

func (c *Config) validateControlPlane() error {
	cp := c.ControlPlane
	switch {
	case cp.Host == "":
		return errors.New("host is required")
	case cp.Port < 1 || cp.Port > 65535:
		return fmt.Errorf("port must be between 1 and 65535, got %d", cp.Port)
	case cp.Scheme != "http" && cp.Scheme != "https":
		return fmt.Errorf("scheme must be http or https, got %q", cp.Scheme)
	case cp.ProjectName == "":
		return errors.New("project_name is required")
	case cp.Username == "":
		return errors.New("username is required")
	case cp.Password == "":
		return errors.New("password is required")
	case cp.RateLimit < 0:
		return fmt.Errorf("rate_limit must be >= 0, got %v", cp.RateLimit)
	}
	if _, err := cp.Resolve(); err != nil {
		return err
	}
	return nil
}

type namedNet struct {
	role Role
	net  *net.IPNet
}

func (c *Config) validateTopology() ([]namedNet, error) {
	t := c.Topology
	seen := make(map[string]Role)
	var nets []namedNet

	for _, role := range Roles() {
		spec := t.Network(role)
		if spec.Name == "" {
			return nil, fmt.Errorf("%s network name is required", role)
		}
		if other, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("%s and %s networks share the name %q", other, role, spec.Name)
		}
		seen[spec.Name] = role

		if spec.Subnet == "" {
			return nil, fmt.Errorf("%s subnet name is required", role)
		}
		if spec.Instance == "" {
			return nil, fmt.Errorf("%s instance name is required", role)
		}
		_, ipnet, err := net.ParseCIDR(spec.CIDR)
		if err != nil {
			return nil, fmt.Errorf("%s subnet CIDR %q is invalid: %w", role, spec.CIDR, err)
		}
		nets = append(nets, namedNet{role: role, net: ipnet})
	}

	for field, v := range map[string]string{
		"router":         t.Router,
		"image":          t.Image,
		"flavor":         t.Flavor,
		"security_group": t.SecurityGroup,
		"keypair":        t.Keypair,
	} {
		if v == "" {
			return nil, fmt.Errorf("topology.%s is required", field)
		}
	}

	return nets, nil
}

func overlapWarnings(nets []namedNet) []string {
	var warnings []string
	for i := 0; i < len(nets); i++ {
		for j := i + 1; j < len(nets); j++ {
			a, b := nets[i], nets[j]
			if a.net.Contains(b.net.IP) || b.net.Contains(a.net.IP) {
				warnings = append(warnings, fmt.Sprintf("%s subnet %s overlaps %s subnet %s", a.role, a.net, b.role, b.net))
			}
		}
	}
	return warnings
}
