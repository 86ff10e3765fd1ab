package wizard

import (
	"strconv"
	"strings"

	"github.com/imamik/stacktopo/internal/config"
)

// BuildConfig creates a Config from the wizard result. Names derived from a
// renamed network, such as its subnet and instance, follow the new name.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := config.Default()

	cp := &cfg.ControlPlane
	cp.Scheme = result.Scheme
	cp.Host = strings.TrimSpace(result.Host)
	if port, err := strconv.Atoi(strings.TrimSpace(result.Port)); err == nil {
		cp.Port = port
	}
	cp.ProjectName = result.ProjectName
	cp.Username = result.Username
	cp.Password = ""
	if result.StorePassword {
		cp.Password = result.Password
	}

	cfg.Topology.Image = result.Image
	cfg.Topology.Flavor = result.Flavor

	if result.Parallelism > 0 {
		cfg.Provisioning.Parallelism = result.Parallelism
	}
	cfg.Provisioning.GenerateKeypair = result.GenerateKeypair
	cfg.Provisioning.ReuseSubnets = result.ReuseSubnets

	if len(result.Networks) > 0 {
		for _, role := range config.Roles() {
			answer, ok := result.Networks[role]
			if !ok {
				continue
			}
			spec := config.NetworkSpec{Name: answer.Name, CIDR: answer.CIDR}
			switch role {
			case config.RoleBlue:
				cfg.Topology.Blue = spec
			case config.RoleRed:
				cfg.Topology.Red = spec
			case config.RolePublic:
				cfg.Topology.Public = spec
			}
		}
		cfg.FillDerived()
	}

	return cfg
}
