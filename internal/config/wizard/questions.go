package wizard

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/stacktopo/internal/config"
)

// nameRegex matches the resource names the control plane accepts without
// quoting surprises.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// runControlPlaneGroup prompts for where the control plane listens.
func runControlPlaneGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scheme").
				Options(ToOptions(SchemeOptions)...).
				Value(&result.Scheme),
			huh.NewInput().
				Title("Host").
				Description("Address of the machine running the OpenStack APIs").
				Placeholder(config.DefaultHost).
				Value(&result.Host).
				Validate(validateHost),
			huh.NewInput().
				Title("Port").
				Description("Port in front of the identity, network, compute and image paths").
				Placeholder(portString(config.DefaultPort)).
				Value(&result.Port).
				Validate(validatePort),
		).Title("Control Plane"),
	).RunWithContext(ctx)
}

// runCredentialsGroup prompts for the project-scoped login.
func runCredentialsGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project").
				Value(&result.ProjectName).
				Validate(validateRequired),
			huh.NewInput().
				Title("Username").
				Value(&result.Username).
				Validate(validateRequired),
			huh.NewInput().
				Title("Password").
				Description("Leave empty to read it from OS_PASSWORD at run time").
				EchoMode(huh.EchoModePassword).
				Value(&result.Password),
			huh.NewConfirm().
				Title("Store the password in the config file?").
				Description("The file is written with owner-only permissions").
				Value(&result.StorePassword),
		).Title("Credentials"),
	).RunWithContext(ctx)
}

// runTopologyGroup prompts for the boot image and flavor.
func runTopologyGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Image").
				Description("Boot image for all three instances").
				Options(ToOptions(ImageOptions)...).
				Value(&result.Image),
			huh.NewSelect[string]().
				Title("Flavor").
				Options(ToOptions(FlavorOptions)...).
				Value(&result.Flavor),
		).Title("Instances"),
	).RunWithContext(ctx)
}

// runProvisioningGroup prompts for how the run executes.
func runProvisioningGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Parallelism").
				Description("Networks and instances provisioned at once").
				Options(ParallelismOptions...).
				Value(&result.Parallelism),
			huh.NewConfirm().
				Title("Generate the keypair locally?").
				Description("Only the public key is uploaded. Otherwise the control plane generates it").
				Value(&result.GenerateKeypair),
			huh.NewConfirm().
				Title("Reuse subnets with the same name?").
				Value(&result.ReuseSubnets),
		).Title("Provisioning"),
	).RunWithContext(ctx)
}

// runNetworksGroup prompts for the name and range of each network.
func runNetworksGroup(ctx context.Context, result *WizardResult) error {
	defaults := config.Default()
	answers := make(map[config.Role]*NetworkAnswer, len(config.Roles()))
	var fields []huh.Field

	for _, role := range config.Roles() {
		spec := defaults.Topology.Network(role)
		answer := &NetworkAnswer{Name: spec.Name, CIDR: spec.CIDR}
		answers[role] = answer

		title := strings.ToUpper(string(role[:1])) + string(role[1:])
		fields = append(fields,
			huh.NewInput().
				Title(title+" network name").
				Value(&answer.Name).
				Validate(validateName),
			huh.NewInput().
				Title(title+" subnet CIDR").
				Value(&answer.CIDR).
				Validate(validateCIDR),
		)
	}

	if err := huh.NewForm(huh.NewGroup(fields...).Title("Networks")).RunWithContext(ctx); err != nil {
		return err
	}

	result.Networks = make(map[config.Role]NetworkAnswer, len(answers))
	for role, a := range answers {
		result.Networks[role] = *a
	}
	return nil
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return errHostRequired
	}
	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errNameRequired
	}
	return nil
}

func validateName(s string) error {
	if s == "" {
		return errNameRequired
	}
	if !nameRegex.MatchString(s) {
		return errNameInvalid
	}
	return nil
}

func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	if _, _, err := net.ParseCIDR(s); err != nil {
		return errCIDRInvalid
	}
	return nil
}
