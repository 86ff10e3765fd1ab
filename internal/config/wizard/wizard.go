package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Control plane
	Scheme string
	Host   string
	Port   string

	// Credentials
	ProjectName string
	Username    string
	Password    string

	// StorePassword writes the password into the file. Otherwise it is
	// expected in OS_PASSWORD.
	StorePassword bool

	// Topology
	Image  string
	Flavor string

	// Provisioning
	Parallelism     int
	GenerateKeypair bool
	ReuseSubnets    bool

	// Networks are only set in advanced mode.
	Networks map[config.Role]NetworkAnswer
}

// NetworkAnswer overrides one network's name and range.
type NetworkAnswer struct {
	Name string
	CIDR string
}

// defaults pre-fills every answer so that accepting each prompt yields the
// stock DevStack configuration.
func defaults() *WizardResult {
	return &WizardResult{
		Scheme:      config.DefaultScheme,
		Host:        config.DefaultHost,
		Port:        portString(config.DefaultPort),
		ProjectName: config.DefaultProject,
		Username:    config.DefaultUsername,
		Image:       config.DefaultImage,
		Flavor:      config.DefaultFlavor,
		Parallelism: config.DefaultParallelism,
	}
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, network names and ranges are asked for as well.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := defaults()

	if err := runControlPlaneGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("control plane: %w", err)
	}

	if err := runCredentialsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	if err := runTopologyGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	if err := runProvisioningGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("provisioning: %w", err)
	}

	if advanced {
		if err := runNetworksGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("networks: %w", err)
		}
	}

	return result, nil
}
