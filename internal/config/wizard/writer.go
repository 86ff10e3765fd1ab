package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/stacktopo/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only values that differ from the defaults are
// written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput, cfg.ControlPlane.Password == ""))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// MinimalConfig mirrors config.Config with every section optional.
type MinimalConfig struct {
	ControlPlane MinimalControlPlane  `yaml:"control_plane"`
	Topology     *MinimalTopology     `yaml:"topology,omitempty"`
	Provisioning *MinimalProvisioning `yaml:"provisioning,omitempty"`
}

// MinimalControlPlane always carries the address and login.
type MinimalControlPlane struct {
	Scheme      string `yaml:"scheme"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	ProjectName string `yaml:"project_name"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password,omitempty"`
}

// MinimalTopology carries customised names only.
type MinimalTopology struct {
	Blue   *MinimalNetwork `yaml:"blue,omitempty"`
	Red    *MinimalNetwork `yaml:"red,omitempty"`
	Public *MinimalNetwork `yaml:"public,omitempty"`
	Image  string          `yaml:"image,omitempty"`
	Flavor string          `yaml:"flavor,omitempty"`
}

// MinimalNetwork carries a renamed network or a changed range.
type MinimalNetwork struct {
	Name string `yaml:"name,omitempty"`
	CIDR string `yaml:"cidr,omitempty"`
}

// MinimalProvisioning carries non-default run settings.
type MinimalProvisioning struct {
	Parallelism     int  `yaml:"parallelism,omitempty"`
	ReuseSubnets    bool `yaml:"reuse_subnets,omitempty"`
	GenerateKeypair bool `yaml:"generate_keypair,omitempty"`
}

func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	def := config.Default()
	cp := cfg.ControlPlane

	minCfg := &MinimalConfig{
		ControlPlane: MinimalControlPlane{
			Scheme:      cp.Scheme,
			Host:        cp.Host,
			Port:        cp.Port,
			ProjectName: cp.ProjectName,
			Username:    cp.Username,
			Password:    cp.Password,
		},
	}

	topo := &MinimalTopology{
		Blue:   minimalNetwork(cfg.Topology.Blue, def.Topology.Blue),
		Red:    minimalNetwork(cfg.Topology.Red, def.Topology.Red),
		Public: minimalNetwork(cfg.Topology.Public, def.Topology.Public),
	}
	if cfg.Topology.Image != def.Topology.Image {
		topo.Image = cfg.Topology.Image
	}
	if cfg.Topology.Flavor != def.Topology.Flavor {
		topo.Flavor = cfg.Topology.Flavor
	}
	if *topo != (MinimalTopology{}) {
		minCfg.Topology = topo
	}

	prov := &MinimalProvisioning{
		ReuseSubnets:    cfg.Provisioning.ReuseSubnets,
		GenerateKeypair: cfg.Provisioning.GenerateKeypair,
	}
	if cfg.Provisioning.Parallelism != def.Provisioning.Parallelism {
		prov.Parallelism = cfg.Provisioning.Parallelism
	}
	if *prov != (MinimalProvisioning{}) {
		minCfg.Provisioning = prov
	}

	return minCfg
}

func minimalNetwork(spec, def config.NetworkSpec) *MinimalNetwork {
	var n MinimalNetwork
	if spec.Name != def.Name {
		n.Name = spec.Name
	}
	if spec.CIDR != def.CIDR {
		n.CIDR = spec.CIDR
	}
	if n == (MinimalNetwork{}) {
		return nil
	}
	return &n
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput, passwordFromEnv bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	env := ""
	if passwordFromEnv {
		env = `#
# Required environment variable:
#   OS_PASSWORD - Password of the configured user
`
	}
	return fmt.Sprintf(`# stacktopo configuration
# Generated by: stacktopo init
# Generated at: %s
# Output mode: %s%s
%s#
# Usage:
#   stacktopo create -c %s
`, time.Now().Format(time.RFC3339), mode, note, env, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
