package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
	"github.com/imamik/stacktopo/internal/config"
)

// topologyFlags override resource names and ranges.
type topologyFlags struct {
	networks      map[config.Role]*config.NetworkSpec
	router        string
	image         string
	flavor        string
	securityGroup string
	keypair       string
}

func newTopologyFlags() *topologyFlags {
	t := &topologyFlags{networks: map[config.Role]*config.NetworkSpec{}}
	for _, role := range config.Roles() {
		t.networks[role] = &config.NetworkSpec{}
	}
	return t
}

func (t *topologyFlags) bind(fs *pflag.FlagSet) {
	for _, role := range config.Roles() {
		spec := t.networks[role]
		r := string(role)
		fs.StringVar(&spec.Name, r+"-network", "", "Name of the "+r+" network (default: "+r+")")
		fs.StringVar(&spec.Subnet, r+"-subnet", "", "Name of the "+r+" subnet (default: <network>_subnet)")
		fs.StringVar(&spec.CIDR, r+"-cidr", "", "CIDR of the "+r+" subnet")
		fs.StringVar(&spec.Instance, r+"-instance", "", "Name of the instance on the "+r+" network")
	}
	fs.StringVar(&t.router, "router", "", "Router name (default: "+config.DefaultRouter+")")
	fs.StringVar(&t.image, "image", "", "Image of every instance (default: "+config.DefaultImage+")")
	fs.StringVar(&t.flavor, "flavor", "", "Flavor of every instance (default: "+config.DefaultFlavor+")")
	fs.StringVar(&t.securityGroup, "security-group", "", "Security group name (default: "+config.DefaultSecGroup+")")
	fs.StringVar(&t.keypair, "keypair", "", "Keypair name (default: "+config.DefaultKeypair+")")
}

func (t *topologyFlags) apply(cfg *config.Config) {
	for _, role := range config.Roles() {
		flags := t.networks[role]
		var spec *config.NetworkSpec
		switch role {
		case config.RoleBlue:
			spec = &cfg.Topology.Blue
		case config.RoleRed:
			spec = &cfg.Topology.Red
		case config.RolePublic:
			spec = &cfg.Topology.Public
		}
		setIf(&spec.Name, flags.Name)
		setIf(&spec.Subnet, flags.Subnet)
		setIf(&spec.CIDR, flags.CIDR)
		setIf(&spec.Instance, flags.Instance)
	}
	setIf(&cfg.Topology.Router, t.router)
	setIf(&cfg.Topology.Image, t.image)
	setIf(&cfg.Topology.Flavor, t.flavor)
	setIf(&cfg.Topology.SecurityGroup, t.securityGroup)
	setIf(&cfg.Topology.Keypair, t.keypair)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Create returns the command that provisions the topology.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: stacktopo.yaml if present)
//	--tui: Show the progress dashboard
//	--parallelism: Bound on concurrent network and instance work
//
// Environment variables:
//
//	OPENSTACK_IP, OPENSTACK_PORT, OS_PROJECT_NAME, OS_USERNAME, OS_PASSWORD
func Create() *cobra.Command {
	var flags connectedFlags
	topology := newTopologyFlags()
	var (
		parallelism  int
		reuseSubnets bool
		keypairFile  string
		output       string
		traceFile    string
		metricsFile  string
		useTUI       bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision networks, router, instances and access resources",
		Long: `Provision the three-network topology.

The run executes these steps in order and stops at the first failure:
  1. networks        blue, red and public (reused when they exist)
  2. subnets         one per network
  3. router          gateway on public, interfaces on blue and red
  4. instances       one per network, waits until ACTIVE
  5. floating-ip     allocated on public, attached to the blue instance
  6. security-group  ICMP and SSH ingress, attached to the blue instance
  7. keypair         private key saved locally, attached to the blue instance

Nothing is rolled back after a failure. The summary and the trace file list
every resource created so far.

Examples:
  # Provision against a local DevStack
  stacktopo create

  # Use a configuration file and rename a network
  stacktopo create -c lab.yaml --blue-network green

  # Show the dashboard and boot instances concurrently
  stacktopo create --tui --parallelism 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.CreateOptions{
				Load: flags.loadOptions(cmd, func(fs *pflag.FlagSet, cfg *config.Config) {
					topology.apply(cfg)
					if fs.Changed("parallelism") {
						cfg.Provisioning.Parallelism = parallelism
					}
					if fs.Changed("reuse-subnets") {
						cfg.Provisioning.ReuseSubnets = reuseSubnets
					}
					setIf(&cfg.Output.KeyFile, keypairFile)
					setIf(&cfg.Output.ExportFile, output)
					setIf(&cfg.Output.TraceFile, traceFile)
					setIf(&cfg.Output.MetricsFile, metricsFile)
				}),
				TUI: useTUI,
			}
			return handlers.Create(cmd.Context(), opts)
		},
	}

	flags.bind(cmd)
	topology.bind(cmd.Flags())
	cmd.Flags().IntVar(&parallelism, "parallelism", config.DefaultParallelism, "Concurrent network and instance operations (env STACKTOPO_PARALLELISM)")
	cmd.Flags().BoolVar(&reuseSubnets, "reuse-subnets", false, "Reuse subnets with the same name instead of creating new ones")
	cmd.Flags().StringVar(&keypairFile, "keypair-file", "", "Where to save the private key (default: <keypair>.pem)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Export file written after a successful run (default: "+config.DefaultExportFile+")")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "Write the run ledger to this JSON file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Show the interactive progress dashboard")

	return cmd
}
