package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
	"github.com/imamik/stacktopo/internal/config"
)

// sourceFlags selects the configuration file and .env files.
type sourceFlags struct {
	configPath string
	envFiles   []string
}

func (s *sourceFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&s.configPath, "config", "c", "", "Path to configuration file (default: stacktopo.yaml if present)")
	fs.StringSliceVar(&s.envFiles, "env-file", nil, "Additional .env files, read after .env")
}

func (s *sourceFlags) envFileList() []string {
	return append([]string{handlers.DefaultEnvFile}, s.envFiles...)
}

// connectionFlags override the control-plane settings. Each applies only
// when set, so file and environment values survive.
type connectionFlags struct {
	scheme   string
	host     string
	port     int
	project  string
	username string
	password string
	domainID string
}

func (c *connectionFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.scheme, "scheme", config.DefaultScheme, "Control-plane URL scheme (env OPENSTACK_SCHEME)")
	fs.StringVar(&c.host, "host", config.DefaultHost, "Control-plane host (env OPENSTACK_IP)")
	fs.IntVar(&c.port, "port", config.DefaultPort, "Control-plane port (env OPENSTACK_PORT)")
	fs.StringVar(&c.project, "project", config.DefaultProject, "Project to scope the token to (env OS_PROJECT_NAME)")
	fs.StringVar(&c.username, "username", config.DefaultUsername, "User name (env OS_USERNAME)")
	fs.StringVar(&c.password, "password", "", "Password (env OS_PASSWORD)")
	fs.StringVar(&c.domainID, "domain-id", config.DefaultDomainID, "User and project domain id (env OS_USER_DOMAIN_ID, OS_PROJECT_DOMAIN_ID)")
}

func (c *connectionFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	cp := &cfg.ControlPlane
	if fs.Changed("scheme") {
		cp.Scheme = c.scheme
	}
	if fs.Changed("host") {
		cp.Host = c.host
	}
	if fs.Changed("port") {
		cp.Port = c.port
	}
	if fs.Changed("project") {
		cp.ProjectName = c.project
	}
	if fs.Changed("username") {
		cp.Username = c.username
	}
	if fs.Changed("password") {
		cp.Password = c.password
	}
	if fs.Changed("domain-id") {
		cp.UserDomainID = c.domainID
		cp.ProjectDomainID = c.domainID
	}
}

// connectedFlags binds the flags every command that talks to the control
// plane shares.
type connectedFlags struct {
	source     sourceFlags
	connection connectionFlags
}

func (f *connectedFlags) bind(cmd *cobra.Command) {
	f.source.bind(cmd.Flags())
	f.connection.bind(cmd.Flags())
}

// loadOptions returns the handler load options, applying only changed flags.
func (f *connectedFlags) loadOptions(cmd *cobra.Command, extra func(*pflag.FlagSet, *config.Config)) handlers.LoadOptions {
	fs := cmd.Flags()
	return handlers.LoadOptions{
		ConfigPath: f.source.configPath,
		EnvFiles:   f.source.envFileList(),
		Overrides: func(cfg *config.Config) {
			f.connection.apply(fs, cfg)
			if extra != nil {
				extra(fs, cfg)
			}
		},
	}
}
