package testing

import (
	"github.com/imamik/stacktopo/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder starting from the defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithControlPlane points the config at host:port over scheme.
func (b *ConfigBuilder) WithControlPlane(scheme, host string, port int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ControlPlane.Scheme = scheme
	newBuilder.cfg.ControlPlane.Host = host
	newBuilder.cfg.ControlPlane.Port = port
	return newBuilder
}

// WithCredentials sets the project, user and password.
func (b *ConfigBuilder) WithCredentials(project, username, password string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ControlPlane.ProjectName = project
	newBuilder.cfg.ControlPlane.Username = username
	newBuilder.cfg.ControlPlane.Password = password
	return newBuilder
}

// WithNetwork replaces the spec of one role.
func (b *ConfigBuilder) WithNetwork(role config.Role, spec config.NetworkSpec) *ConfigBuilder {
	newBuilder := b.clone()
	switch role {
	case config.RoleBlue:
		newBuilder.cfg.Topology.Blue = spec
	case config.RoleRed:
		newBuilder.cfg.Topology.Red = spec
	case config.RolePublic:
		newBuilder.cfg.Topology.Public = spec
	}
	return newBuilder
}

// WithRouter sets the router name.
func (b *ConfigBuilder) WithRouter(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Topology.Router = name
	return newBuilder
}

// WithParallelism sets the worker limit for independent branches.
func (b *ConfigBuilder) WithParallelism(n int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Provisioning.Parallelism = n
	return newBuilder
}

// WithReuseSubnets switches subnets to reuse-by-name.
func (b *ConfigBuilder) WithReuseSubnets(reuse bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Provisioning.ReuseSubnets = reuse
	return newBuilder
}

// WithGeneratedKeypair makes the keypair step generate the key locally.
func (b *ConfigBuilder) WithGeneratedKeypair(generate bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Provisioning.GenerateKeypair = generate
	return newBuilder
}

// WithKeyFile sets where the private key is written.
func (b *ConfigBuilder) WithKeyFile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Output.KeyFile = path
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg // copy
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}
