// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/orchestration"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/util/logging"
)

// DefaultEnvFile is read on every command when present.
const DefaultEnvFile = ".env"

// LoadOptions selects the configuration sources of a command.
type LoadOptions struct {
	// ConfigPath is the YAML file. Empty means stacktopo.yaml, optional.
	ConfigPath string
	// EnvFiles are .env files layered under the process environment.
	EnvFiles []string
	// Overrides applies CLI flags on top of file and environment.
	Overrides func(*config.Config)
}

// Client is what the handlers need from an authenticated connection.
type Client interface {
	openstack.InfrastructureManager
	Session() *openstack.Session
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig reads configuration from all sources.
	loadConfig = config.Load

	// loadTimeouts reads timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// connect authenticates and returns a control-plane client.
	connect = func(ctx context.Context, cfg *config.Config, opts orchestration.ConnectOptions) (Client, error) {
		return orchestration.Connect(ctx, cfg, opts)
	}

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// loadValidConfig loads the configuration and rejects it when invalid.
// Warnings are logged and do not stop the command.
func loadValidConfig(ctx context.Context, opts LoadOptions) (*config.Config, error) {
	path := opts.ConfigPath
	required := path != ""
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{DefaultEnvFile}
	}

	cfg, err := loadConfig(config.LoadOptions{
		Path:      path,
		Required:  required,
		DotEnv:    envFiles,
		Overrides: opts.Overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logging.FromContext(ctx)
	for _, w := range warnings {
		log.Info("Configuration warning", "warning", w)
	}
	return cfg, nil
}

// dial loads the configuration and connects with environment timeouts.
func dial(ctx context.Context, opts LoadOptions) (*config.Config, Client, error) {
	cfg, err := loadValidConfig(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	client, err := connect(ctx, cfg, orchestration.ConnectOptions{Timeouts: loadTimeouts()})
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}
