package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string, advanced, full bool) error {
	if outputPath == "" {
		outputPath = config.DefaultConfigFile
	}
	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted; existing configuration kept.")
			return nil
		}
	}

	printWelcome(advanced)

	result, err := runWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)
	if err := writeConfig(cfg, outputPath, full); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome(advanced bool) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "stacktopo - three-network topology provisioner")
	fmt.Fprintln(stdout, "==============================================")
	fmt.Fprintln(stdout)
	if advanced {
		fmt.Fprintln(stdout, "Advanced mode: network names and ranges are asked as well.")
	} else {
		fmt.Fprintln(stdout, "Accept the defaults to target a stock DevStack installation.")
	}
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Topology Summary")
	fmt.Fprintln(stdout, "----------------")
	fmt.Fprintf(stdout, "  Control plane: %s\n", cfg.ControlPlane.BaseURL())
	fmt.Fprintf(stdout, "  Project:       %s\n", cfg.ControlPlane.ProjectName)
	for _, role := range config.Roles() {
		spec := cfg.Topology.Network(role)
		fmt.Fprintf(stdout, "  %-14s %s (%s), instance %s\n", string(role)+":", spec.Name, spec.CIDR, spec.Instance)
	}
	fmt.Fprintf(stdout, "  Image/flavor:  %s / %s\n", cfg.Topology.Image, cfg.Topology.Flavor)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	step := 1
	if cfg.ControlPlane.Password == "" {
		fmt.Fprintf(stdout, "  %d. Set the password:\n", step)
		fmt.Fprintln(stdout, "     export OS_PASSWORD=<password>")
		fmt.Fprintln(stdout)
		step++
	}
	fmt.Fprintf(stdout, "  %d. Provision the topology:\n", step)
	fmt.Fprintln(stdout, "     stacktopo create")
	fmt.Fprintln(stdout)
}
