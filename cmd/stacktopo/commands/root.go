// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/internal/util/logging"
)

// Root returns the root command for the stacktopo CLI.
//
// The root command builds the logger from --verbose and --log-format and
// stores it in the command context for every subcommand.
func Root() *cobra.Command {
	var verbosity int
	var logFormat string

	cmd := &cobra.Command{
		Use:           "stacktopo",
		Short:         "Provision a three-network topology on OpenStack",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var development bool
			switch logFormat {
			case "console":
				development = true
			case "json":
			default:
				return fmt.Errorf("invalid --log-format %q (valid: console, json)", logFormat)
			}
			log, err := logging.New(logging.Options{Development: development, Verbosity: verbosity})
			if err != nil {
				return err
			}
			cmd.SetContext(logging.IntoContext(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console or json")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Create())
	cmd.AddCommand(Export())

	// Inspection and utility commands
	cmd.AddCommand(List())
	cmd.AddCommand(Token())
	cmd.AddCommand(Image())
	cmd.AddCommand(Version())

	return cmd
}
