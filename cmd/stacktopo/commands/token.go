package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
)

// Token returns the command that prints a project-scoped token.
func Token() *cobra.Command {
	var flags connectedFlags

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Authenticate and print the session token",
		Long: `Authenticate with the configured credentials and print the token to
stdout, for use with other clients:

  export OS_TOKEN=$(stacktopo token)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Token(cmd.Context(), flags.loadOptions(cmd, nil))
		},
	}

	flags.bind(cmd)
	return cmd
}
