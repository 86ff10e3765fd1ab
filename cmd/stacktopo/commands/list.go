package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
)

// List returns the command group that prints control-plane collections.
func List() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources on the control plane",
		Long:  "List one resource collection: " + strings.Join(handlers.ListKinds, ", ") + ".",
	}

	for _, kind := range handlers.ListKinds {
		cmd.AddCommand(listKind(kind))
	}
	return cmd
}

func listKind(kind string) *cobra.Command {
	var flags connectedFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   kind,
		Short: "List " + kind,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), flags.loadOptions(cmd, nil), kind, asJSON)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the items as JSON")
	return cmd
}
