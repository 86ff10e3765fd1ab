package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
	"github.com/imamik/stacktopo/internal/config"
)

// Init returns the command for interactive configuration.
//
// Optional flags:
//
//	--output, -o: Output file path (default: stacktopo.yaml)
//	--advanced: Also ask for network names and ranges
//	--full: Write every setting, not only the ones that differ from defaults
func Init() *cobra.Command {
	var outputPath string
	var advanced, full bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create a stacktopo configuration file through an interactive wizard.

Every question is pre-filled with the value for a stock DevStack, so
pressing enter throughout yields a working configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, full)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVar(&advanced, "advanced", false, "Also ask for network names and ranges")
	cmd.Flags().BoolVar(&full, "full", false, "Write every setting, including defaults")

	return cmd
}
