package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
)

// Export returns the command that writes the live networks, servers and
// routers as JSON.
func Export() *cobra.Command {
	var flags connectedFlags
	var output string
	var store handlers.S3Options

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export networks, servers and routers as JSON",
		Long: `List networks, servers and routers on the control plane and write them
to a JSON document with the same shape create writes.

Examples:
  stacktopo export -o inventory.json

  # Also upload to an S3-compatible bucket
  stacktopo export --s3-bucket exports --s3-endpoint http://localhost:9000 --s3-path-style`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Export(cmd.Context(), handlers.ExportOptions{
				Load:   flags.loadOptions(cmd, nil),
				Output: output,
				S3:     store,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: resultat.json)")
	cmd.Flags().StringVar(&store.Bucket, "s3-bucket", "", "Upload the export to this bucket")
	cmd.Flags().StringVar(&store.Prefix, "s3-prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&store.Endpoint, "s3-endpoint", "", "S3 endpoint URL (default: AWS)")
	cmd.Flags().StringVar(&store.Region, "s3-region", "us-east-1", "S3 region")
	cmd.Flags().StringVar(&store.AccessKey, "s3-access-key", "", "S3 access key (default: AWS credential chain)")
	cmd.Flags().StringVar(&store.SecretKey, "s3-secret-key", "", "S3 secret key")
	cmd.Flags().BoolVar(&store.PathStyle, "s3-path-style", false, "Use path-style addressing (MinIO, Ceph)")

	return cmd
}
