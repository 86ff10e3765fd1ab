package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/export"
	"github.com/imamik/stacktopo/internal/platform/s3"
	"github.com/imamik/stacktopo/internal/util/logging"
)

// ExportOptions configures the export command.
type ExportOptions struct {
	Load LoadOptions
	// Output overrides output.export_file.
	Output string
	S3     S3Options
}

// S3Options selects the optional upload target. An empty Bucket disables
// the upload.
type S3Options struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// exportStore is the part of the S3 client the export needs.
type exportStore interface {
	export.Uploader
	EnsureBucket(ctx context.Context, bucket string) error
}

// Factory function variables for export.
var (
	// newExportStore creates the S3 client for uploads.
	newExportStore = func(ctx context.Context, opts S3Options) (exportStore, error) {
		return s3.NewClient(ctx, s3.Options{
			Endpoint:  opts.Endpoint,
			Region:    opts.Region,
			AccessKey: opts.AccessKey,
			SecretKey: opts.SecretKey,
			PathStyle: opts.PathStyle,
		})
	}
)

// Export lists networks, servers and routers on the control plane and
// writes them as the export document. Nothing is created.
func Export(ctx context.Context, opts ExportOptions) error {
	cfg, client, err := dial(ctx, opts.Load)
	if err != nil {
		return err
	}
	log := logging.FromContext(ctx)

	doc, err := export.Collect(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to collect resources: %w", err)
	}

	path := opts.Output
	if path == "" {
		path = cfg.Output.ExportFile
	}
	if path == "" {
		path = config.DefaultExportFile
	}
	if err := export.Write(path, doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	log.Info("Export written", "path", path, "networks", len(doc.Network), "servers", len(doc.Servers), "routers", len(doc.Router))
	fmt.Fprintf(stdout, "Export written to %s\n", path)

	if opts.S3.Bucket == "" {
		return nil
	}

	store, err := newExportStore(ctx, opts.S3)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := store.EnsureBucket(ctx, opts.S3.Bucket); err != nil {
		return err
	}
	key, err := export.Upload(ctx, store, opts.S3.Bucket, opts.S3.Prefix, config.DefaultExportFile, doc)
	if err != nil {
		return err
	}
	log.Info("Export uploaded", "bucket", opts.S3.Bucket, "key", key)
	fmt.Fprintf(stdout, "Export uploaded to s3://%s/%s\n", opts.S3.Bucket, key)
	return nil
}
