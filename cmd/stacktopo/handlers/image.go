package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/stacktopo/internal/image"
)

// ImageOptions configures both conversions.
type ImageOptions struct {
	// Dir is the working directory of the external tools.
	Dir string
	// NoSudo runs mount and umount directly.
	NoSudo bool
	// MountDir overrides the loop-mount directory.
	MountDir string
	// Tag overrides the Docker image tag.
	Tag string
}

// converter matches image.Converter.
type converter interface {
	ToDocker(ctx context.Context, opts image.DockerOptions) (*image.DockerResult, error)
	ToVagrant(ctx context.Context, opts image.VagrantOptions) (string, error)
}

// newConverter creates the image converter. Replaced in tests.
var newConverter = func(opts ImageOptions) converter {
	converterOpts := []image.Option{image.WithSudo(!opts.NoSudo)}
	if opts.MountDir != "" {
		converterOpts = append(converterOpts, image.WithMountDir(opts.MountDir))
	}
	return image.NewConverter(opts.Dir, converterOpts...)
}

// ImageDocker converts an OVA appliance into a Docker image.
func ImageDocker(ctx context.Context, appliance, name string, opts ImageOptions) error {
	result, err := newConverter(opts).ToDocker(ctx, image.DockerOptions{
		Appliance: appliance,
		Name:      name,
		Tag:       opts.Tag,
	})
	if err != nil {
		return fmt.Errorf("docker conversion failed: %w", err)
	}
	fmt.Fprintf(stdout, "Imported %s from partition %d (%s)\n", result.Image, result.Partition.Number, result.Archive)
	return nil
}

// ImageVagrant packages a registered VirtualBox VM as a Vagrant box.
func ImageVagrant(ctx context.Context, vm, box string, opts ImageOptions) error {
	file, err := newConverter(opts).ToVagrant(ctx, image.VagrantOptions{VM: vm, Box: box})
	if err != nil {
		return fmt.Errorf("vagrant conversion failed: %w", err)
	}
	fmt.Fprintf(stdout, "Packaged %s as box %s (%s)\n", vm, box, file)
	return nil
}
