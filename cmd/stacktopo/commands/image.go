package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stacktopo/cmd/stacktopo/handlers"
)

// Image returns the command group for appliance conversions.
func Image() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Convert appliances into Docker images or Vagrant boxes",
	}

	cmd.AddCommand(imageDocker())
	cmd.AddCommand(imageVagrant())
	return cmd
}

func bindImageFlags(cmd *cobra.Command, opts *handlers.ImageOptions) {
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Working directory (default: current directory)")
}

func imageDocker() *cobra.Command {
	var opts handlers.ImageOptions

	cmd := &cobra.Command{
		Use:   "docker <appliance> <name>",
		Short: "Import the root filesystem of an OVA appliance as a Docker image",
		Long: `Extract an OVA appliance, convert its disk to raw, mount the largest
partition read-only and import it with docker import.

Requires tar, qemu-img, parted, mount and docker. mount needs root; sudo is
used unless --no-sudo is given.

Example:
  stacktopo image docker ubuntu.ova ubuntu`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ImageDocker(cmd.Context(), args[0], args[1], opts)
		},
	}

	bindImageFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Image tag (default: 1.0)")
	cmd.Flags().StringVar(&opts.MountDir, "mount-dir", "", "Loop-mount directory (default: mnt)")
	cmd.Flags().BoolVar(&opts.NoSudo, "no-sudo", false, "Run mount and umount without sudo")
	return cmd
}

func imageVagrant() *cobra.Command {
	var opts handlers.ImageOptions

	cmd := &cobra.Command{
		Use:   "vagrant <vm> <box>",
		Short: "Package a VirtualBox VM as a Vagrant box",
		Long: `Package a registered VirtualBox VM with vagrant package, add the box
and write a Vagrantfile for it.

Example:
  stacktopo image vagrant my-vm mybox`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ImageVagrant(cmd.Context(), args[0], args[1], opts)
		},
	}

	bindImageFlags(cmd, &opts)
	return cmd
}
