package image

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/stacktopo/internal/util/logging"
	"github.com/imamik/stacktopo/internal/util/prerequisites"
)

const (
	// DefaultTag is the tag given to imported Docker images.
	DefaultTag = "1.0"

	// DefaultMountDir is where the root partition is mounted, relative to
	// the working directory.
	DefaultMountDir = "mnt"
)

// Converter drives the external tools of both conversions.
type Converter struct {
	runner   Runner
	check    func([]prerequisites.Tool) error
	sudo     bool
	mountDir string
}

// Option configures a Converter.
type Option func(*Converter)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Converter) { c.runner = r }
}

// WithSudo prefixes mount and umount with sudo.
func WithSudo(enabled bool) Option {
	return func(c *Converter) { c.sudo = enabled }
}

// WithMountDir overrides DefaultMountDir.
func WithMountDir(dir string) Option {
	return func(c *Converter) { c.mountDir = dir }
}

// WithPreflight replaces the PATH check run before each conversion.
// A nil check disables it.
func WithPreflight(check func([]prerequisites.Tool) error) Option {
	return func(c *Converter) { c.check = check }
}

// NewConverter returns a Converter that runs commands in dir.
func NewConverter(dir string, opts ...Option) *Converter {
	c := &Converter{
		runner:   ExecRunner{Dir: dir},
		sudo:     true,
		mountDir: DefaultMountDir,
		check: func(tools []prerequisites.Tool) error {
			return prerequisites.Check(tools).Error()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DockerOptions selects the appliance and the resulting image.
type DockerOptions struct {
	// Appliance is the OVA archive. The .ova suffix is optional.
	Appliance string
	// Name is the image repository name.
	Name string
	// Tag defaults to DefaultTag.
	Tag string
}

// DockerResult describes a finished Docker conversion.
type DockerResult struct {
	Image     string
	Archive   string
	Partition Partition
}

// ToDocker imports the root filesystem of an OVA appliance as a Docker image.
// The mount is always released once it succeeded, even when a later step
// fails.
func (c *Converter) ToDocker(ctx context.Context, opts DockerOptions) (_ *DockerResult, err error) {
	base := strings.TrimSuffix(opts.Appliance, ".ova")
	if base == "" {
		return nil, errors.New("appliance is required")
	}
	if opts.Name == "" {
		return nil, errors.New("image name is required")
	}
	tag := opts.Tag
	if tag == "" {
		tag = DefaultTag
	}
	tools := prerequisites.DockerConversionTools()
	if c.sudo {
		tools = append(tools, prerequisites.Tool{Name: "sudo", Required: true, Description: "Runs mount and umount", InstallHint: "sudo package"})
	}
	if err := c.preflight(tools); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx).WithName("image").WithValues("appliance", base+".ova")
	vmdk, raw := base+".vmdk", base+".raw"
	archive := opts.Name + ".tar.gz"
	ref := opts.Name + ":" + tag

	if _, err := c.run(ctx, log, "tar", "-xvf", base+".ova"); err != nil {
		return nil, fmt.Errorf("failed to unpack appliance: %w", err)
	}
	if _, err := c.run(ctx, log, "qemu-img", "convert", "-f", "vmdk", vmdk, "-O", "raw", raw); err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", vmdk, err)
	}

	table, err := c.run(ctx, log, "parted", "-s", raw, "unit", "b", "print")
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table of %s: %w", raw, err)
	}
	parts, err := ParsePartitions(string(table))
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table of %s: %w", raw, err)
	}
	root, ok := Largest(parts)
	if !ok {
		return nil, fmt.Errorf("no partitions found in %s", raw)
	}
	log.V(1).Info("Selected root partition", "number", root.Number, "offset", root.Start, "size", root.Size)

	if _, err := c.run(ctx, log, "mkdir", "-p", c.mountDir); err != nil {
		return nil, fmt.Errorf("failed to create mount point: %w", err)
	}
	mountArgs := []string{"-o", "loop,ro,offset=" + strconv.FormatInt(root.Start, 10), raw, c.mountDir}
	if _, err := c.privileged(ctx, log, "mount", mountArgs...); err != nil {
		return nil, fmt.Errorf("failed to mount partition %d: %w", root.Number, err)
	}
	defer func() {
		// A fresh context so that cancellation does not leave the loop device behind.
		if _, uerr := c.privileged(context.WithoutCancel(ctx), log, "umount", c.mountDir); uerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to unmount %s: %w", c.mountDir, uerr))
		}
	}()

	if _, err := c.run(ctx, log, "tar", "-C", c.mountDir, "-czf", archive, "."); err != nil {
		return nil, fmt.Errorf("failed to archive root filesystem: %w", err)
	}
	if _, err := c.run(ctx, log, "docker", "import", archive, ref); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", ref, err)
	}

	log.Info("Docker image imported", "image", ref)
	return &DockerResult{Image: ref, Archive: archive, Partition: root}, nil
}

// VagrantOptions selects the VirtualBox VM and the resulting box.
type VagrantOptions struct {
	// VM is the VirtualBox name or UUID of a registered VM.
	VM string
	// Box is the box name. The .box file is written to the working directory.
	Box string
}

// ToVagrant packages a registered VirtualBox VM as a Vagrant box, adds it to
// the local box list and writes a Vagrantfile for it in the working
// directory. It returns the path of the .box file.
func (c *Converter) ToVagrant(ctx context.Context, opts VagrantOptions) (string, error) {
	if opts.VM == "" {
		return "", errors.New("virtual machine is required")
	}
	if opts.Box == "" {
		return "", errors.New("box name is required")
	}
	if err := c.preflight(prerequisites.VagrantConversionTools()); err != nil {
		return "", err
	}

	log := logging.FromContext(ctx).WithName("image").WithValues("vm", opts.VM)
	boxFile := filepath.Base(opts.Box) + ".box"

	vms, err := c.run(ctx, log, "VBoxManage", "list", "vms")
	if err != nil {
		return "", fmt.Errorf("failed to list VirtualBox VMs: %w", err)
	}
	if !vmRegistered(string(vms), opts.VM) {
		return "", fmt.Errorf("virtual machine %q is not registered with VirtualBox", opts.VM)
	}

	if _, err := c.run(ctx, log, "vagrant", "package", "--base", opts.VM, "--output", boxFile); err != nil {
		return "", fmt.Errorf("failed to package %s: %w", opts.VM, err)
	}
	if _, err := c.run(ctx, log, "vagrant", "box", "add", opts.Box, boxFile); err != nil {
		return "", fmt.Errorf("failed to add box %s: %w", opts.Box, err)
	}
	if _, err := c.run(ctx, log, "vagrant", "init", opts.Box); err != nil {
		return "", fmt.Errorf("failed to initialise box %s: %w", opts.Box, err)
	}

	log.Info("Vagrant box added", "box", opts.Box, "file", boxFile)
	return boxFile, nil
}

// vmRegistered reports whether `VBoxManage list vms` output names vm, either
// by its quoted name or by its UUID.
func vmRegistered(output, vm string) bool {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, uuid, _ := strings.Cut(line, " ")
		if strings.Trim(name, `"`) == vm || strings.Trim(uuid, "{}") == strings.Trim(vm, "{}") {
			return true
		}
	}
	return false
}

func (c *Converter) preflight(tools []prerequisites.Tool) error {
	if c.check == nil {
		return nil
	}
	return c.check(tools)
}

func (c *Converter) privileged(ctx context.Context, log logr.Logger, name string, args ...string) ([]byte, error) {
	if c.sudo {
		return c.run(ctx, log, "sudo", append([]string{name}, args...)...)
	}
	return c.run(ctx, log, name, args...)
}

func (c *Converter) run(ctx context.Context, log logr.Logger, name string, args ...string) ([]byte, error) {
	log.V(1).Info("Running command", "command", name, "args", args)
	return c.runner.Run(ctx, name, args...)
}
