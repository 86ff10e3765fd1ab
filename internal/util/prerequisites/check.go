// Package prerequisites checks that the external tools an operation shells
// out to are present on PATH before any work starts.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallHint tells the user where the tool usually comes from.
	InstallHint string
}

// DockerConversionTools returns the tools used to turn a VM appliance into a
// container image.
func DockerConversionTools() []Tool {
	return []Tool{
		{Name: "tar", Required: true, Description: "Unpacks the appliance archive", InstallHint: "coreutils/tar package"},
		{Name: "qemu-img", Required: true, Description: "Converts VMDK disks to raw images", InstallHint: "qemu-utils package"},
		{Name: "parted", Required: true, Description: "Reads the partition table of the raw image", InstallHint: "parted package"},
		{Name: "mount", Required: true, Description: "Mounts the root partition through a loop device", InstallHint: "util-linux package"},
		{Name: "umount", Required: true, Description: "Releases the loop mount", InstallHint: "util-linux package"},
		{Name: "docker", Required: true, Description: "Imports the root filesystem as an image", InstallHint: "https://docs.docker.com/engine/install/"},
	}
}

// VagrantConversionTools returns the tools used to package an appliance as a
// Vagrant box.
func VagrantConversionTools() []Tool {
	return []Tool{
		{Name: "VBoxManage", Required: true, Description: "Imports the appliance into VirtualBox", InstallHint: "https://www.virtualbox.org/wiki/Downloads"},
		{Name: "vagrant", Required: true, Description: "Packages and registers the box", InstallHint: "https://developer.hashicorp.com/vagrant/install"},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallHint))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// toolVersion returns the first line of the tool's version output, or an
// empty string.
func toolVersion(name string) string {
	for _, flag := range []string{"--version", "version", "-v"} {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		// #nosec G204 - name comes from the fixed tool lists above
		output, err := exec.CommandContext(ctx, name, flag).Output()
		cancel()
		if err == nil {
			line, _, _ := strings.Cut(string(output), "\n")
			return strings.TrimSpace(line)
		}
	}
	return ""
}
