package wizard

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/imamik/stacktopo/internal/config"
)

// Option is one selectable answer.
type Option struct {
	Value       string
	Label       string
	Description string
}

// SchemeOptions are the supported control-plane URL schemes.
var SchemeOptions = []Option{
	{Value: "http", Label: "http", Description: "Plain HTTP (DevStack default)"},
	{Value: "https", Label: "https", Description: "TLS-terminated endpoints"},
}

// ImageOptions are boot images commonly present on DevStack installs.
var ImageOptions = []Option{
	{Value: config.DefaultImage, Label: config.DefaultImage, Description: "CirrOS test image (DevStack default)"},
	{Value: "cirros-0.6.2-x86_64-disk", Label: "cirros-0.6.2-x86_64-disk", Description: "Newer CirrOS test image"},
	{Value: "ubuntu-22.04", Label: "ubuntu-22.04", Description: "Ubuntu Jammy cloud image"},
}

// FlavorOptions are the stock Nova flavors.
var FlavorOptions = []Option{
	{Value: config.DefaultFlavor, Label: config.DefaultFlavor, Description: "1 vCPU, 512MB RAM, 1GB disk"},
	{Value: "m1.small", Label: "m1.small", Description: "1 vCPU, 2GB RAM, 20GB disk"},
	{Value: "m1.medium", Label: "m1.medium", Description: "2 vCPU, 4GB RAM, 40GB disk"},
	{Value: "ds512M", Label: "ds512M", Description: "1 vCPU, 512MB RAM, 5GB disk"},
}

// ParallelismOptions bound how many networks or instances are provisioned
// at once.
var ParallelismOptions = []huh.Option[int]{
	huh.NewOption("1 (sequential, same call order every run)", 1),
	huh.NewOption("2", 2),
	huh.NewOption("3 (one worker per network)", 3),
}

// ToOptions converts options to huh select options. Labels carry the
// description when there is one.
func ToOptions(opts []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		label := o.Label
		if o.Description != "" {
			label += " - " + o.Description
		}
		out[i] = huh.NewOption(label, o.Value)
	}
	return out
}

// IsValidOption reports whether value is one of opts.
func IsValidOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func portString(port int) string {
	return strconv.Itoa(port)
}
