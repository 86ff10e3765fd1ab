package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// BaseURL returns scheme://host:port.
func (c *ControlPlane) BaseURL() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	return scheme + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolvedEndpoints holds absolute service URLs without trailing slashes.
type ResolvedEndpoints struct {
	Identity string
	Network  string
	Compute  string
	Image    string
}

// Resolve turns the configured endpoint paths into absolute URLs.
func (c *ControlPlane) Resolve() (ResolvedEndpoints, error) {
	base := c.BaseURL()
	var out ResolvedEndpoints
	for _, e := range []struct {
		name string
		in   string
		out  *string
	}{
		{"identity", c.Endpoints.Identity, &out.Identity},
		{"network", c.Endpoints.Network, &out.Network},
		{"compute", c.Endpoints.Compute, &out.Compute},
		{"image", c.Endpoints.Image, &out.Image},
	} {
		resolved, err := resolveEndpoint(base, e.in)
		if err != nil {
			return ResolvedEndpoints{}, fmt.Errorf("%s endpoint: %w", e.name, err)
		}
		*e.out = resolved
	}
	return out, nil
}

func resolveEndpoint(base, endpoint string) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", fmt.Errorf("invalid URL %q: %w", endpoint, err)
		}
		if u.Host == "" {
			return "", fmt.Errorf("URL %q has no host", endpoint)
		}
		return strings.TrimRight(endpoint, "/"), nil
	}
	return base + "/" + strings.Trim(endpoint, "/"), nil
}
