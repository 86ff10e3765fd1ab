package openstack

import (
	"net/http"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"

	"github.com/imamik/stacktopo/internal/config"
)

// RealClient implements InfrastructureManager against a live control plane.
type RealClient struct {
	session   *Session
	endpoints config.ResolvedEndpoints
	timeouts  *config.Timeouts
	transport *transport
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.transport.httpClient = hc
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *RealClient) {
		c.transport.metrics = m
	}
}

// WithRateLimit caps outgoing requests at rps per second. Zero or negative
// values disable limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *RealClient) {
		if rps <= 0 {
			c.transport.limiter = nil
			return
		}
		c.transport.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger for request tracing at V(1).
func WithLogger(l logr.Logger) ClientOption {
	return func(c *RealClient) {
		c.transport.logger = l
	}
}

// NewRealClient creates a client bound to an authenticated session.
func NewRealClient(session *Session, endpoints config.ResolvedEndpoints, opts ...ClientOption) *RealClient {
	c := &RealClient{
		session:   session,
		endpoints: endpoints,
		timeouts:  config.LoadTimeouts(),
		transport: &transport{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport.httpClient == nil {
		c.transport.httpClient = &http.Client{Timeout: c.timeouts.Request}
	}
	return c
}

// Session returns the session the client was built with.
func (c *RealClient) Session() *Session {
	return c.session
}

func (c *RealClient) serviceURL(s Service) string {
	switch s {
	case ServiceIdentity:
		return c.endpoints.Identity
	case ServiceNetwork:
		return c.endpoints.Network
	case ServiceCompute:
		return c.endpoints.Compute
	case ServiceImage:
		return c.endpoints.Image
	}
	return ""
}

func (c *RealClient) collectionURL(spec kindSpec) string {
	return c.serviceURL(spec.service) + "/" + spec.collection
}
