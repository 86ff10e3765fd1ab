package orchestration

import (
	"context"
	"fmt"
	"net/http"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/util/logging"
)

// ConnectOptions tune the client built by Connect. Zero values use defaults.
type ConnectOptions struct {
	Timeouts   *config.Timeouts
	Metrics    *openstack.Metrics
	HTTPClient *http.Client
}

// Connect authenticates against the configured identity endpoint and returns
// a client bound to the issued token. Authentication is not retried; a
// failure here means no other request was sent.
func Connect(ctx context.Context, cfg *config.Config, opts ConnectOptions) (*openstack.RealClient, error) {
	endpoints, err := cfg.ControlPlane.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid control plane endpoints: %w", err)
	}

	timeouts := opts.Timeouts
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Request}
	}
	logger := logging.FromContext(ctx).WithName("openstack")

	auth := &openstack.Authenticator{
		IdentityURL: endpoints.Identity,
		HTTPClient:  httpClient,
		Metrics:     opts.Metrics,
		Logger:      logger,
	}
	cp := cfg.ControlPlane
	session, err := auth.Authenticate(ctx, openstack.Credentials{
		Username:        cp.Username,
		Password:        cp.Password,
		UserDomainID:    cp.UserDomainID,
		ProjectName:     cp.ProjectName,
		ProjectDomainID: cp.ProjectDomainID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate against %s: %w", endpoints.Identity, err)
	}

	return openstack.NewRealClient(session, endpoints,
		openstack.WithTimeouts(timeouts),
		openstack.WithHTTPClient(httpClient),
		openstack.WithMetrics(opts.Metrics),
		openstack.WithRateLimit(cp.RateLimit),
		openstack.WithLogger(logger),
	), nil
}
