package openstack

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/imamik/stacktopo/internal/util/retry"
)

// ServerCreateOpts holds all parameters for booting a server.
type ServerCreateOpts struct {
	Name      string
	ImageID   string
	FlavorID  string
	NetworkID string
	KeyName   string
	Metadata  map[string]string
}

type serverNetwork struct {
	UUID string `json:"uuid"`
}

type serverCreateParams struct {
	Name      string            `json:"name"`
	ImageRef  string            `json:"imageRef"`
	FlavorRef string            `json:"flavorRef"`
	Networks  []serverNetwork   `json:"networks"`
	KeyName   string            `json:"key_name,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// CreateServer boots a server attached to a single network. The returned
// server is usually still in BUILD state.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error) {
	return createTyped[Server](ctx, c, KindServer, serverCreateParams{
		Name:      opts.Name,
		ImageRef:  opts.ImageID,
		FlavorRef: opts.FlavorID,
		Networks:  []serverNetwork{{UUID: opts.NetworkID}},
		KeyName:   opts.KeyName,
		Metadata:  opts.Metadata,
	})
}

func (c *RealClient) GetServer(ctx context.Context, id string) (*Server, error) {
	res, err := c.Get(ctx, KindServer, id)
	if err != nil {
		return nil, err
	}
	return decodeAs[Server](res)
}

// GetServerByName returns the first server named name, or nil. Server names
// are not unique, so the match may be an unrelated instance.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*Server, error) {
	return findTyped[Server](c, KindServer)(ctx, name)
}

func (c *RealClient) ListServers(ctx context.Context) ([]Server, error) {
	return listTyped[Server](ctx, c, KindServer)
}

// WaitForServer polls the server until it is ACTIVE. ERROR status stops the
// wait with ErrServerFailed; running out of time returns ErrServerNotReady.
// A failed poll stops the wait with that failure.
func (c *RealClient) WaitForServer(ctx context.Context, id string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerActive)
	defer cancel()

	var last *Server
	err := retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		srv, err := c.GetServer(ctx, id)
		if err != nil {
			// Requests cut short by the wait's own deadline or cancellation
			// are reported by Poll.
			if ctx.Err() != nil {
				return false, nil
			}
			return false, retry.Fatal(err)
		}
		last = srv
		switch srv.Status {
		case ServerStatusActive:
			return true, nil
		case ServerStatusError:
			reason := "no fault reported"
			if srv.Fault != nil {
				reason = srv.Fault.Message
			}
			return false, retry.Fatal(fmt.Errorf("%w: %s (%s)", ErrServerFailed, srv.Name, reason))
		}
		return false, nil
	},
		retry.WithInitialDelay(c.timeouts.PollInterval),
		retry.WithMaxDelay(c.timeouts.PollMaxInterval),
		retry.WithMultiplier(c.timeouts.PollMultiplier),
	)

	if errors.Is(err, retry.ErrPollTimeout) {
		status := "unknown"
		if last != nil {
			status = last.Status
		}
		return last, fmt.Errorf("%w: server %s last status %s: %w", ErrServerNotReady, id, status, err)
	}
	if err != nil {
		return last, err
	}
	return last, nil
}

// AddFloatingIPToServer binds a floating address to a server.
func (c *RealClient) AddFloatingIPToServer(ctx context.Context, serverID, address string) error {
	_, err := c.Action(ctx, KindServer, serverID, "action", http.MethodPost, map[string]any{
		"addFloatingIp": map[string]string{"address": address},
	})
	return err
}

// AddSecurityGroupToServer attaches a security group to all ports of a
// server. Compute addresses groups by name here.
func (c *RealClient) AddSecurityGroupToServer(ctx context.Context, serverID, groupName string) error {
	_, err := c.Action(ctx, KindServer, serverID, "action", http.MethodPost, map[string]any{
		"addSecurityGroup": map[string]string{"name": groupName},
	})
	return err
}

// AddKeypairToServer records the keypair on a running server. Compute only
// injects keys at boot, so the association is stored as the key_name
// metadata item.
func (c *RealClient) AddKeypairToServer(ctx context.Context, serverID, keypairName string) error {
	_, err := c.Action(ctx, KindServer, serverID, "metadata", http.MethodPost, map[string]any{
		"metadata": map[string]string{"key_name": keypairName},
	})
	return err
}
