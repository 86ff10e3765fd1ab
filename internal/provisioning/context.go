package provisioning

import (
	"context"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/util/keyfile"
	"github.com/imamik/stacktopo/internal/util/logging"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    openstack.InfrastructureManager
	Observer Observer
	Timeouts *config.Timeouts
	Keys     KeyWriter
}

// NewContext creates a new provisioning context. The observer logs through
// the logger carried by ctx, if any.
func NewContext(ctx context.Context, cfg *config.Config, infra openstack.InfrastructureManager) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		Observer: NewLogObserver(logging.FromContext(ctx)),
		Timeouts: config.LoadTimeouts(),
		Keys:     KeyWriterFunc(keyfile.Save),
	}
}
