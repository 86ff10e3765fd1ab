package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewProvisioningContext builds a provisioning context with test timeouts,
// a recording observer and an in-memory key writer.
func NewProvisioningContext(t *testing.T, cfg *config.Config, infra openstack.InfrastructureManager) (*provisioning.Context, *RecordingObserver, *MemoryKeyWriter) {
	t.Helper()
	obs := NewRecordingObserver()
	keys := NewMemoryKeyWriter()

	ctx := provisioning.NewContext(TestContext(t), cfg, infra)
	ctx.Observer = obs
	ctx.Keys = keys
	ctx.Timeouts = config.TestTimeouts()
	return ctx, obs, keys
}
