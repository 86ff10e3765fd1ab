package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	testutil "github.com/imamik/stacktopo/internal/testing"
)

func runAll(ctx *provisioning.Context) error {
	return provisioning.RunPhases(ctx, NewProvisioner().Phases())
}

func TestProvisioner_Phases(t *testing.T) {
	t.Parallel()
	var names []string
	for _, p := range NewProvisioner().Phases() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{provisioning.StepNetworks, provisioning.StepSubnets, provisioning.StepRouter}, names)
}

func TestProvision_FreshTopology(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mock := fixture.SuccessfulProvisioning()
	ctx, obs, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	require.NoError(t, runAll(ctx))

	assert.Equal(t, []string{
		"create(network, blue)",
		"create(network, red)",
		"create(network, public)",
		"create(subnet, blue_subnet, net-blue, 10.0.0.0/24)",
		"create(subnet, red_subnet, net-red, 192.168.1.0/24)",
		"create(subnet, public_subnet, net-public, 172.24.4.0/24)",
		"create(router, router, net-public)",
		"attach(router, router-router, sub-blue_subnet)",
		"attach(router, router-router, sub-red_subnet)",
	}, fixture.Calls())

	assert.Equal(t, []string{"sub-blue_subnet", "sub-red_subnet"}, ctx.State.RouterInterfaces)
	assert.Equal(t, "router-router", ctx.State.Router.ID)
	assert.Len(t, obs.EventsOfType(provisioning.EventResourceAttached), 2)
	assert.Len(t, ctx.State.Created(), 7)
}

func TestProvisionNetworks_ReusesExisting(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	fixture.SuccessfulProvisioning()
	mock := fixture.WithExistingNetwork("blue", "net-blue-old")
	ctx, obs, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	require.NoError(t, runAll(ctx))

	assert.Zero(t, fixture.Count("create(network, blue)"))
	assert.Equal(t, 1, fixture.Count("create(subnet, blue_subnet, net-blue-old, 10.0.0.0/24)"))
	assert.Equal(t, "net-blue-old", ctx.State.Network(config.RoleBlue).ID)
	require.Len(t, obs.EventsOfType(provisioning.EventResourceExists), 1)

	recs := ctx.State.Records()
	assert.Equal(t, provisioning.ActionReused, recs[0].Action)
	assert.Equal(t, "blue", recs[0].Name)
}

func TestProvisionNetworks_Parallel(t *testing.T) {
	t.Parallel()
	var inflight, peak atomic.Int32
	mock := &openstack.MockClient{
		EnsureNetworkFunc: func(_ context.Context, name string) (*openstack.Network, bool, error) {
			n := inflight.Add(1)
			defer inflight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return &openstack.Network{ID: "net-" + name, Name: name}, false, nil
		},
	}
	cfg := testutil.NewConfigBuilder().WithParallelism(3).Build()
	ctx, _, _ := testutil.NewProvisioningContext(t, cfg, mock)

	require.NoError(t, NewProvisioner().ProvisionNetworks(ctx))

	assert.Len(t, ctx.State.Networks(), 3)
	assert.Greater(t, peak.Load(), int32(1))
}

func TestProvisionNetworks_Error(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mock := fixture.WithNetworkError(&openstack.TransportError{Method: "GET", URL: "http://x/networks", Err: errors.New("refused")})
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	err := runAll(ctx)

	var se *provisioning.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, provisioning.StepNetworks, se.Step)
	assert.Equal(t, openstack.KindNetwork, se.Kind)
	assert.Equal(t, "blue", se.Resource)
	assert.True(t, openstack.IsTransport(err))
	assert.Empty(t, ctx.State.Networks())
}

func TestProvisionSubnets_RejectionStopsChain(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mock := fixture.SuccessfulProvisioning()
	mock.CreateSubnetFunc = func(_ context.Context, opts openstack.SubnetCreateOpts) (*openstack.Subnet, error) {
		if opts.Name == "red_subnet" {
			return nil, &openstack.RejectionError{Kind: openstack.KindSubnet, APIError: &openstack.APIError{StatusCode: 400, Body: []byte(`{"NeutronError":{"message":"Invalid input"}}`)}}
		}
		return &openstack.Subnet{ID: "sub-" + opts.Name, Name: opts.Name}, nil
	}
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	err := runAll(ctx)

	require.Error(t, err)
	assert.True(t, openstack.IsRejection(err))
	assert.Equal(t, provisioning.StepSubnets, provisioning.FailedStep(err))
	assert.Contains(t, string(openstack.Payload(err)), "Invalid input")
	assert.NotNil(t, ctx.State.Subnet(config.RoleBlue))
	assert.Nil(t, ctx.State.Subnet(config.RolePublic))
	assert.Nil(t, ctx.State.Router)
	assert.Len(t, ctx.State.Networks(), 3, "networks from the earlier step stay referenced")
}

func TestProvisionSubnets_ReuseByName(t *testing.T) {
	t.Parallel()
	var creates int
	mock := &openstack.MockClient{
		CreateSubnetFunc: func(_ context.Context, _ openstack.SubnetCreateOpts) (*openstack.Subnet, error) {
			creates++
			return &openstack.Subnet{ID: "new"}, nil
		},
		EnsureSubnetFunc: func(_ context.Context, opts openstack.SubnetCreateOpts) (*openstack.Subnet, bool, error) {
			return &openstack.Subnet{ID: "old-" + opts.Name, Name: opts.Name}, true, nil
		},
	}
	cfg := testutil.NewConfigBuilder().WithReuseSubnets(true).Build()
	ctx, _, _ := testutil.NewProvisioningContext(t, cfg, mock)

	p := NewProvisioner()
	require.NoError(t, p.ProvisionNetworks(ctx))
	require.NoError(t, p.ProvisionSubnets(ctx))

	assert.Zero(t, creates)
	assert.Equal(t, "old-red_subnet", ctx.State.Subnet(config.RoleRed).ID)
	for _, r := range ctx.State.Records() {
		if r.Kind == openstack.KindSubnet {
			assert.Equal(t, provisioning.ActionReused, r.Action)
		}
	}
}

func TestProvisionSubnets_RequiresNetworks(t *testing.T) {
	t.Parallel()
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), &openstack.MockClient{})

	err := NewProvisioner().ProvisionSubnets(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `network "blue" has not been provisioned`)
}

func TestProvisionRouter_ReuseSkipsAttach(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	fixture.SuccessfulProvisioning()
	mock := fixture.WithExistingRouter("router", "router-old")
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	require.NoError(t, runAll(ctx))

	for _, c := range fixture.Calls() {
		assert.NotContains(t, c, "router")
	}
	assert.Equal(t, "router-old", ctx.State.Router.ID)
	assert.Empty(t, ctx.State.RouterInterfaces)
}

func TestProvisionRouter_AttachFailure(t *testing.T) {
	t.Parallel()
	fixture := testutil.NewInfraFixture()
	mock := fixture.SuccessfulProvisioning()
	mock.AddRouterInterfaceFunc = func(_ context.Context, _, subnetID string) error {
		if subnetID == "sub-red_subnet" {
			return &openstack.APIError{Method: "PUT", StatusCode: 409}
		}
		return nil
	}
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), mock)

	err := runAll(ctx)

	require.Error(t, err)
	assert.Equal(t, 409, openstack.StatusCode(err))
	assert.Equal(t, []string{"sub-blue_subnet"}, ctx.State.RouterInterfaces)
	assert.NotNil(t, ctx.State.Router, "router stays referenced after a failed attach")
}

func TestProvisionRouter_RequiresPublicNetwork(t *testing.T) {
	t.Parallel()
	ctx, _, _ := testutil.NewProvisioningContext(t, testutil.NewConfigBuilder().Build(), &openstack.MockClient{})

	err := NewProvisioner().ProvisionRouter(ctx)

	assert.Equal(t, provisioning.StepRouter, provisioning.FailedStep(err))
}
