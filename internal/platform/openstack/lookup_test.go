package openstack

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_UnwrapsEnvelopeAndSendsToken(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/network/v2.0/networks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		jsonResponse(w, http.StatusOK, map[string]any{
			"networks": []map[string]any{
				{"id": "net-1", "name": "blue"},
				{"id": "net-2", "name": "red"},
			},
		})
	})

	items, err := ts.realClient().List(context.Background(), KindNetwork)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "net-1", items[0].ID)
	assert.Equal(t, "red", items[1].Name)
	assert.Equal(t, KindNetwork, items[1].Kind)
	assert.Equal(t, "tok1", ts.recorded()[0].Token)
}

func TestList_NestedKeypairs(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/compute/v2.1/os-keypairs", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"keypairs": []map[string]any{
				{"keypair": map[string]any{"name": "keypair", "fingerprint": "aa:bb"}},
			},
		})
	})

	keys, err := ts.realClient().ListKeypairs(context.Background())

	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "keypair", keys[0].Name)
	assert.Equal(t, "aa:bb", keys[0].Fingerprint)
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transport bool
	}{
		{"non-200 status", http.StatusForbidden, `{"error":"forbidden"}`, false},
		{"malformed json", http.StatusOK, `{"networks": [`, true},
		{"missing envelope key", http.StatusOK, `{"items": []}`, true},
		{"envelope not an array", http.StatusOK, `{"networks": {}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.handleFunc("/network/v2.0/networks", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := ts.realClient().List(context.Background(), KindNetwork)

			require.Error(t, err)
			assert.Equal(t, tt.transport, IsTransport(err), "transport classification for %v", err)
			if !tt.transport {
				assert.Equal(t, tt.status, StatusCode(err))
				assert.Equal(t, tt.body, string(Payload(err)))
			}
		})
	}
}

func TestList_UnknownKind(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.realClient().List(context.Background(), Kind("volume"))
	assert.ErrorContains(t, err, "unknown resource kind")
	assert.Empty(t, ts.recorded())
}

func TestFindByName(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/compute/v2.1/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"servers": []map[string]any{
				{"id": "srv-1", "name": "blue_vm1"},
				{"id": "srv-2", "name": "blue_vm1"},
				{"id": "srv-3", "name": "red_vm2"},
			},
		})
	})
	client := ts.realClient()

	t.Run("first match wins", func(t *testing.T) {
		res, err := client.FindByName(context.Background(), KindServer, "blue_vm1")
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "srv-1", res.ID)
	})

	t.Run("absent is nil without error", func(t *testing.T) {
		res, err := client.FindByName(context.Background(), KindServer, "public_vm3")
		require.NoError(t, err)
		assert.Nil(t, res)
	})
}

func TestFindByName_EmptyCollection(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/network/v2.0/routers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"routers": []any{}})
	})

	router, err := ts.realClient().GetRouterByName(context.Background(), "router")

	require.NoError(t, err)
	assert.Nil(t, router)
}

func TestGetSubnetByName(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/network/v2.0/subnets", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"subnets": []map[string]any{
			{"id": "sub-red", "name": "red_subnet", "network_id": "net-red", "cidr": "192.168.1.0/24"},
			{"id": "sub-blue", "name": "blue_subnet", "network_id": "net-blue", "cidr": "10.0.0.0/24"},
		}})
	})

	subnet, err := ts.realClient().GetSubnetByName(context.Background(), "blue_subnet")

	require.NoError(t, err)
	require.NotNil(t, subnet)
	assert.Equal(t, "net-blue", subnet.NetworkID)
	assert.Equal(t, "10.0.0.0/24", subnet.CIDR)
}

func TestFindByName_EveryLookupHitsTheNetwork(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/image/v2/images", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"images": []map[string]any{{"id": "img-1", "name": "cirros"}}})
	})
	client := ts.realClient()

	for range 3 {
		img, err := client.FindImage(context.Background(), "cirros")
		require.NoError(t, err)
		assert.Equal(t, "img-1", img.ID)
	}

	assert.Equal(t, 3, ts.count(http.MethodGet, "/image/v2/images"))
}

func TestFindImageAndFlavor_Missing(t *testing.T) {
	ts := newTestServer(t)
	ts.handleFunc("/image/v2/images", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"images": []any{}})
	})
	ts.handleFunc("/compute/v2.1/flavors", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"flavors": []any{}})
	})
	client := ts.realClient()

	_, err := client.FindImage(context.Background(), "cirros")
	assert.ErrorContains(t, err, `image "cirros" not found`)

	_, err = client.FindFlavor(context.Background(), "m1.tiny")
	assert.ErrorContains(t, err, `flavor "m1.tiny" not found`)
}
