package openstack

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/imamik/stacktopo/internal/config"
)

// testServer mocks the control plane with one mux serving every service
// under its conventional path prefix.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Token  string
	Body   map[string]any
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{mux: http.NewServeMux()}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Token: r.Header.Get(tokenHeader)}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		ts.mu.Lock()
		ts.requests = append(ts.requests, rec)
		ts.mu.Unlock()
		ts.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

func (ts *testServer) endpoints() config.ResolvedEndpoints {
	return config.ResolvedEndpoints{
		Identity: ts.server.URL + "/identity/v3",
		Network:  ts.server.URL + "/network/v2.0",
		Compute:  ts.server.URL + "/compute/v2.1",
		Image:    ts.server.URL + "/image/v2",
	}
}

// realClient returns a RealClient bound to the test server with token tok1.
func (ts *testServer) realClient(opts ...ClientOption) *RealClient {
	opts = append([]ClientOption{
		WithHTTPClient(ts.server.Client()),
		WithTimeouts(config.TestTimeouts()),
	}, opts...)
	return NewRealClient(&Session{Token: "tok1"}, ts.endpoints(), opts...)
}

func (ts *testServer) recorded() []recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]recordedRequest(nil), ts.requests...)
}

func (ts *testServer) count(method, path string) int {
	n := 0
	for _, r := range ts.recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
