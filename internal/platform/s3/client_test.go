package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/imamik/stacktopo/internal/util/retry"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(server.URL),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})

	return &Client{
		s3:      client,
		region:  "us-east-1",
		retries: []retry.Option{retry.WithMaxRetries(2), retry.WithInitialDelay(time.Millisecond)},
	}
}

func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func xmlError(code string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code + `</Code><Message>` + code + `</Message></Error>`
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), Options{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		PathStyle: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.region != "us-east-1" {
		t.Errorf("expected region us-east-1, got %s", client.region)
	}
}

func TestEnsureBucket_Exists(t *testing.T) {
	t.Parallel()

	var creates atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			creates.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))

	if err := client.EnsureBucket(context.Background(), "exports"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creates.Load() != 0 {
		t.Errorf("expected no create call, got %d", creates.Load())
	}
}

func TestEnsureBucket_Creates(t *testing.T) {
	t.Parallel()

	var creates atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			creates.Add(1)
			xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
		}
	}))

	if err := client.EnsureBucket(context.Background(), "exports"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creates.Load() != 1 {
		t.Errorf("expected one create call, got %d", creates.Load())
	}
}

func TestEnsureBucket_AlreadyOwned(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		xmlResponse(w, http.StatusConflict, xmlError("BucketAlreadyOwnedByYou"))
	}))

	if err := client.EnsureBucket(context.Background(), "exports"); err != nil {
		t.Fatalf("expected nil error for already owned bucket, got: %v", err)
	}
}

func TestBucketExists_AccessDenied(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, xmlError("AccessDenied"))
	}))

	_, err := client.BucketExists(context.Background(), "exports")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to check bucket exports") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestUpload_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	var mu sync.Mutex
	var body []byte
	var contentType string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			xmlResponse(w, http.StatusInternalServerError, xmlError("InternalError"))
			return
		}
		mu.Lock()
		body, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Upload(context.Background(), "exports", "run/resultat.json", []byte(`{"network":[]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
	if string(body) != `{"network":[]}` {
		t.Errorf("unexpected body %q", body)
	}
	if contentType != "application/json" {
		t.Errorf("unexpected content type %q", contentType)
	}
}

func TestUpload_DoesNotRetryAccessDenied(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		xmlResponse(w, http.StatusForbidden, xmlError("AccessDenied"))
	}))

	err := client.Upload(context.Background(), "exports", "resultat.json", []byte("{}"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !retry.IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", attempts.Load())
	}
}

func TestGetObject(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("object content"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	data, err := client.GetObject(context.Background(), "exports", "resultat.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "object content" {
		t.Errorf("unexpected data %q", data)
	}
}

func TestListObjects(t *testing.T) {
	t.Parallel()

	var prefix atomic.Value
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix.Store(r.URL.Query().Get("prefix"))
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult>
  <Name>exports</Name>
  <Contents><Key>runs/a.json</Key></Contents>
  <Contents><Key>runs/b.json</Key></Contents>
</ListBucketResult>`)
	}))

	keys, err := client.ListObjects(context.Background(), "exports", "runs/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "runs/a.json" || keys[1] != "runs/b.json" {
		t.Errorf("unexpected keys %v", keys)
	}
	if got, _ := prefix.Load().(string); got != "runs/" {
		t.Errorf("expected prefix runs/, got %q", got)
	}
}

type fakeAPIError struct{ code string }

func (e fakeAPIError) Error() string                 { return e.code }
func (e fakeAPIError) ErrorCode() string             { return e.code }
func (e fakeAPIError) ErrorMessage() string          { return e.code }
func (e fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		owned     bool
		notFound  bool
		clientErr bool
	}{
		{"nil", nil, false, false, false},
		{"plain", errors.New("boom"), false, false, false},
		{"owned", fakeAPIError{"BucketAlreadyOwnedByYou"}, true, false, false},
		{"no such bucket", fakeAPIError{"NoSuchBucket"}, false, true, true},
		{"not found", fakeAPIError{"NotFound"}, false, true, false},
		{"access denied", fakeAPIError{"AccessDenied"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBucketAlreadyOwnedByYou(tt.err); got != tt.owned {
				t.Errorf("isBucketAlreadyOwnedByYou() = %v, want %v", got, tt.owned)
			}
			if got := isNotFoundError(tt.err); got != tt.notFound {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.notFound)
			}
			if got := isClientError(tt.err); got != tt.clientErr {
				t.Errorf("isClientError() = %v, want %v", got, tt.clientErr)
			}
		})
	}
}
