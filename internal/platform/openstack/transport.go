package openstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

const tokenHeader = "X-Auth-Token"

// transport is the HTTP plumbing shared by the authenticator and the client.
type transport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     logr.Logger
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// send performs one request. It never retries. Only failures to obtain a
// response are returned as errors; status handling is left to the caller.
func (t *transport) send(ctx context.Context, service Service, method, url, token string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.metrics.observe(service, method, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	t.metrics.observe(service, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	t.logger.V(1).Info("request", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (r *response) apiError(method, url string) *APIError {
	return &APIError{Method: method, URL: url, StatusCode: r.status, Body: r.body}
}

func statusIn(code int, accepted ...int) bool {
	for _, a := range accepted {
		if code == a {
			return true
		}
	}
	return false
}
