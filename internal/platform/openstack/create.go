package openstack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Create posts {singular: params} to the collection of kind and returns the
// created object unwrapped from its singular envelope. A 400 response is a
// *RejectionError; any other non-success status is an *APIError.
func (c *RealClient) Create(ctx context.Context, kind Kind, params any) (*Resource, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	url := c.collectionURL(spec)
	body := map[string]any{spec.singular: params}
	resp, err := c.transport.send(ctx, spec.service, http.MethodPost, url, c.session.Token, body)
	if err != nil {
		return nil, err
	}

	switch {
	case statusIn(resp.status, http.StatusOK, http.StatusCreated, http.StatusAccepted):
	case resp.status == http.StatusBadRequest:
		return nil, &RejectionError{Kind: kind, APIError: resp.apiError(http.MethodPost, url)}
	default:
		return nil, resp.apiError(http.MethodPost, url)
	}

	return unwrapSingular(kind, spec, http.MethodPost, url, resp.body)
}

// Get fetches one object by id.
func (c *RealClient) Get(ctx context.Context, kind Kind, id string) (*Resource, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	url := c.collectionURL(spec) + "/" + id
	resp, err := c.transport.send(ctx, spec.service, http.MethodGet, url, c.session.Token, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.apiError(http.MethodGet, url)
	}

	return unwrapSingular(kind, spec, http.MethodGet, url, resp.body)
}

// Action issues a request against {collection}/{id}/{action}. It returns the
// raw response body, which is empty for most actions.
func (c *RealClient) Action(ctx context.Context, kind Kind, id, action, method string, body any) (json.RawMessage, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s", c.collectionURL(spec), id, action)
	resp, err := c.transport.send(ctx, spec.service, method, url, c.session.Token, body)
	if err != nil {
		return nil, err
	}
	if !statusIn(resp.status, http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent) {
		return nil, resp.apiError(method, url)
	}
	return resp.body, nil
}

func unwrapSingular(kind Kind, spec kindSpec, method, url string, body []byte) (*Resource, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("malformed response: %w", err)}
	}
	raw, ok := envelope[spec.singular]
	if !ok {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("response has no %q key", spec.singular)}
	}
	res, err := toResource(kind, spec, raw)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	return &res, nil
}
