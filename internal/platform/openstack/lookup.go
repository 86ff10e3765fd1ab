package openstack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// List fetches the full collection of kind in a single request. Pagination
// links are not followed.
func (c *RealClient) List(ctx context.Context, kind Kind) ([]Resource, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	url := c.collectionURL(spec)
	resp, err := c.transport.send(ctx, spec.service, http.MethodGet, url, c.session.Token, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.apiError(http.MethodGet, url)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: url, Err: fmt.Errorf("malformed listing: %w", err)}
	}

	rawItems, ok := envelope[spec.plural]
	if !ok {
		return nil, &TransportError{Method: http.MethodGet, URL: url, Err: fmt.Errorf("listing has no %q key", spec.plural)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: url, Err: fmt.Errorf("malformed %q array: %w", spec.plural, err)}
	}

	out := make([]Resource, 0, len(items))
	for _, item := range items {
		if spec.nested {
			var wrapper map[string]json.RawMessage
			if err := json.Unmarshal(item, &wrapper); err != nil {
				return nil, &TransportError{Method: http.MethodGet, URL: url, Err: err}
			}
			item = wrapper[spec.singular]
		}
		res, err := toResource(kind, spec, item)
		if err != nil {
			return nil, &TransportError{Method: http.MethodGet, URL: url, Err: err}
		}
		out = append(out, res)
	}
	return out, nil
}

// FindByName lists kind and returns the first item whose name equals name,
// in listing order. It returns nil without error when nothing matches.
// Names are not unique for every kind; servers in particular may share a
// name with an unrelated instance.
func (c *RealClient) FindByName(ctx context.Context, kind Kind, name string) (*Resource, error) {
	items, err := c.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Plural(), err)
	}
	for i := range items {
		if items[i].Name == name {
			return &items[i], nil
		}
	}
	return nil, nil
}

func toResource(kind Kind, spec kindSpec, raw json.RawMessage) (Resource, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Resource{}, fmt.Errorf("malformed %s object: %w", spec.singular, err)
	}
	return Resource{
		Kind: kind,
		ID:   stringField(fields, spec.idField),
		Name: stringField(fields, "name"),
		Raw:  raw,
	}, nil
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}
