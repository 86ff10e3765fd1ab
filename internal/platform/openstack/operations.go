package openstack

import (
	"context"
	"fmt"
)

// EnsureOperation encapsulates find-or-create logic for a named resource.
//
// Usage example:
//
//	func (c *RealClient) EnsureRouter(ctx context.Context, name, externalNetworkID string) (*Router, bool, error) {
//	    return (&EnsureOperation[Router]{
//	        Name: name,
//	        Kind: KindRouter,
//	        Find: c.GetRouterByName,
//	        Create: func(ctx context.Context) (*Router, error) {
//	            return c.createRouter(ctx, name, externalNetworkID)
//	        },
//	    }).Execute(ctx)
//	}
type EnsureOperation[T any] struct {
	Name string
	Kind Kind

	// Find returns the existing resource or nil when absent.
	Find func(ctx context.Context, name string) (*T, error)

	// Create creates the resource. It is only called when Find returned nil.
	Create func(ctx context.Context) (*T, error)
}

// Execute returns the existing resource when one is found, otherwise the
// newly created one. reused reports which of the two happened.
func (op *EnsureOperation[T]) Execute(ctx context.Context) (resource *T, reused bool, err error) {
	existing, err := op.Find(ctx, op.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s %q: %w", op.Kind, op.Name, err)
	}
	if existing != nil {
		return existing, true, nil
	}

	created, err := op.Create(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %s %q: %w", op.Kind, op.Name, err)
	}
	return created, false, nil
}

// findTyped adapts FindByName to a typed model.
func findTyped[T any](c *RealClient, kind Kind) func(context.Context, string) (*T, error) {
	return func(ctx context.Context, name string) (*T, error) {
		res, err := c.FindByName(ctx, kind, name)
		if err != nil || res == nil {
			return nil, err
		}
		return decodeAs[T](res)
	}
}

// createTyped posts params and decodes the created object.
func createTyped[T any](ctx context.Context, c *RealClient, kind Kind, params any) (*T, error) {
	res, err := c.Create(ctx, kind, params)
	if err != nil {
		return nil, err
	}
	return decodeAs[T](res)
}

// listTyped lists kind and decodes every item.
func listTyped[T any](ctx context.Context, c *RealClient, kind Kind) ([]T, error) {
	res, err := c.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](res)
}
