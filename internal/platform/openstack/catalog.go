package openstack

import (
	"context"
	"fmt"
)

// FindImage resolves an image by name. A missing image is an error since
// no server can boot without it.
func (c *RealClient) FindImage(ctx context.Context, name string) (*Image, error) {
	img, err := findTyped[Image](c, KindImage)(ctx, name)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("image %q not found", name)
	}
	return img, nil
}

// FindFlavor resolves a flavor by name.
func (c *RealClient) FindFlavor(ctx context.Context, name string) (*Flavor, error) {
	flavor, err := findTyped[Flavor](c, KindFlavor)(ctx, name)
	if err != nil {
		return nil, err
	}
	if flavor == nil {
		return nil, fmt.Errorf("flavor %q not found", name)
	}
	return flavor, nil
}

func (c *RealClient) ListImages(ctx context.Context) ([]Image, error) {
	return listTyped[Image](ctx, c, KindImage)
}

func (c *RealClient) ListFlavors(ctx context.Context) ([]Flavor, error) {
	return listTyped[Flavor](ctx, c, KindFlavor)
}

func (c *RealClient) ListUsers(ctx context.Context) ([]User, error) {
	return listTyped[User](ctx, c, KindUser)
}
