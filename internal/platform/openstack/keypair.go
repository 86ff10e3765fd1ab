package openstack

import "context"

type keypairCreateParams struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key,omitempty"`
}

// CreateKeypair registers a keypair. With an empty publicKey the control
// plane generates the pair and returns the private key in this response
// only; the caller must persist it before doing anything else.
func (c *RealClient) CreateKeypair(ctx context.Context, name, publicKey string) (*Keypair, error) {
	return createTyped[Keypair](ctx, c, KindKeypair, keypairCreateParams{Name: name, PublicKey: publicKey})
}

func (c *RealClient) ListKeypairs(ctx context.Context) ([]Keypair, error) {
	return listTyped[Keypair](ctx, c, KindKeypair)
}
