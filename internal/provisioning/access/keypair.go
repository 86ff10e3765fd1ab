package access

import (
	"errors"
	"fmt"

	"github.com/imamik/stacktopo/internal/platform/openstack"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/util/keyfile"
)

// ErrNoPrivateKey is returned when the control plane created a keypair but
// sent no private key to persist.
var ErrNoPrivateKey = errors.New("keypair response carries no private key")

// ProvisionKeypair creates the keypair, writes its private key to the key
// file, and attaches it to the target instance. The private key is dropped
// from State once written.
func (p *Provisioner) ProvisionKeypair(ctx *provisioning.Context) error {
	const step = provisioning.StepKeypair
	name := ctx.Config.Topology.Keypair
	path := ctx.Config.Output.KeyFile

	srv, err := target(ctx, step)
	if err != nil {
		return err
	}

	var publicKey string
	var privateKey []byte
	if ctx.Config.Provisioning.GenerateKeypair {
		pair, err := keyfile.Generate(p.KeyBits)
		if err != nil {
			return provisioning.Fail(step, openstack.KindKeypair, name, err)
		}
		publicKey, privateKey = string(pair.PublicKey), pair.PrivateKey
	}

	provisioning.LogResourceCreating(ctx.Observer, step, string(openstack.KindKeypair), name)
	kp, err := ctx.Infra.CreateKeypair(ctx, name, publicKey)
	if err != nil {
		return provisioning.Fail(step, openstack.KindKeypair, name,
			fmt.Errorf("failed to create keypair: %w", err))
	}
	if privateKey == nil {
		privateKey = []byte(kp.PrivateKey)
	}
	stored := *kp
	stored.PrivateKey = ""
	ctx.State.Keypair = &stored
	created(ctx, step, openstack.KindKeypair, name, kp.Name)

	if len(privateKey) == 0 {
		return provisioning.Fail(step, openstack.KindKeypair, name, ErrNoPrivateKey)
	}
	fingerprint, err := ctx.Keys.WriteKey(path, privateKey)
	if err != nil {
		return provisioning.Fail(step, openstack.KindKeypair, name,
			fmt.Errorf("failed to persist private key to %s: %w", path, err))
	}
	ctx.State.KeyFile = path
	ctx.State.KeyFingerprint = fingerprint
	if fingerprint == "" {
		ctx.Observer.Printf("[%s] Warning: private key written to %s could not be parsed for a fingerprint", step, path)
	} else {
		ctx.Observer.Printf("[%s] Private key written to %s (%s)", step, path, fingerprint)
	}

	if err := ctx.Infra.AddKeypairToServer(ctx, srv.ID, name); err != nil {
		return provisioning.Fail(step, openstack.KindKeypair, name,
			fmt.Errorf("failed to attach to server %s: %w", srv.ID, err))
	}
	attached(ctx, step, openstack.KindKeypair, name, kp.Name, srv)
	return nil
}
