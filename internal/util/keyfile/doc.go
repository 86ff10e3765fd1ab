// Package keyfile handles SSH private key material for compute keypairs.
//
// The control plane returns a freshly generated private key exactly once, in
// the response to a keypair create. [Save] persists that material with
// owner-only permissions and fingerprints it with x/crypto/ssh. [Generate]
// produces a local RSA pair when the public half should be uploaded instead.
package keyfile
