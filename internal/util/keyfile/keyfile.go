package keyfile

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

// FileMode is applied to every private key written by this package.
const FileMode os.FileMode = 0o600

// ErrEmptyKey is returned when there is no key material to persist.
var ErrEmptyKey = errors.New("private key material is empty")

// KeyPair holds an RSA key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the RSA private key in PEM-encoded PKCS#1 format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// Generate creates an RSA key pair with the given bit size.
func Generate(bits int) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA private key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	pub, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  ssh.MarshalAuthorizedKey(pub),
	}, nil
}

// Fingerprint returns the SHA256 fingerprint of the public half of a PEM
// private key, in the same format as ssh-keygen -l.
func Fingerprint(privateKeyPEM []byte) (string, error) {
	signer, err := ssh.ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}
	return ssh.FingerprintSHA256(signer.PublicKey()), nil
}

// Save writes privateKeyPEM to path with mode 0600 and returns its
// fingerprint. Parent directories are created as needed. An existing file is
// overwritten and its mode reset. The fingerprint is empty when x/crypto/ssh
// cannot parse the material; the file is written regardless.
func Save(path string, privateKeyPEM []byte) (string, error) {
	if len(privateKeyPEM) == 0 {
		return "", ErrEmptyKey
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to create key directory: %w", err)
		}
	}

	if err := os.WriteFile(path, privateKeyPEM, FileMode); err != nil {
		return "", fmt.Errorf("failed to write private key: %w", err)
	}
	// WriteFile keeps the mode of a pre-existing file.
	if err := os.Chmod(path, FileMode); err != nil {
		return "", fmt.Errorf("failed to restrict private key permissions: %w", err)
	}

	fingerprint, _ := Fingerprint(privateKeyPEM)
	return fingerprint, nil
}
