package sign

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// GenerateKeypair returns a new Ed25519 private/public key pair
func GenerateKeypair() (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("generating keypair: %w", err)
	}
	return privateKey, publicKey, nil
}

// SaveKeys writes the key pair to disk as base64. The private key file is
// created with owner-only permissions.
func SaveKeys(privateKey ed25519.PrivateKey, privatePath, publicPath string) error {
	if len(privateKey) != ed25519.PrivateKeySize {
		return fmt.Errorf("bad private key length %d", len(privateKey))
	}
	encoded := base64.StdEncoding.EncodeToString(privateKey) + "\n"
	if err := os.WriteFile(privatePath, []byte(encoded), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if publicPath != "" {
		publicKey := privateKey.Public().(ed25519.PublicKey)
		encoded := base64.StdEncoding.EncodeToString(publicKey) + "\n"
		if err := os.WriteFile(publicPath, []byte(encoded), 0644); err != nil {
			return fmt.Errorf("writing public key: %w", err)
		}
	}
	return nil
}

// LoadKey reads a base64-encoded Ed25519 private key from disk. A missing
// file is a reported error; there is no silent fallback to key generation.
func LoadKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}
	switch len(decoded) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(decoded), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(decoded), nil
	default:
		return nil, fmt.Errorf("bad private key length %d", len(decoded))
	}
}
