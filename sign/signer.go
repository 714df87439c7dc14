package sign

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mattermost/bomsign"
)

// signature algorithms. A block carries exactly one of these tags; the
// mock tag can never be mistaken for a real Ed25519 signature.
const (
	AlgorithmEd25519 = "Ed25519"
	AlgorithmMock    = "MOCK-SHA256"
)

// ErrBackendUnavailable reports that no usable signing backend was
// configured. Signing fails closed rather than emitting an unsigned or
// placeholder document.
var ErrBackendUnavailable = errors.New("no signing backend available")

// Block is the detached signature attached to a signed SBOM file as a
// sibling "signature" field. The hash and signature cover the document's
// canonical bytes without this field.
type Block struct {
	Algorithm    string   `json:"algorithm"`
	Signature    string   `json:"signature"`
	PublicKey    string   `json:"public_key"`
	Timestamp    string   `json:"timestamp"`
	DocumentHash string   `json:"document_hash"`
	Signer       Identity `json:"signer"`
}

// Identity names the tool that produced a signature
type Identity struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
}

// Backend is the capability interface for signature generation. The real
// implementation is Ed25519Backend; MockBackend exists for tests and is
// only usable behind the Signer's explicit AllowMock opt-in.
type Backend interface {
	Algorithm() string
	Sign(message []byte) (signature []byte, publicKey []byte, err error)
}

// Ed25519Backend signs canonical bytes with an Ed25519 private key
type Ed25519Backend struct {
	key ed25519.PrivateKey
}

// NewEd25519Backend returns a backend with a freshly generated keypair
func NewEd25519Backend() (*Ed25519Backend, error) {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}
	return &Ed25519Backend{key: key}, nil
}

// NewEd25519BackendFromKey returns a backend using an existing private key
func NewEd25519BackendFromKey(key ed25519.PrivateKey) (*Ed25519Backend, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("bad private key length %d", len(key))
	}
	return &Ed25519Backend{key: key}, nil
}

// Algorithm returns the Ed25519 algorithm tag
func (b *Ed25519Backend) Algorithm() string { return AlgorithmEd25519 }

// Sign signs the message and returns the signature and raw public key
func (b *Ed25519Backend) Sign(message []byte) ([]byte, []byte, error) {
	return ed25519.Sign(b.key, message), b.key.Public().(ed25519.PublicKey), nil
}

// MockBackend emits a clearly-labeled, non-cryptographic placeholder
// signature: the sha256 of the message. Verify rejects its blocks unless
// the verifier was constructed with AllowMock.
type MockBackend struct{}

// Algorithm returns the mock algorithm tag
func (MockBackend) Algorithm() string { return AlgorithmMock }

// Sign returns the message digest as a placeholder signature
func (MockBackend) Sign(message []byte) ([]byte, []byte, error) {
	digest := sha256.Sum256(message)
	return digest[:], []byte("mock-public-key"), nil
}

// Signer signs and verifies SBOM documents over their canonical bytes
type Signer struct {
	Backend   Backend
	AllowMock bool
	Identity  Identity
}

// NewSigner returns a Signer over the given backend with the default tool
// identity
func NewSigner(backend Backend) *Signer {
	return &Signer{
		Backend:  backend,
		Identity: Identity{Tool: bomsign.Name, Version: bomsign.Version},
	}
}

// Sign canonicalizes the document, hashes it, and signs the full canonical
// bytes (not the digest alone). Fails closed when no backend is configured
// or when a mock backend is used without the AllowMock opt-in.
func (s *Signer) Sign(doc interface{}) (*Block, error) {
	if s.Backend == nil {
		return nil, ErrBackendUnavailable
	}
	if s.Backend.Algorithm() != AlgorithmEd25519 && !s.AllowMock {
		return nil, fmt.Errorf("%w: refusing to sign with '%s' without the mock opt-in",
			ErrBackendUnavailable, s.Backend.Algorithm())
	}

	canonical, err := Canonicalize(doc)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(canonical)

	signature, publicKey, err := s.Backend.Sign(canonical)
	if err != nil {
		return nil, fmt.Errorf("signing document: %w", err)
	}

	return &Block{
		Algorithm:    s.Backend.Algorithm(),
		Signature:    base64.StdEncoding.EncodeToString(signature),
		PublicKey:    base64.StdEncoding.EncodeToString(publicKey),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DocumentHash: hex.EncodeToString(digest[:]),
		Signer:       s.Identity,
	}, nil
}

// Verify reports whether block is a valid signature over doc's canonical
// bytes. "Signature does not match" is an expected outcome, so Verify
// returns a bool and never an error: canonicalization failures, digest
// mismatches, decode failures, and bad signatures are all simply false.
// The digest comparison runs before any asymmetric cryptography.
func (s *Signer) Verify(doc interface{}, block *Block) bool {
	if block == nil {
		return false
	}
	canonical, err := Canonicalize(doc)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(canonical)
	if hex.EncodeToString(digest[:]) != block.DocumentHash {
		return false
	}

	switch block.Algorithm {
	case AlgorithmEd25519:
		return verifyEd25519(canonical, block)
	case AlgorithmMock:
		if !s.AllowMock {
			return false
		}
		return verifyMock(canonical, block)
	default:
		return false
	}
}

func verifyEd25519(canonical []byte, block *Block) (ok bool) {
	// ed25519.Verify panics on malformed keys; a malformed block is a
	// failed verification, not a crash
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	publicKey, err := base64.StdEncoding.DecodeString(block.PublicKey)
	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	signature, err := base64.StdEncoding.DecodeString(block.Signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), canonical, signature)
}

func verifyMock(canonical []byte, block *Block) bool {
	signature, err := base64.StdEncoding.DecodeString(block.Signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(canonical)
	return subtle.ConstantTimeCompare(digest[:], signature) == 1
}
