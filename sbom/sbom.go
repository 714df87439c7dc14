// Package sbom builds and validates signable SBOM documents in two
// standard shapes: SPDX 2.3 JSON and CycloneDX 1.4 JSON.
package sbom

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// Format identifies one of the supported document shapes
type Format string

// supported formats
const (
	FormatSPDX      Format = "spdx"
	FormatCycloneDX Format = "cyclonedx"
)

// format/spec-version tags; a document carrying anything else is rejected
const (
	SPDXVersion          = "SPDX-2.3"
	CycloneDXFormatTag   = "CycloneDX"
	CycloneDXSpecVersion = "1.4"
)

// NoAssertion is SPDX's sentinel for metadata the producer does not assert.
// The CycloneDX builder deliberately omits unknown fields instead; the two
// formats' conventions differ and both are preserved.
const NoAssertion = "NOASSERTION"

// ErrUnsupportedFormat reports a format or spec-version tag that is not one
// of the two supported shapes. It is fatal: no partial output is written.
var ErrUnsupportedFormat = errors.New("unsupported SBOM format")

// ValidationError reports required fields missing from a built document.
// A document that fails validation must never be signed.
type ValidationError struct {
	Format  Format
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: missing required fields: %s",
		e.Format, strings.Join(e.Missing, ", "))
}

// Document is one of the two supported SBOM shapes
type Document interface {
	DocumentFormat() Format
}

// newSerialNumber returns a random RFC 4122 v4 URN for CycloneDX documents
func newSerialNumber() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("urn:uuid:%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
