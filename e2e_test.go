package bomsign_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/license"
	_ "github.com/mattermost/bomsign/parsers"
	"github.com/mattermost/bomsign/sbom"
	"github.com/mattermost/bomsign/sign"
	"github.com/mattermost/bomsign/vuln"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scans a project whose only dependency is left-pad, builds both document
// formats, signs the result, and verifies the signature through a full
// encode/decode round trip of the output file contents.
func TestGenerateAndVerify(t *testing.T) {
	components := bomsign.Scan("testdata/leftpad")
	require.Len(t, components, 1)
	assert.Equal(t, "left-pad", components[0].Name)
	assert.Equal(t, "1.0.0", components[0].Version)
	assert.Equal(t, "pkg:npm/left-pad@1.0.0", components[0].PURL)

	detector := &license.Detector{}
	detector.Enrich(components, "testdata/leftpad")
	assert.Empty(t, components[0].License, "left-pad has no resolvable license here")

	findings, err := vuln.Nop{}.Scan(context.Background(), components)
	require.NoError(t, err)
	assert.Empty(t, findings)

	spdxDoc, err := sbom.Build(sbom.FormatSPDX, components, findings, "leftpad")
	require.NoError(t, err)
	require.NoError(t, sbom.Validate(spdxDoc))
	assert.Equal(t, sbom.NoAssertion, spdxDoc.(*sbom.SPDXDocument).Packages[1].LicenseConcluded)

	cdxDoc, err := sbom.Build(sbom.FormatCycloneDX, components, findings, "leftpad")
	require.NoError(t, err)
	require.NoError(t, sbom.Validate(cdxDoc))
	assert.Empty(t, cdxDoc.(*sbom.CycloneDXDocument).Components[0].Licenses)

	backend, err := sign.NewEd25519Backend()
	require.NoError(t, err)
	signer := sign.NewSigner(backend)
	block, err := signer.Sign(cdxDoc)
	require.NoError(t, err)

	encoded, err := sbom.Encode(cdxDoc, block, true)
	require.NoError(t, err)

	// re-read the emitted file contents the way the verify command does
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &envelope))
	raw, err := json.Marshal(envelope["signature"])
	require.NoError(t, err)
	var loaded sign.Block
	require.NoError(t, json.Unmarshal(raw, &loaded))
	delete(envelope, "signature")

	assert.True(t, signer.Verify(envelope, &loaded))

	// the document is still the one that was signed; any edit breaks it
	envelope["version"] = float64(2)
	assert.False(t, signer.Verify(envelope, &loaded))
}

func TestScanIsDeterministic(t *testing.T) {
	first := bomsign.Scan("testdata/leftpad")
	second := bomsign.Scan("testdata/leftpad")
	assert.Equal(t, first, second)
}
