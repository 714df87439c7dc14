package sbom

import (
	"testing"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/vuln"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponents() []bomsign.Component {
	return []bomsign.Component{
		{
			Name:    "flask",
			Version: "2.0.1",
			PURL:    "pkg:pypi/flask@2.0.1",
			License: "BSD-3-Clause",
		},
		{
			Name:    "left-pad",
			Version: "1.0.0",
			PURL:    "pkg:npm/left-pad@1.0.0",
		},
	}
}

func testFindings() []vuln.Finding {
	return []vuln.Finding{{
		ID:                 "GHSA-xxxx-yyyy-zzzz",
		Source:             "osv.dev",
		Severity:           vuln.SeverityHigh,
		Description:        "test vulnerability",
		AffectedComponents: []string{"flask@2.0.1"},
		CVE:                "CVE-2023-12345",
		CVSSScore:          7.5,
		FixAvailable:       true,
		FixVersion:         "2.0.2",
	}}
}

func TestBuildSPDX(t *testing.T) {
	doc, err := Build(FormatSPDX, testComponents(), testFindings(), "myproject")
	require.NoError(t, err)

	spdx, ok := doc.(*SPDXDocument)
	require.True(t, ok)

	assert.Equal(t, "SPDX-2.3", spdx.SPDXVersion)
	assert.Equal(t, "CC0-1.0", spdx.DataLicense)
	assert.Equal(t, "myproject", spdx.Name)

	// synthetic root plus the two scanned packages
	require.Len(t, spdx.Packages, 3)
	assert.Equal(t, "SPDXRef-Project", spdx.Packages[0].SPDXID)

	// local identifiers are assigned in scan order
	assert.Equal(t, "SPDXRef-ref-0", spdx.Packages[1].SPDXID)
	assert.Equal(t, "flask", spdx.Packages[1].Name)
	assert.Equal(t, "BSD-3-Clause", spdx.Packages[1].LicenseConcluded)

	// absent fields carry the explicit NOASSERTION sentinel, never omitted
	assert.Equal(t, "SPDXRef-ref-1", spdx.Packages[2].SPDXID)
	assert.Equal(t, NoAssertion, spdx.Packages[2].LicenseConcluded)
	assert.Equal(t, NoAssertion, spdx.Packages[2].CopyrightText)
	assert.Equal(t, NoAssertion, spdx.Packages[2].Supplier)

	// one DESCRIBES edge plus one DEPENDS_ON edge per scanned package
	require.Len(t, spdx.Relationships, 3)
	assert.Equal(t, "DESCRIBES", spdx.Relationships[0].RelationshipType)
	for _, rel := range spdx.Relationships[1:] {
		assert.Equal(t, "DEPENDS_ON", rel.RelationshipType)
		assert.Equal(t, "SPDXRef-Project", rel.SPDXElementID)
	}

	// findings reference assigned identifiers, not raw names
	require.Len(t, spdx.Vulnerabilities, 1)
	assert.Equal(t, []string{"SPDXRef-ref-0"}, spdx.Vulnerabilities[0].Affects)

	assert.NoError(t, Validate(doc))
}

func TestBuildCycloneDX(t *testing.T) {
	doc, err := Build(FormatCycloneDX, testComponents(), testFindings(), "myproject")
	require.NoError(t, err)

	cdx, ok := doc.(*CycloneDXDocument)
	require.True(t, ok)

	assert.Equal(t, "CycloneDX", cdx.BOMFormat)
	assert.Equal(t, "1.4", cdx.SpecVersion)
	assert.Contains(t, cdx.SerialNumber, "urn:uuid:")
	assert.Equal(t, 1, cdx.Version)

	require.Len(t, cdx.Components, 2)

	// bom-ref derives from the purl when present
	assert.Equal(t, "pkg:pypi/flask@2.0.1", cdx.Components[0].BOMRef)
	require.Len(t, cdx.Components[0].Licenses, 1)
	assert.Equal(t, "BSD-3-Clause", cdx.Components[0].Licenses[0].License.ID)

	// unknown license is omitted entirely, unlike the SPDX sentinel
	assert.Empty(t, cdx.Components[1].Licenses)

	require.Len(t, cdx.Vulnerabilities, 1)
	require.Len(t, cdx.Vulnerabilities[0].Affects, 1)
	assert.Equal(t, "pkg:pypi/flask@2.0.1", cdx.Vulnerabilities[0].Affects[0].Ref)
	assert.Equal(t, "upgrade to version 2.0.2", cdx.Vulnerabilities[0].Recommendation)

	assert.NoError(t, Validate(doc))
}

func TestBuildBOMRefFallback(t *testing.T) {
	components := []bomsign.Component{{Name: "mystery", Version: "0.0.1"}}
	doc, err := Build(FormatCycloneDX, components, nil, "myproject")
	require.NoError(t, err)

	cdx := doc.(*CycloneDXDocument)
	require.Len(t, cdx.Components, 1)
	assert.Equal(t, "mystery@0.0.1", cdx.Components[0].BOMRef)
}

func TestBuildUnsupportedFormat(t *testing.T) {
	_, err := Build(Format("swid"), nil, nil, "myproject")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestValidateRejectsUnknownVersionTags(t *testing.T) {
	doc, err := Build(FormatSPDX, testComponents(), nil, "myproject")
	require.NoError(t, err)
	spdx := doc.(*SPDXDocument)
	spdx.SPDXVersion = "SPDX-9.9"
	assert.ErrorIs(t, Validate(spdx), ErrUnsupportedFormat)

	doc, err = Build(FormatCycloneDX, testComponents(), nil, "myproject")
	require.NoError(t, err)
	cdx := doc.(*CycloneDXDocument)
	cdx.SpecVersion = "1.7"
	assert.ErrorIs(t, Validate(cdx), ErrUnsupportedFormat)
}

func TestValidateMissingFields(t *testing.T) {
	doc, err := Build(FormatSPDX, testComponents(), nil, "myproject")
	require.NoError(t, err)
	spdx := doc.(*SPDXDocument)
	spdx.DocumentNamespace = ""
	spdx.CreationInfo.Creators = nil

	err = Validate(spdx)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Missing, "documentNamespace")
	assert.Contains(t, validationErr.Missing, "creationInfo.creators")
}
