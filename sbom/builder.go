package sbom

import (
	"fmt"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/vuln"
)

// Build assembles components and findings into a document of the requested
// format. The input component order is preserved: SPDX local identifiers
// are assigned in scan order and CycloneDX components are emitted in scan
// order.
func Build(format Format, components []bomsign.Component, findings []vuln.Finding, projectName string) (Document, error) {
	switch format {
	case FormatSPDX:
		return buildSPDX(components, findings, projectName), nil
	case FormatCycloneDX:
		return buildCycloneDX(components, findings, projectName), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, format)
	}
}

// Validate checks that every field required by the document's declared
// format tag is present and that the tag itself is one of the two supported
// versions exactly. An invalid document must never be signed.
func Validate(doc Document) error {
	switch d := doc.(type) {
	case *SPDXDocument:
		return validateSPDX(d)
	case *CycloneDXDocument:
		return validateCycloneDX(d)
	default:
		return fmt.Errorf("%w: unrecognized document type %T", ErrUnsupportedFormat, doc)
	}
}

func validateSPDX(d *SPDXDocument) error {
	if d.SPDXVersion != SPDXVersion {
		return fmt.Errorf("%w: spdxVersion '%s'", ErrUnsupportedFormat, d.SPDXVersion)
	}
	missing := []string{}
	require := func(present bool, field string) {
		if !present {
			missing = append(missing, field)
		}
	}
	require(d.SPDXID != "", "SPDXID")
	require(d.DataLicense != "", "dataLicense")
	require(d.Name != "", "name")
	require(d.DocumentNamespace != "", "documentNamespace")
	require(d.CreationInfo.Created != "", "creationInfo.created")
	require(len(d.CreationInfo.Creators) > 0, "creationInfo.creators")
	require(d.Packages != nil, "packages")
	require(d.Relationships != nil, "relationships")
	for _, pkg := range d.Packages {
		require(pkg.SPDXID != "", "packages[].SPDXID")
		require(pkg.Name != "", "packages[].name")
		require(pkg.LicenseConcluded != "", "packages[].licenseConcluded")
		require(pkg.CopyrightText != "", "packages[].copyrightText")
	}
	if len(missing) > 0 {
		return &ValidationError{Format: FormatSPDX, Missing: missing}
	}
	return nil
}

func validateCycloneDX(d *CycloneDXDocument) error {
	if d.BOMFormat != CycloneDXFormatTag || d.SpecVersion != CycloneDXSpecVersion {
		return fmt.Errorf("%w: bomFormat '%s' specVersion '%s'", ErrUnsupportedFormat, d.BOMFormat, d.SpecVersion)
	}
	missing := []string{}
	require := func(present bool, field string) {
		if !present {
			missing = append(missing, field)
		}
	}
	require(d.SerialNumber != "", "serialNumber")
	require(d.Version >= 1, "version")
	require(d.Metadata.Timestamp != "", "metadata.timestamp")
	require(len(d.Metadata.Tools) > 0, "metadata.tools")
	require(d.Components != nil, "components")
	for _, component := range d.Components {
		require(component.BOMRef != "", "components[].bom-ref")
		require(component.Name != "", "components[].name")
		require(component.Version != "", "components[].version")
	}
	if len(missing) > 0 {
		return &ValidationError{Format: FormatCycloneDX, Missing: missing}
	}
	return nil
}
