package sbom

import (
	"fmt"
	"time"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
	"github.com/mattermost/bomsign/vuln"
)

// SPDXDocument is an SPDX 2.3 JSON document with an embedded vulnerability
// list. Field order in the struct is not significant; the canonicalizer
// sorts keys before hashing.
type SPDXDocument struct {
	SPDXID            string              `json:"SPDXID"`
	SPDXVersion       string              `json:"spdxVersion"`
	DataLicense       string              `json:"dataLicense"`
	Name              string              `json:"name"`
	DocumentNamespace string              `json:"documentNamespace"`
	CreationInfo      SPDXCreationInfo    `json:"creationInfo"`
	Packages          []SPDXPackage       `json:"packages"`
	Relationships     []SPDXRelationship  `json:"relationships"`
	Vulnerabilities   []SPDXVulnerability `json:"vulnerabilities"`
}

// DocumentFormat identifies the document as package-graph shaped
func (*SPDXDocument) DocumentFormat() Format { return FormatSPDX }

// SPDXCreationInfo records when and by what the document was produced
type SPDXCreationInfo struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

// SPDXPackage is a single dependency entry. Absent license, copyright, and
// supplier information is recorded as NOASSERTION, never omitted.
type SPDXPackage struct {
	SPDXID           string `json:"SPDXID"`
	Name             string `json:"name"`
	VersionInfo      string `json:"versionInfo"`
	DownloadLocation string `json:"downloadLocation"`
	LicenseConcluded string `json:"licenseConcluded"`
	LicenseDeclared  string `json:"licenseDeclared"`
	CopyrightText    string `json:"copyrightText"`
	Supplier         string `json:"supplier"`
	ExternalRefs     []SPDXExternalRef `json:"externalRefs,omitempty"`
}

// SPDXExternalRef carries the package URL
type SPDXExternalRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

// SPDXRelationship is one edge of the package graph
type SPDXRelationship struct {
	SPDXElementID      string `json:"spdxElementId"`
	RelatedSPDXElement string `json:"relatedSpdxElement"`
	RelationshipType   string `json:"relationshipType"`
}

// SPDXVulnerability embeds a finding, referencing packages by SPDXID
type SPDXVulnerability struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Severity     string   `json:"severity"`
	Description  string   `json:"description"`
	Affects      []string `json:"affects"`
	CVE          string   `json:"cve,omitempty"`
	CVSSScore    float64  `json:"cvssScore,omitempty"`
	FixAvailable bool     `json:"fixAvailable"`
	FixVersion   string   `json:"fixVersion,omitempty"`
}

const (
	documentRef = "SPDXRef-DOCUMENT"
	projectRef  = "SPDXRef-Project"
)

func buildSPDX(components []bomsign.Component, findings []vuln.Finding, projectName string) *SPDXDocument {
	doc := &SPDXDocument{
		SPDXID:            documentRef,
		SPDXVersion:       SPDXVersion,
		DataLicense:       "CC0-1.0",
		Name:              projectName,
		DocumentNamespace: fmt.Sprintf("https://bomsign.invalid/spdxdocs/%s-%s", projectName, newSerialNumber()[len("urn:uuid:"):]),
		CreationInfo: SPDXCreationInfo{
			Created:  time.Now().UTC().Format(time.RFC3339),
			Creators: []string{"Tool: " + bomsign.Name + "-" + bomsign.Version},
		},
		Packages:        []SPDXPackage{},
		Relationships:   []SPDXRelationship{},
		Vulnerabilities: []SPDXVulnerability{},
	}

	doc.Packages = append(doc.Packages, SPDXPackage{
		SPDXID:           projectRef,
		Name:             projectName,
		VersionInfo:      NoAssertion,
		DownloadLocation: NoAssertion,
		LicenseConcluded: NoAssertion,
		LicenseDeclared:  NoAssertion,
		CopyrightText:    NoAssertion,
		Supplier:         NoAssertion,
	})
	doc.Relationships = append(doc.Relationships, SPDXRelationship{
		SPDXElementID:      documentRef,
		RelatedSPDXElement: projectRef,
		RelationshipType:   "DESCRIBES",
	})

	// local identifiers are assigned in scan order
	refs := make(map[string]string, len(components))
	for i, component := range components {
		ref := fmt.Sprintf("SPDXRef-ref-%d", i)
		refs[component.ID()] = ref
		doc.Packages = append(doc.Packages, SPDXPackage{
			SPDXID:           ref,
			Name:             component.Name,
			VersionInfo:      orNoAssertion(component.Version),
			DownloadLocation: NoAssertion,
			LicenseConcluded: orNoAssertion(component.License),
			LicenseDeclared:  orNoAssertion(component.License),
			CopyrightText:    orNoAssertion(component.Copyright),
			Supplier:         supplier(component),
			ExternalRefs:     externalRefs(component),
		})
		doc.Relationships = append(doc.Relationships, SPDXRelationship{
			SPDXElementID:      projectRef,
			RelatedSPDXElement: ref,
			RelationshipType:   "DEPENDS_ON",
		})
	}

	for _, finding := range findings {
		doc.Vulnerabilities = append(doc.Vulnerabilities, SPDXVulnerability{
			ID:           finding.ID,
			Source:       finding.Source,
			Severity:     string(finding.Severity),
			Description:  finding.Description,
			Affects:      resolveRefs(refs, finding.AffectedComponents),
			CVE:          finding.CVE,
			CVSSScore:    finding.CVSSScore,
			FixAvailable: finding.FixAvailable,
			FixVersion:   finding.FixVersion,
		})
	}

	return doc
}

func orNoAssertion(value string) string {
	if value == "" {
		return NoAssertion
	}
	return value
}

func supplier(component bomsign.Component) string {
	if component.Supplier != "" {
		return "Organization: " + component.Supplier
	}
	if component.Author != "" {
		return "Person: " + component.Author
	}
	return NoAssertion
}

func externalRefs(component bomsign.Component) []SPDXExternalRef {
	if component.PURL == "" {
		return nil
	}
	return []SPDXExternalRef{{
		ReferenceCategory: "PACKAGE-MANAGER",
		ReferenceType:     "purl",
		ReferenceLocator:  component.PURL,
	}}
}

func resolveRefs(refs map[string]string, affected []string) []string {
	out := []string{}
	for _, id := range affected {
		ref, ok := refs[id]
		if !ok {
			log.Warn("finding references unknown component '%s'", id)
			continue
		}
		out = append(out, ref)
	}
	return out
}
