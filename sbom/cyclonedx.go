package sbom

import (
	"fmt"
	"time"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
	"github.com/mattermost/bomsign/vuln"
)

// CycloneDXDocument is a CycloneDX 1.4 JSON document
type CycloneDXDocument struct {
	BOMFormat       string            `json:"bomFormat"`
	SpecVersion     string            `json:"specVersion"`
	SerialNumber    string            `json:"serialNumber"`
	Version         int               `json:"version"`
	Metadata        CDXMetadata       `json:"metadata"`
	Components      []CDXComponent    `json:"components"`
	Vulnerabilities []CDXVulnerability `json:"vulnerabilities"`
}

// DocumentFormat identifies the document as component-graph shaped
func (*CycloneDXDocument) DocumentFormat() Format { return FormatCycloneDX }

// CDXMetadata is the document metadata block
type CDXMetadata struct {
	Timestamp string         `json:"timestamp"`
	Tools     []CDXTool      `json:"tools"`
	Component *CDXComponent  `json:"component,omitempty"`
}

// CDXTool identifies the producing tool
type CDXTool struct {
	Vendor  string `json:"vendor"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CDXComponent is a single dependency entry. Unlike the SPDX builder, an
// unknown license is omitted entirely rather than recorded as a sentinel.
type CDXComponent struct {
	BOMRef   string             `json:"bom-ref"`
	Type     string             `json:"type"`
	Name     string             `json:"name"`
	Version  string             `json:"version"`
	PURL     string             `json:"purl,omitempty"`
	Licenses []CDXLicenseChoice `json:"licenses,omitempty"`
	Hashes   []CDXHash          `json:"hashes,omitempty"`
}

// CDXLicenseChoice wraps one license entry
type CDXLicenseChoice struct {
	License CDXLicense `json:"license"`
}

// CDXLicense names a license by SPDX id
type CDXLicense struct {
	ID string `json:"id"`
}

// CDXHash is one checksum of a component
type CDXHash struct {
	Alg     string `json:"alg"`
	Content string `json:"content"`
}

// CDXVulnerability embeds a finding, referencing components by bom-ref
type CDXVulnerability struct {
	ID             string      `json:"id"`
	Source         CDXSource   `json:"source"`
	Description    string      `json:"description"`
	Ratings        []CDXRating `json:"ratings"`
	Affects        []CDXAffect `json:"affects"`
	Recommendation string      `json:"recommendation,omitempty"`
}

// CDXSource names the advisory database a vulnerability came from
type CDXSource struct {
	Name string `json:"name"`
}

// CDXRating carries severity and score
type CDXRating struct {
	Severity string  `json:"severity"`
	Score    float64 `json:"score,omitempty"`
	Method   string  `json:"method,omitempty"`
}

// CDXAffect references an affected component
type CDXAffect struct {
	Ref string `json:"ref"`
}

func buildCycloneDX(components []bomsign.Component, findings []vuln.Finding, projectName string) *CycloneDXDocument {
	doc := &CycloneDXDocument{
		BOMFormat:    CycloneDXFormatTag,
		SpecVersion:  CycloneDXSpecVersion,
		SerialNumber: newSerialNumber(),
		Version:      1,
		Metadata: CDXMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Tools: []CDXTool{{
				Vendor:  "Mattermost",
				Name:    bomsign.Name,
				Version: bomsign.Version,
			}},
			Component: &CDXComponent{
				BOMRef:  projectName,
				Type:    "application",
				Name:    projectName,
				Version: bomsign.UnknownVersion,
			},
		},
		Components:      []CDXComponent{},
		Vulnerabilities: []CDXVulnerability{},
	}

	refs := make(map[string]string, len(components))
	for _, component := range components {
		ref := component.PURL
		if ref == "" {
			ref = component.ID()
		}
		refs[component.ID()] = ref
		entry := CDXComponent{
			BOMRef:  ref,
			Type:    "library",
			Name:    component.Name,
			Version: component.Version,
			PURL:    component.PURL,
			Hashes:  cdxHashes(component.Checksums),
		}
		if component.License != "" {
			entry.Licenses = []CDXLicenseChoice{{License: CDXLicense{ID: component.License}}}
		}
		doc.Components = append(doc.Components, entry)
	}

	for _, finding := range findings {
		entry := CDXVulnerability{
			ID:          finding.ID,
			Source:      CDXSource{Name: finding.Source},
			Description: finding.Description,
			Ratings: []CDXRating{{
				Severity: string(finding.Severity),
				Score:    finding.CVSSScore,
				Method:   ratingMethod(finding),
			}},
			Affects: cdxAffects(refs, finding.AffectedComponents),
		}
		if finding.FixAvailable && finding.FixVersion != "" {
			entry.Recommendation = fmt.Sprintf("upgrade to version %s", finding.FixVersion)
		}
		doc.Vulnerabilities = append(doc.Vulnerabilities, entry)
	}

	return doc
}

func cdxHashes(checksums map[string]string) []CDXHash {
	if len(checksums) == 0 {
		return nil
	}
	hashes := make([]CDXHash, 0, len(checksums))
	for _, alg := range []string{"MD5", "SHA-1", "SHA1", "SHA256", "SHA-256", "SHA512", "SHA-512"} {
		if content, ok := checksums[alg]; ok {
			hashes = append(hashes, CDXHash{Alg: canonicalAlg(alg), Content: content})
		}
	}
	return hashes
}

func canonicalAlg(alg string) string {
	switch alg {
	case "SHA1", "SHA-1":
		return "SHA-1"
	case "SHA256", "SHA-256":
		return "SHA-256"
	case "SHA512", "SHA-512":
		return "SHA-512"
	default:
		return alg
	}
}

func ratingMethod(finding vuln.Finding) string {
	if finding.CVSSScore > 0 {
		return "CVSSv3"
	}
	return ""
}

func cdxAffects(refs map[string]string, affected []string) []CDXAffect {
	out := []CDXAffect{}
	for _, id := range affected {
		ref, ok := refs[id]
		if !ok {
			log.Warn("finding references unknown component '%s'", id)
			continue
		}
		out = append(out, CDXAffect{Ref: ref})
	}
	return out
}
