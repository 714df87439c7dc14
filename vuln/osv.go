package vuln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

// DefaultOSVEndpoint is the public osv.dev query API
const DefaultOSVEndpoint = "https://api.osv.dev/v1/query"

// purl type -> OSV ecosystem name
var osvEcosystems = map[string]string{
	bomsign.PypiPackage:  "PyPI",
	bomsign.NpmPackage:   "npm",
	bomsign.CargoPackage: "crates.io",
	bomsign.PubPackage:   "Pub",
}

// OSVScanner queries the OSV API for each component. Lookup failures are
// logged and skipped; an unreachable service produces zero findings rather
// than failing the pipeline.
type OSVScanner struct {
	Endpoint string
	Client   *http.Client
}

// NewOSVScanner returns an OSVScanner against the public osv.dev API
func NewOSVScanner() *OSVScanner {
	return &OSVScanner{
		Endpoint: DefaultOSVEndpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Scan queries OSV for every component and aggregates the findings
func (s *OSVScanner) Scan(ctx context.Context, components []bomsign.Component) ([]Finding, error) {
	findings := []Finding{}
	for _, component := range components {
		results, err := s.query(ctx, component)
		if err != nil {
			log.Warn("OSV lookup failed for '%s': %v", component.ID(), err)
			continue
		}
		findings = append(findings, results...)
	}
	return findings, nil
}

func (s *OSVScanner) query(ctx context.Context, component bomsign.Component) ([]Finding, error) {
	ecosystem, ok := osvEcosystems[purlType(component.PURL)]
	if !ok {
		log.Trace("no OSV ecosystem for '%s'", component.ID())
		return nil, nil
	}

	payload, err := json.Marshal(osvQuery{
		Version: component.Version,
		Package: osvPackage{Name: component.Name, Ecosystem: ecosystem},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV API returned status %d", resp.StatusCode)
	}

	var result osvResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	findings := make([]Finding, 0, len(result.Vulns))
	for _, v := range result.Vulns {
		finding := Finding{
			ID:                 v.ID,
			Source:             "osv.dev",
			Severity:           severityFromOSV(v),
			Description:        v.Summary,
			AffectedComponents: []string{component.ID()},
			CVE:                cveAlias(v.Aliases),
			CVSSScore:          scoreFromOSV(v),
		}
		finding.FixVersion = fixedVersion(v)
		finding.FixAvailable = finding.FixVersion != ""
		findings = append(findings, finding)
	}
	return findings, nil
}

func purlType(purl string) string {
	rest := strings.TrimPrefix(purl, "pkg:")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return ""
}

func cveAlias(aliases []string) string {
	for _, alias := range aliases {
		if strings.HasPrefix(alias, "CVE-") {
			return alias
		}
	}
	return ""
}

func severityFromOSV(v osvVuln) Severity {
	if s, ok := v.Database["severity"].(string); ok {
		switch strings.ToLower(s) {
		case "low":
			return SeverityLow
		case "moderate", "medium":
			return SeverityMedium
		case "high":
			return SeverityHigh
		case "critical":
			return SeverityCritical
		}
	}
	switch score := scoreFromOSV(v); {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score > 0:
		return SeverityLow
	}
	return SeverityUnknown
}

func scoreFromOSV(v osvVuln) float64 {
	for _, s := range v.Severity {
		if s.Score == "" {
			continue
		}
		// OSV emits CVSS vector strings here; a bare number only appears
		// in non-standard feeds
		if strings.HasPrefix(s.Score, "CVSS:3") {
			if score, ok := cvss3BaseScore(s.Score); ok {
				return score
			}
			continue
		}
		if f, err := strconv.ParseFloat(s.Score, 64); err == nil {
			return f
		}
	}
	return 0
}

// cvss3BaseScore computes the base score of a CVSS v3.0/v3.1 vector string
// such as "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H".
func cvss3BaseScore(vector string) (float64, bool) {
	metrics := map[string]string{}
	for _, part := range strings.Split(vector, "/")[1:] {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return 0, false
		}
		metrics[key] = value
	}

	changed := metrics["S"] == "C"
	weights := map[string]map[string]float64{
		"AV": {"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2},
		"AC": {"L": 0.77, "H": 0.44},
		"UI": {"N": 0.85, "R": 0.62},
		"C":  {"H": 0.56, "L": 0.22, "N": 0},
		"I":  {"H": 0.56, "L": 0.22, "N": 0},
		"A":  {"H": 0.56, "L": 0.22, "N": 0},
	}
	if changed {
		weights["PR"] = map[string]float64{"N": 0.85, "L": 0.68, "H": 0.5}
	} else {
		weights["PR"] = map[string]float64{"N": 0.85, "L": 0.62, "H": 0.27}
	}

	value := func(metric string) (float64, bool) {
		w, ok := weights[metric][metrics[metric]]
		return w, ok
	}
	av, ok1 := value("AV")
	ac, ok2 := value("AC")
	pr, ok3 := value("PR")
	ui, ok4 := value("UI")
	c, ok5 := value("C")
	i, ok6 := value("I")
	a, ok7 := value("A")
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return 0, false
	}

	iss := 1 - (1-c)*(1-i)*(1-a)
	var impact float64
	if changed {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	if impact <= 0 {
		return 0, true
	}
	exploitability := 8.22 * av * ac * pr * ui

	score := impact + exploitability
	if changed {
		score = 1.08 * score
	}
	if score > 10 {
		score = 10
	}
	// the spec rounds up to one decimal place
	return math.Ceil(score*10) / 10, true
}

func fixedVersion(v osvVuln) string {
	for _, affected := range v.Affected {
		for _, r := range affected.Ranges {
			for _, event := range r.Events {
				if event.Fixed != "" {
					return event.Fixed
				}
			}
		}
	}
	return ""
}

type osvQuery struct {
	Version string     `json:"version"`
	Package osvPackage `json:"package"`
}

type osvPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvResponse struct {
	Vulns []osvVuln `json:"vulns"`
}

type osvVuln struct {
	ID       string                 `json:"id"`
	Summary  string                 `json:"summary"`
	Aliases  []string               `json:"aliases"`
	Database map[string]interface{} `json:"database_specific"`
	Severity []struct {
		Type  string `json:"type"`
		Score string `json:"score"`
	} `json:"severity"`
	Affected []struct {
		Ranges []struct {
			Events []struct {
				Fixed string `json:"fixed"`
			} `json:"events"`
		} `json:"ranges"`
	} `json:"affected"`
}
