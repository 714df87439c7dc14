// Package vuln defines the vulnerability finding model and the pluggable
// Scanner interface the pipeline hands components to. The pipeline itself
// never talks to a vulnerability database; an implementation of Scanner
// does, and its failures must never corrupt a scan — zero findings is
// always a valid, signable state.
package vuln

import (
	"context"

	"github.com/mattermost/bomsign"
)

// Severity of a finding
type Severity string

// Severity values
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// Finding is a single known vulnerability affecting one or more scanned
// components. AffectedComponents holds "name@version" identities.
type Finding struct {
	ID                 string
	Source             string
	Severity           Severity
	Description        string
	AffectedComponents []string
	CVE                string
	CVSSScore          float64
	FixAvailable       bool
	FixVersion         string
}

// Scanner looks up known vulnerabilities for a component list
type Scanner interface {
	Scan(ctx context.Context, components []bomsign.Component) ([]Finding, error)
}

// Nop is a Scanner that reports no findings. It is the default when no
// vulnerability database has been configured.
type Nop struct{}

// Scan returns an empty finding list
func (Nop) Scan(context.Context, []bomsign.Component) ([]Finding, error) {
	return []Finding{}, nil
}
