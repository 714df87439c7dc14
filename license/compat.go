package license

import (
	"fmt"
	"sort"
	"strings"
)

// Issue severity
const (
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Issue describes one potential conflict found by CheckCompatibility
type Issue struct {
	Severity string
	Message  string
	Affected []string
}

// Result is the outcome of a compatibility check
type Result struct {
	Compatible bool
	Issues     []Issue
}

var copyleft = map[string]bool{
	"GPL-2.0-only":  true,
	"GPL-3.0-only":  true,
	"LGPL-2.1-only": true,
	"LGPL-3.0-only": true,
	"AGPL-3.0-only": true,
	"MPL-2.0":       true,
	"EPL-2.0":       true,
}

var strongCopyleft = map[string]bool{
	"GPL-2.0-only": true,
	"GPL-3.0-only": true,
	"AGPL-3.0-only": true,
}

// CheckCompatibility flags known-problematic license combinations. It
// covers only a handful of license families and is a hint for a human
// reviewer, not a legal determination.
func CheckCompatibility(ids []string) Result {
	var (
		copylefts       []string
		strongCopylefts []string
		proprietary     []string
	)
	for _, id := range dedupeSorted(ids) {
		if copyleft[id] {
			copylefts = append(copylefts, id)
		}
		if strongCopyleft[id] {
			strongCopylefts = append(strongCopylefts, id)
		}
		if id == "Proprietary" {
			proprietary = append(proprietary, id)
		}
	}

	result := Result{Compatible: true}
	if len(copylefts) > 0 && len(proprietary) > 0 {
		result.Compatible = false
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityHigh,
			Message: fmt.Sprintf("copyleft licenses (%s) cannot be combined with proprietary components",
				strings.Join(copylefts, ", ")),
			Affected: append(append([]string{}, copylefts...), proprietary...),
		})
	}
	if len(strongCopylefts) > 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityMedium,
			Message: fmt.Sprintf("strong copyleft licenses (%s) impose distribution requirements on derived works",
				strings.Join(strongCopylefts, ", ")),
			Affected: strongCopylefts,
		})
	}
	return result
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
