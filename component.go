package bomsign

// Component describes a single third-party dependency discovered in a
// project. Parsers construct Components, the license detector fills in the
// License field, and everything downstream treats them as read-only.
type Component struct {
	Name         string
	Version      string
	PURL         string
	License      string
	Copyright    string
	Supplier     string
	Author       string
	Checksums    map[string]string
	Dependencies []string
}

// ID returns the component's identity as used for deduplication and for
// cross-referencing vulnerability findings.
func (c *Component) ID() string {
	return c.Name + "@" + c.Version
}
