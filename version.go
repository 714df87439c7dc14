package bomsign

import "strings"

// UnknownVersion is the placeholder recorded when no usable version can be
// extracted from a dependency specifier.
const UnknownVersion = "unknown"

// ExtractVersion strips comparison operators from a version specifier and
// returns the bare version, e.g. "^1.2.3" -> "1.2.3". Compound specifiers
// keep only the first clause ("<2.0" in ">=1.2,<2.0" is dropped). Returns
// UnknownVersion when nothing version-like remains.
func ExtractVersion(spec string) string {
	spec = strings.TrimSpace(spec)
	if i := strings.IndexAny(spec, ",|"); i >= 0 {
		spec = spec[:i]
	}
	spec = strings.TrimLeft(spec, "^~><=! \t")
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "*" {
		return UnknownVersion
	}
	return spec
}

// ExtractStructuredVersion resolves object-valued dependency specifiers as
// found in Cargo.toml tables and pubspec maps. Recognized shapes, in order:
// a literal "version" key; a "git" key paired with "rev", "tag", or "ref"
// (the revision wins, a bare git source becomes "git"); anything else is
// UnknownVersion.
func ExtractStructuredVersion(spec map[string]interface{}) string {
	if v, ok := spec["version"].(string); ok {
		return ExtractVersion(v)
	}
	if _, ok := spec["git"]; ok {
		for _, key := range []string{"rev", "tag", "ref"} {
			if v, ok := spec[key].(string); ok && v != "" {
				return v
			}
		}
		return "git"
	}
	return UnknownVersion
}
