// Package license resolves SPDX license identifiers for scanned components
// and performs a conservative cross-license compatibility check.
package license

import (
	"regexp"
	"strings"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

// canonical SPDX identifiers recognized by the detector
var canonicalIDs = map[string]bool{
	"MIT":            true,
	"Apache-2.0":     true,
	"BSD-2-Clause":   true,
	"BSD-3-Clause":   true,
	"GPL-2.0-only":   true,
	"GPL-3.0-only":   true,
	"LGPL-2.1-only":  true,
	"LGPL-3.0-only":  true,
	"AGPL-3.0-only":  true,
	"MPL-2.0":        true,
	"EPL-2.0":        true,
	"ISC":            true,
	"Unlicense":      true,
	"CC0-1.0":        true,
	"Zlib":           true,
	"Proprietary":    true,
}

// case-insensitive aliases for the canonical identifiers
var aliases = map[string]string{
	"mit license":          "MIT",
	"the mit license":      "MIT",
	"expat":                "MIT",
	"apache":               "Apache-2.0",
	"apache 2":             "Apache-2.0",
	"apache 2.0":           "Apache-2.0",
	"apache-2":             "Apache-2.0",
	"apache license 2.0":   "Apache-2.0",
	"apache software license": "Apache-2.0",
	"asl 2.0":              "Apache-2.0",
	"bsd":                  "BSD-3-Clause",
	"new bsd":              "BSD-3-Clause",
	"bsd license":          "BSD-3-Clause",
	"simplified bsd":       "BSD-2-Clause",
	"gpl":                  "GPL-3.0-only",
	"gplv2":                "GPL-2.0-only",
	"gpl-2.0":              "GPL-2.0-only",
	"gplv3":                "GPL-3.0-only",
	"gpl-3.0":              "GPL-3.0-only",
	"lgpl":                 "LGPL-3.0-only",
	"lgplv2.1":             "LGPL-2.1-only",
	"lgpl-2.1":             "LGPL-2.1-only",
	"lgpl-3.0":             "LGPL-3.0-only",
	"agpl":                 "AGPL-3.0-only",
	"agplv3":               "AGPL-3.0-only",
	"agpl-3.0":             "AGPL-3.0-only",
	"mozilla public license 2.0": "MPL-2.0",
	"mpl 2.0":              "MPL-2.0",
	"eclipse public license": "EPL-2.0",
	"isc license":          "ISC",
	"public domain":        "Unlicense",
	"commercial":           "Proprietary",
	"proprietary license":  "Proprietary",
}

// excerpt patterns matched against declared license strings and against the
// contents of on-disk license files. Order matters: the first match wins, so
// the more specific family members come first.
var excerpts = []struct {
	id      string
	pattern *regexp.Regexp
}{
	{"AGPL-3.0-only", regexp.MustCompile(`(?i)GNU AFFERO GENERAL PUBLIC LICENSE`)},
	{"LGPL-2.1-only", regexp.MustCompile(`(?i)GNU LESSER GENERAL PUBLIC LICENSE[\s\S]{0,40}Version 2\.1`)},
	{"LGPL-3.0-only", regexp.MustCompile(`(?i)GNU LESSER GENERAL PUBLIC LICENSE`)},
	{"GPL-2.0-only", regexp.MustCompile(`(?i)GNU GENERAL PUBLIC LICENSE[\s\S]{0,40}Version 2`)},
	{"GPL-3.0-only", regexp.MustCompile(`(?i)GNU GENERAL PUBLIC LICENSE`)},
	{"Apache-2.0", regexp.MustCompile(`(?i)Apache License[\s\S]{0,40}Version 2\.0`)},
	{"MPL-2.0", regexp.MustCompile(`(?i)Mozilla Public License[,\s]+(v\.\s*|Version\s+)2\.0`)},
	{"MIT", regexp.MustCompile(`(?i)Permission is hereby granted, free of charge`)},
	{"ISC", regexp.MustCompile(`(?i)Permission to use, copy, modify,? and(/or)? distribute this software`)},
	{"BSD-3-Clause", regexp.MustCompile(`(?i)Redistribution and use in source and binary forms[\s\S]+?neither the name`)},
	{"BSD-2-Clause", regexp.MustCompile(`(?i)Redistribution and use in source and binary forms`)},
	{"Unlicense", regexp.MustCompile(`(?i)This is free and unencumbered software released into the public domain`)},
	{"CC0-1.0", regexp.MustCompile(`(?i)CC0 1\.0 Universal`)},
}

// common license file names scanned in the project root
var licenseFiles = []string{
	"LICENSE",
	"LICENSE.txt",
	"LICENSE.md",
	"LICENCE",
	"LICENCE.txt",
	"COPYING",
	"COPYING.txt",
	"COPYING.md",
}

// filenames whose presence alone implies a license. Checked in order and
// the first match wins, so dual-licensed projects (LICENSE-APACHE next to
// LICENSE-MIT) resolve the same way on every run.
var filenameHints = []struct {
	name string
	id   string
}{
	{"UNLICENSE", "Unlicense"},
	{"LICENSE-APACHE", "Apache-2.0"},
	{"LICENSE-MIT", "MIT"},
	{"COPYING.LESSER", "LGPL-3.0-only"},
}

// licenses of widely-used packages, keyed by package name. Matched by exact
// name, then by suffix for scoped names like "@babel/core".
var knownPackages = map[string]string{
	"requests":   "Apache-2.0",
	"urllib3":    "MIT",
	"flask":      "BSD-3-Clause",
	"django":     "BSD-3-Clause",
	"numpy":      "BSD-3-Clause",
	"pandas":     "BSD-3-Clause",
	"pytest":     "MIT",
	"react":      "MIT",
	"lodash":     "MIT",
	"express":    "MIT",
	"axios":      "MIT",
	"webpack":    "MIT",
	"typescript": "Apache-2.0",
	"core":       "MIT", // @babel/core and friends
	"serde":      "MIT",
	"tokio":      "MIT",
	"rand":       "MIT",
	"clap":       "MIT",
	"http":       "BSD-3-Clause",
	"readline":   "GPL-3.0-only",
}

// Detector resolves license identifiers for components
type Detector struct{}

// Detect resolves a component's license. Resolution order: the component's
// own declared license string, license files in the project root, then the
// known-package table. The second return value is false when nothing
// matched; callers treat that as "unknown", not as an error.
func (d *Detector) Detect(component *bomsign.Component, projectRoot string) (string, bool) {
	if id, ok := Normalize(component.License); ok {
		return id, true
	}
	if projectRoot != "" {
		if id, ok := d.detectFromFiles(projectRoot); ok {
			return id, true
		}
	}
	return lookupKnown(component.Name)
}

// Enrich runs Detect over every component and records the result in place.
func (d *Detector) Enrich(components []bomsign.Component, projectRoot string) {
	for i := range components {
		if id, ok := d.Detect(&components[i], projectRoot); ok {
			components[i].License = id
		} else {
			log.Debug("no license resolved for '%s'", components[i].Name)
			components[i].License = ""
		}
	}
}

// Normalize maps a declared license string to a canonical SPDX identifier:
// exact match, then case-insensitive alias, then excerpt pattern.
func Normalize(declared string) (string, bool) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", false
	}
	if canonicalIDs[declared] {
		return declared, true
	}
	lower := strings.ToLower(declared)
	for id := range canonicalIDs {
		if strings.ToLower(id) == lower {
			return id, true
		}
	}
	if id, ok := aliases[lower]; ok {
		return id, true
	}
	for _, excerpt := range excerpts {
		if excerpt.pattern.MatchString(declared) {
			return excerpt.id, true
		}
	}
	return "", false
}

func (d *Detector) detectFromFiles(root string) (string, bool) {
	for _, hint := range filenameHints {
		if bomsign.ProjectFileExists(root, hint.name) {
			return hint.id, true
		}
	}
	for _, name := range licenseFiles {
		if !bomsign.ProjectFileExists(root, name) {
			continue
		}
		data, err := bomsign.ReadProjectFile(root, name)
		if err != nil {
			log.Warn("unable to read '%s': %v", name, err)
			continue
		}
		for _, excerpt := range excerpts {
			if excerpt.pattern.Match(data) {
				return excerpt.id, true
			}
		}
	}
	return "", false
}

func lookupKnown(name string) (string, bool) {
	if id, ok := knownPackages[name]; ok {
		return id, true
	}
	// scoped/namespaced packages match on their final path element
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		if id, ok := knownPackages[name[i+1:]]; ok {
			return id, true
		}
	}
	return "", false
}
