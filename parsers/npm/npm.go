// Package npm reads package-lock.json / npm-shrinkwrap.json lockfiles and
// falls back to package.json dependency tables when no lockfile exists.
package npm

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

const (
	packageLock   = "package-lock.json"
	npmShrinkwrap = "npm-shrinkwrap.json"
	packageJSON   = "package.json"
)

// Parser extracts components from npm projects
type Parser struct{}

func init() {
	bomsign.RegisterParser(&Parser{})
}

// Detect reports whether an npm manifest is present in root
func (p *Parser) Detect(root string) bool {
	return bomsign.ProjectFileExists(root, packageLock) ||
		bomsign.ProjectFileExists(root, npmShrinkwrap) ||
		bomsign.ProjectFileExists(root, packageJSON)
}

// Parse returns the components declared in the npm manifests under root.
// The lockfile is authoritative when present; the manifest's semver ranges
// are only used when no lockfile could be read.
func (p *Parser) Parse(root string) ([]bomsign.Component, error) {
	if lock, ok := readLockfile(root); ok {
		return flattenLockfile(lock), nil
	}
	return readManifest(root), nil
}

func readLockfile(root string) (*lockfile, bool) {
	for _, name := range []string{packageLock, npmShrinkwrap} {
		if !bomsign.ProjectFileExists(root, name) {
			continue
		}
		data, err := bomsign.ReadProjectFile(root, name)
		if err != nil {
			log.Warn("unable to read '%s': %v", name, err)
			continue
		}
		lock := &lockfile{}
		if err := json.Unmarshal(data, lock); err != nil {
			log.Warn("unable to parse '%s': %v", name, err)
			continue
		}
		log.Info("read '%s' in '%s'", name, root)
		return lock, true
	}
	return nil, false
}

// flattenLockfile reads the lockfile's package inventory. Version 2/3
// lockfiles carry it in the flat "packages" map keyed by node_modules path;
// version 1 nests it under "dependencies". Both layouts can list the same
// package at several install locations; the scanner's (name, version)
// deduplication collapses genuine duplicates.
func flattenLockfile(lock *lockfile) []bomsign.Component {
	components := []bomsign.Component{}
	if len(lock.Packages) > 0 {
		for location, info := range lock.Packages {
			name := packageName(location)
			if name == "" {
				// the "" key is the root project itself
				continue
			}
			if info == nil {
				log.Warn("skipping malformed lockfile entry for '%s'", location)
				continue
			}
			version := info.Version
			if version == "" {
				version = bomsign.UnknownVersion
			}
			components = append(components, bomsign.Component{
				Name:         name,
				Version:      version,
				PURL:         bomsign.PURL(bomsign.NpmPackage, name, version),
				Dependencies: sortedKeys(info.Dependencies),
			})
		}
		return components
	}

	var walk func(deps map[string]*dependency)
	walk = func(deps map[string]*dependency) {
		for name, info := range deps {
			if info == nil {
				log.Warn("skipping malformed lockfile entry for '%s'", name)
				continue
			}
			version := info.Version
			if version == "" {
				version = bomsign.UnknownVersion
			}
			components = append(components, bomsign.Component{
				Name:         name,
				Version:      version,
				PURL:         bomsign.PURL(bomsign.NpmPackage, name, version),
				Dependencies: sortedKeys(info.Requires),
			})
			walk(info.Dependencies)
		}
	}
	walk(lock.Dependencies)
	if len(components) == 0 {
		log.Warn("lockfile contains no package entries")
	}
	return components
}

// packageName extracts the package name from a v2/v3 lockfile location key,
// e.g. "node_modules/a/node_modules/@scope/b" -> "@scope/b"
func packageName(location string) string {
	if i := strings.LastIndex(location, "node_modules/"); i >= 0 {
		return location[i+len("node_modules/"):]
	}
	return ""
}

func readManifest(root string) []bomsign.Component {
	data, err := bomsign.ReadProjectFile(root, packageJSON)
	if err != nil {
		log.Warn("unable to read '%s': %v", packageJSON, err)
		return nil
	}
	manifest := &manifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		log.Warn("unable to parse '%s': %v", packageJSON, err)
		return nil
	}
	log.Info("read '%s' in '%s'", packageJSON, root)

	components := []bomsign.Component{}
	for _, deps := range []map[string]string{manifest.Dependencies, manifest.DevDependencies} {
		for name, spec := range deps {
			version := bomsign.ExtractVersion(spec)
			components = append(components, bomsign.Component{
				Name:    name,
				Version: version,
				PURL:    bomsign.PURL(bomsign.NpmPackage, name, version),
			})
		}
	}
	return components
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type lockfile struct {
	Name         string                 `json:"name"`
	Version      string                 `json:"version"`
	Packages     map[string]*pkg        `json:"packages"`
	Dependencies map[string]*dependency `json:"dependencies"`
}

type pkg struct {
	Version      string            `json:"version"`
	Dev          bool              `json:"dev"`
	Dependencies map[string]string `json:"dependencies"`
}

type dependency struct {
	Version      string                 `json:"version"`
	Dev          bool                   `json:"dev"`
	Requires     map[string]string      `json:"requires"`
	Dependencies map[string]*dependency `json:"dependencies"`
}

type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}
