// Package cargo reads Cargo.lock and Cargo.toml manifests for Rust
// projects.
package cargo

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

const (
	cargoLock = "Cargo.lock"
	cargoToml = "Cargo.toml"
)

// Parser extracts components from cargo projects
type Parser struct{}

func init() {
	bomsign.RegisterParser(&Parser{})
}

// Detect reports whether a cargo manifest is present in root
func (p *Parser) Detect(root string) bool {
	return bomsign.ProjectFileExists(root, cargoLock) ||
		bomsign.ProjectFileExists(root, cargoToml)
}

// Parse returns the components declared in the cargo manifests under root.
// Cargo.lock carries resolved versions and the dependency graph, so it is
// preferred; Cargo.toml specifier tables are the fallback.
func (p *Parser) Parse(root string) ([]bomsign.Component, error) {
	if components, ok := parseLockfile(root); ok {
		return components, nil
	}
	return parseManifest(root), nil
}

func parseLockfile(root string) ([]bomsign.Component, bool) {
	if !bomsign.ProjectFileExists(root, cargoLock) {
		return nil, false
	}
	data, err := bomsign.ReadProjectFile(root, cargoLock)
	if err != nil {
		log.Warn("unable to read '%s': %v", cargoLock, err)
		return nil, false
	}
	lock := &lockfile{}
	if err := toml.Unmarshal(data, lock); err != nil {
		log.Warn("unable to parse '%s': %v", cargoLock, err)
		return nil, false
	}
	log.Info("read '%s' in '%s'", cargoLock, root)

	components := []bomsign.Component{}
	for _, pkg := range lock.Package {
		if pkg.Name == "" {
			log.Warn("skipping lockfile package with no name")
			continue
		}
		version := pkg.Version
		if version == "" {
			version = bomsign.UnknownVersion
		}
		components = append(components, bomsign.Component{
			Name:         pkg.Name,
			Version:      version,
			PURL:         bomsign.PURL(bomsign.CargoPackage, pkg.Name, version),
			Checksums:    checksums(pkg.Checksum),
			Dependencies: pkg.Dependencies,
		})
	}
	return components, true
}

func parseManifest(root string) []bomsign.Component {
	data, err := bomsign.ReadProjectFile(root, cargoToml)
	if err != nil {
		log.Warn("unable to read '%s': %v", cargoToml, err)
		return nil
	}
	manifest := &manifest{}
	if err := toml.Unmarshal(data, manifest); err != nil {
		log.Warn("unable to parse '%s': %v", cargoToml, err)
		return nil
	}
	log.Info("read '%s' in '%s'", cargoToml, root)

	components := []bomsign.Component{}
	for _, deps := range []map[string]interface{}{manifest.Dependencies, manifest.DevDependencies, manifest.BuildDependencies} {
		for name, spec := range deps {
			version := specVersion(name, spec)
			components = append(components, bomsign.Component{
				Name:    name,
				Version: version,
				PURL:    bomsign.PURL(bomsign.CargoPackage, name, version),
			})
		}
	}
	return components
}

func specVersion(name string, spec interface{}) string {
	switch value := spec.(type) {
	case string:
		return bomsign.ExtractVersion(value)
	case map[string]interface{}:
		return bomsign.ExtractStructuredVersion(value)
	default:
		log.Warn("unrecognized dependency specifier for '%s'", name)
		return bomsign.UnknownVersion
	}
}

func checksums(checksum string) map[string]string {
	if checksum == "" {
		return nil
	}
	return map[string]string{"SHA256": checksum}
}

type lockfile struct {
	Package []struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Checksum     string   `toml:"checksum"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"package"`
}

type manifest struct {
	Dependencies      map[string]interface{} `toml:"dependencies"`
	DevDependencies   map[string]interface{} `toml:"dev-dependencies"`
	BuildDependencies map[string]interface{} `toml:"build-dependencies"`
}
