// Package pub reads pubspec.lock and pubspec.yaml manifests for Dart and
// Flutter projects.
package pub

import (
	"gopkg.in/yaml.v3"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

const (
	pubspecLock = "pubspec.lock"
	pubspecYaml = "pubspec.yaml"
)

// Parser extracts components from pub projects
type Parser struct{}

func init() {
	bomsign.RegisterParser(&Parser{})
}

// Detect reports whether a pub manifest is present in root
func (p *Parser) Detect(root string) bool {
	return bomsign.ProjectFileExists(root, pubspecLock) ||
		bomsign.ProjectFileExists(root, pubspecYaml)
}

// Parse returns the components declared in the pub manifests under root,
// preferring the lockfile's resolved versions over pubspec.yaml ranges.
func (p *Parser) Parse(root string) ([]bomsign.Component, error) {
	if components, ok := parseLockfile(root); ok {
		return components, nil
	}
	return parsePubspec(root), nil
}

func parseLockfile(root string) ([]bomsign.Component, bool) {
	if !bomsign.ProjectFileExists(root, pubspecLock) {
		return nil, false
	}
	data, err := bomsign.ReadProjectFile(root, pubspecLock)
	if err != nil {
		log.Warn("unable to read '%s': %v", pubspecLock, err)
		return nil, false
	}
	lock := &lockfile{}
	if err := yaml.Unmarshal(data, lock); err != nil {
		log.Warn("unable to parse '%s': %v", pubspecLock, err)
		return nil, false
	}
	log.Info("read '%s' in '%s'", pubspecLock, root)

	components := []bomsign.Component{}
	for name, pkg := range lock.Packages {
		version := pkg.Version
		if version == "" {
			version = bomsign.UnknownVersion
		}
		components = append(components, bomsign.Component{
			Name:    name,
			Version: version,
			PURL:    bomsign.PURL(bomsign.PubPackage, name, version),
		})
	}
	return components, true
}

func parsePubspec(root string) []bomsign.Component {
	data, err := bomsign.ReadProjectFile(root, pubspecYaml)
	if err != nil {
		log.Warn("unable to read '%s': %v", pubspecYaml, err)
		return nil
	}
	pubspec := &pubspec{}
	if err := yaml.Unmarshal(data, pubspec); err != nil {
		log.Warn("unable to parse '%s': %v", pubspecYaml, err)
		return nil
	}
	log.Info("read '%s' in '%s'", pubspecYaml, root)

	components := []bomsign.Component{}
	for _, deps := range []map[string]interface{}{pubspec.Dependencies, pubspec.DevDependencies} {
		for name, spec := range deps {
			version := specVersion(name, spec)
			components = append(components, bomsign.Component{
				Name:    name,
				Version: version,
				PURL:    bomsign.PURL(bomsign.PubPackage, name, version),
			})
		}
	}
	return components
}

func specVersion(name string, spec interface{}) string {
	switch value := spec.(type) {
	case nil:
		// "name:" with no constraint is valid pubspec
		return bomsign.UnknownVersion
	case string:
		return bomsign.ExtractVersion(value)
	case map[string]interface{}:
		// pubspec nests the revision under the git key:
		//   git: {url: ..., ref: abc123}
		if git, ok := value["git"].(map[string]interface{}); ok {
			flat := map[string]interface{}{"git": git["url"]}
			for _, key := range []string{"rev", "tag", "ref"} {
				if v, ok := git[key]; ok {
					flat[key] = v
				}
			}
			return bomsign.ExtractStructuredVersion(flat)
		}
		return bomsign.ExtractStructuredVersion(value)
	default:
		log.Warn("unrecognized dependency specifier for '%s'", name)
		return bomsign.UnknownVersion
	}
}

type lockfile struct {
	Packages map[string]struct {
		Version string `yaml:"version"`
	} `yaml:"packages"`
}

type pubspec struct {
	Dependencies    map[string]interface{} `yaml:"dependencies"`
	DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
}
