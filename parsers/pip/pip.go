// Package pip reads flat requirements-style dependency lists for Python
// projects.
package pip

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/log"
)

var requirementFiles = []string{
	"requirements.txt",
	"requirements-dev.txt",
	"requirements-test.txt",
}

// Parser extracts components from pip requirements files
type Parser struct{}

func init() {
	bomsign.RegisterParser(&Parser{})
}

// Detect reports whether a requirements file is present in root
func (p *Parser) Detect(root string) bool {
	for _, name := range requirementFiles {
		if bomsign.ProjectFileExists(root, name) {
			return true
		}
	}
	return false
}

// Parse returns the components declared in all requirements files under root
func (p *Parser) Parse(root string) ([]bomsign.Component, error) {
	components := []bomsign.Component{}
	for _, name := range requirementFiles {
		if !bomsign.ProjectFileExists(root, name) {
			continue
		}
		data, err := bomsign.ReadProjectFile(root, name)
		if err != nil {
			log.Warn("unable to read '%s': %v", name, err)
			continue
		}
		log.Info("read '%s' in '%s'", name, root)
		components = append(components, parseRequirements(data)...)
	}
	return components, nil
}

func parseRequirements(data []byte) []bomsign.Component {
	components := []bomsign.Component{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		// drop inline comments and environment markers
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if i := strings.Index(line, ";"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		name, version := splitRequirement(line)
		if name == "" {
			log.Warn("skipping unparsable requirement line: '%s'", line)
			continue
		}
		components = append(components, bomsign.Component{
			Name:    name,
			Version: version,
			PURL:    bomsign.PURL(bomsign.PypiPackage, name, version),
		})
	}
	return components
}

func splitRequirement(line string) (name, version string) {
	i := strings.IndexAny(line, "=<>~!^ ")
	if i < 0 {
		name, version = line, bomsign.UnknownVersion
	} else {
		name, version = line[:i], bomsign.ExtractVersion(line[i:])
	}
	// strip extras, e.g. "uvicorn[standard]"
	if j := strings.Index(name, "["); j >= 0 {
		name = name[:j]
	}
	return strings.TrimSpace(name), version
}
