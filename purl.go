package bomsign

import (
	"fmt"
	"strings"
)

// PURL package type
const (
	GenericPackage = "generic"
	PypiPackage    = "pypi"
	NpmPackage     = "npm"
	CargoPackage   = "cargo"
	PubPackage     = "pub"
)

// PURL returns a package URL for the specified package type, name, and version
func PURL(packageType string, name string, version string) string {
	return fmt.Sprintf("pkg:%s/%s@%s", packageType, strings.ReplaceAll(name, "@", "%40"), version)
}
