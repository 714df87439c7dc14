package bomsign

import (
	"fmt"
	"path"
	"reflect"
	"strings"
)

// Parser is a set of methods for reading one ecosystem's dependency
// manifests. A Parser reports whether its manifest family is present in a
// project root and, if so, extracts the declared components. Parse must be
// tolerant: malformed entries are skipped with a warning, never raised.
type Parser interface {
	Detect(root string) bool
	Parse(root string) ([]Component, error)
}

var registerCallbacks = []func(key string, p Parser){}

var parsers = make(map[string]Parser)

// RegisterParser registers a Parser for use by bomsign.
// Returns true if the registration replaced an existing Parser.
// Parsers of different type are identified by their package name
// and only one Parser of a specific type can be registered at a time.
func RegisterParser(p Parser) bool {
	key := ResolveName(p)
	_, exists := parsers[key]
	parsers[key] = p
	for _, cb := range registerCallbacks {
		cb(key, p)
	}
	return exists
}

// OnParserRegistered registers a function to be called when a new Parser is added
func OnParserRegistered(callback func(key string, p Parser)) {
	registerCallbacks = append(registerCallbacks, callback)
}

// ResolveName returns the full registry key for a Parser: the import path
// of the package that defines it.
func ResolveName(p Parser) string {
	return reflect.ValueOf(p).Elem().Type().PkgPath()
}

// ResolveShortName returns the last element of a Parser's registry key,
// which is the name users refer to it by on the command line.
func ResolveShortName(p Parser) string {
	return path.Base(ResolveName(p))
}

// Parsers returns the currently registered Parsers as a
// map of parser short name to parser instance
func Parsers() map[string]Parser {
	out := make(map[string]Parser)
	for key, parser := range parsers {
		out[path.Base(key)] = parser
	}
	return out
}

// GetParser looks up a registered Parser by short name or full key
func GetParser(name string) (Parser, error) {
	for key, parser := range parsers {
		if key == name || (path.Base(key) == name && !strings.Contains(name, "/")) {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("no such parser: %s", name)
}
