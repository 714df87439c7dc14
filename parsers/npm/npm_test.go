package npm

import (
	"testing"
)

func TestParseLockfile(t *testing.T) {
	p := Parser{}

	if !p.Detect("./testdata/testpackage") {
		t.Fatal("expected Detect to find package-lock.json")
	}

	components, err := p.Parse("./testdata/testpackage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := 0
	expected := map[string]string{
		"js-tokens":     "pkg:npm/js-tokens@4.0.0",
		"loose-envify":  "pkg:npm/loose-envify@1.4.0",
		"object-assign": "pkg:npm/object-assign@4.1.1",
		"react":         "pkg:npm/react@17.0.1",
	}
	for _, component := range components {
		if purl, ok := expected[component.Name]; ok && purl == component.PURL {
			found++
		} else if ok && purl != component.PURL {
			t.Errorf("unexpected purl: expected '%s', saw '%s'", purl, component.PURL)
		} else {
			t.Errorf("unexpected component: '%s'", component.Name)
		}
	}
	if found != len(expected) {
		t.Errorf("expected %d components, saw %d", len(expected), found)
	}
}

func TestParseLockfileDependencies(t *testing.T) {
	p := Parser{}
	components, err := p.Parse("./testdata/testpackage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, component := range components {
		if component.Name != "react" {
			continue
		}
		if len(component.Dependencies) != 2 {
			t.Fatalf("expected react to require 2 packages, saw %d", len(component.Dependencies))
		}
		// requires keys are recorded sorted
		if component.Dependencies[0] != "loose-envify" || component.Dependencies[1] != "object-assign" {
			t.Errorf("unexpected dependencies: %v", component.Dependencies)
		}
		return
	}
	t.Fatal("react not found in components")
}

func TestParseLockfileV3(t *testing.T) {
	p := Parser{}

	// npm 7+ lockfiles carry the inventory in a flat "packages" map keyed
	// by install path; there is no nested "dependencies" tree to walk
	components, err := p.Parse("./testdata/lockv3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := 0
	expected := map[string][]string{
		"pkg:npm/js-tokens@4.0.0":     nil,
		"pkg:npm/js-tokens@3.0.2":     nil,
		"pkg:npm/loose-envify@1.4.0":  {"js-tokens"},
		"pkg:npm/object-assign@4.1.1": nil,
		"pkg:npm/react@17.0.1":        {"loose-envify", "object-assign"},
	}
	for _, component := range components {
		deps, ok := expected[component.PURL]
		if !ok {
			t.Errorf("unexpected component: '%s' (%s)", component.Name, component.PURL)
			continue
		}
		found++
		if len(component.Dependencies) != len(deps) {
			t.Errorf("unexpected dependencies for '%s': %v", component.Name, component.Dependencies)
			continue
		}
		for i, dep := range deps {
			if component.Dependencies[i] != dep {
				t.Errorf("unexpected dependencies for '%s': %v", component.Name, component.Dependencies)
			}
		}
	}
	if found != len(expected) {
		t.Errorf("expected %d components, saw %d", len(expected), found)
	}
}

func TestParseManifestFallback(t *testing.T) {
	p := Parser{}

	components, err := p.Parse("./testdata/manifestonly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := 0
	expected := map[string]string{
		"left-pad": "pkg:npm/left-pad@1.3.0",
		"lodash":   "pkg:npm/lodash@4.17.21",
		"jest":     "pkg:npm/jest@29.0.0",
	}
	for _, component := range components {
		if purl, ok := expected[component.Name]; ok && purl == component.PURL {
			found++
		} else {
			t.Errorf("unexpected component: '%s' (%s)", component.Name, component.PURL)
		}
	}
	if found != len(expected) {
		t.Errorf("expected %d components, saw %d", len(expected), found)
	}
}
