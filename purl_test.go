package bomsign

import "testing"

func TestPURL(t *testing.T) {
	purl := PURL("foo", "bar/baz", "quux")
	if purl != "pkg:foo/bar/baz@quux" {
		t.Fatalf("unexpected PURL output: '%s'", purl)
	}

	scoped := PURL(NpmPackage, "@babel/core", "7.23.0")
	if scoped != "pkg:npm/%40babel/core@7.23.0" {
		t.Fatalf("unexpected PURL output: '%s'", scoped)
	}
}
