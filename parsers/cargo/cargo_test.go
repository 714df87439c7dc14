package cargo

import (
	"testing"
)

func TestParseManifest(t *testing.T) {
	p := Parser{}

	if !p.Detect("./testdata/testcrate") {
		t.Fatal("expected Detect to find Cargo.toml")
	}

	components, err := p.Parse("./testdata/testcrate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := 0
	expected := map[string]string{
		"serde":      "pkg:cargo/serde@1.0",
		"rand":       "pkg:cargo/rand@0.8.5",
		"quickcheck": "pkg:cargo/quickcheck@abc123",
		"helper":     "pkg:cargo/helper@unknown",
		"criterion":  "pkg:cargo/criterion@0.5",
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

func TestParseLockfile(t *testing.T) {
	p := Parser{}

	components, err := p.Parse("./testdata/locked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := 0
	expected := map[string]string{
		"itoa":         "pkg:cargo/itoa@1.0.9",
		"serde":        "pkg:cargo/serde@1.0.188",
		"serde_derive": "pkg:cargo/serde_derive@1.0.188",
	}
	for _, component := range components {
		if purl, ok := expected[component.Name]; ok && purl == component.PURL {
			found++
		} else {
			t.Errorf("unexpected component: '%s'", component.Name)
		}
		if component.Name == "serde" {
			if len(component.Dependencies) != 1 || component.Dependencies[0] != "serde_derive" {
				t.Errorf("unexpected serde dependencies: %v", component.Dependencies)
			}
			if component.Checksums["SHA256"] == "" {
				t.Error("expected serde checksum to be recorded")
			}
		}
	}
	if found != len(expected) {
		t.Errorf("expected %d components, saw %d", len(expected), found)
	}
}
