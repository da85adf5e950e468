// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tomlFixture = `program = "demo"

[members."func:demo.Gather(Settings,string,bool)"]
summary = "Collects samples into the current run."

[members."func:demo.Gather(Settings,string,bool)".params]
test = "Sample label."
assert = "Fail on mismatch."

[members."field:Settings.Other"]
summary = "Secondary input path."
`

const yamlFixture = `program: demo
members:
  "func:demo.Gather(Settings,string,bool)":
    summary: Collects samples into the current run.
    params:
      test: Sample label.
  "field:Settings.Other":
    summary: Secondary input path.
`

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.docs.toml")
	if err := os.WriteFile(path, []byte(tomlFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Program != "demo" {
		t.Errorf("Program = %q, want %q", m.Program, "demo")
	}

	d, ok := m.Resolve(FuncID("demo", "Gather", "Settings", "string", "bool"))
	if !ok {
		t.Fatal("Resolve() missed a present member")
	}
	want := Doc{
		Summary: "Collects samples into the current run.",
		Params:  map[string]string{"test": "Sample label.", "assert": "Fail on mismatch."},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := m.Resolve(FuncID("demo", "Missing")); ok {
		t.Error("Resolve() reported a hit for an absent member")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.docs.yaml")
	if err := os.WriteFile(path, []byte(yamlFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	d, ok := m.Resolve(FieldID("Settings", "Other"))
	if !ok || d.Summary != "Secondary input path." {
		t.Errorf("Resolve(field) = %+v, %v, want secondary input summary", d, ok)
	}
}

// Funcs resolve through the parameterless fallback key when the
// manifest was indexed without a parameter list.
func TestResolveParamlessFallback(t *testing.T) {
	m := &Manifest{Members: map[string]Entry{
		"func:demo.Hello()": {Summary: "Greets someone."},
	}}
	d, ok := m.Resolve(FuncID("demo", "Hello", "string"))
	if !ok || d.Summary != "Greets someone." {
		t.Errorf("Resolve() = %+v, %v, want fallback hit", d, ok)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	src := &Manifest{
		Program: "demo",
		Members: map[string]Entry{
			"func:demo.Hello(string)": {
				Summary: "Greets someone.",
				Params:  map[string]string{"name": "Who to greet."},
			},
			"field:Settings.Test": {Summary: "Enables test mode."},
		},
	}

	for _, name := range []string{
		"demo.docs.toml",
		"demo.docs.yaml",
		"demo.docs.toml.zst",
		"demo.docs.yaml.zst",
		"demo.docs.toml.gz",
		"demo.docs.yml.gz",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := src.WriteFile(path); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(src, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "absent.docs.toml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}

	bad := filepath.Join(dir, "demo.docs.json")
	if err := os.WriteFile(bad, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() accepted an unsupported format")
	}

	mangled := filepath.Join(dir, "demo.docs.toml")
	if err := os.WriteFile(mangled, []byte("[members\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(mangled); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestDiscoverManifest(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "demo")
	m := &Manifest{Members: map[string]Entry{
		"func:demo.Hello()": {Summary: "Greets someone."},
	}}
	if err := m.WriteFile(exe + ".docs.toml"); err != nil {
		t.Fatal(err)
	}

	got := discoverManifest(exe)
	if got == nil {
		t.Fatal("discoverManifest() found nothing")
	}
	if _, ok := got.Resolve(FuncID("demo", "Hello")); !ok {
		t.Error("discovered manifest misses a present member")
	}

	if got := discoverManifest(filepath.Join(dir, "other")); got != nil {
		t.Error("discoverManifest() invented a manifest for a bare executable")
	}
}
