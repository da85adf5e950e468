// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"os"
	"path/filepath"
	"testing"
)

const scanFixture = `package demo

// Settings holds shared run options.
type Settings struct {
	// Test enables test mode.
	Test bool

	Other string // Other names a secondary input path.
}

// Gather collects samples into the current run. It returns once all
// samples are on disk.
func Gather(s Settings, test string, assert bool) {}

func undocumented() {}
`

func writeScanFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "demo.go"), []byte(scanFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	// Test files and broken files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "demo_test.go"), []byte("package demo\n\n// Gather does something else entirely.\nfunc helper() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package demo\nfunc {"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSourceScanner(t *testing.T) {
	s := NewSourceScanner(writeScanFixture(t))

	tests := []struct {
		name    string
		id      MemberID
		wantOK  bool
		summary string
	}{
		{"func exact", FuncID("demo", "Gather", "Settings", "string", "bool"), true, "Gather collects samples into the current run."},
		{"func paramless", FuncID("demo", "Gather"), true, "Gather collects samples into the current run."},
		{"type", TypeID("demo", "Settings"), true, "Settings holds shared run options."},
		{"field doc comment", FieldID("Settings", "Test"), true, "Test enables test mode."},
		{"field line comment", FieldID("Settings", "Other"), true, "Other names a secondary input path."},
		{"undocumented func", FuncID("demo", "undocumented"), false, ""},
		{"unknown member", FieldID("Settings", "Missing"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := s.Resolve(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%s) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if d.Summary != tt.summary {
				t.Errorf("Summary = %q, want %q", d.Summary, tt.summary)
			}
		})
	}
}

// Hidden, vendored, and underscore-prefixed directories are not
// scanned.
func TestSourceScannerSkipsDirs(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{".git", "_attic", "vendor", "testdata"} {
		p := filepath.Join(dir, sub)
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatal(err)
		}
		src := "package hidden\n\n// Secret should never be indexed.\nfunc Secret() {}\n"
		if err := os.WriteFile(filepath.Join(p, "hidden.go"), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewSourceScanner(dir)
	if _, ok := s.Resolve(FuncID("hidden", "Secret")); ok {
		t.Error("Resolve() indexed a file under a skipped directory")
	}
}

func TestSourceScannerMissingRoot(t *testing.T) {
	s := NewSourceScanner(filepath.Join(t.TempDir(), "nope"))
	if _, ok := s.Resolve(FuncID("demo", "Gather")); ok {
		t.Error("Resolve() reported a hit for a nonexistent root")
	}
}
