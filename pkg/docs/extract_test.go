// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"path/filepath"
	"testing"
)

func TestExtract(t *testing.T) {
	got, err := Extract(writeScanFixture(t))
	if err != nil {
		t.Fatalf("Extract = %v", err)
	}

	want := "Gather collects samples into the current run."
	for _, key := range []string{
		"func:demo.Gather(Settings,string,bool)",
		"func:demo.Gather()",
	} {
		if e, ok := got[key]; !ok || e.Summary != want {
			t.Errorf("entry %q = %+v, want summary %q", key, e, want)
		}
	}
	if _, ok := got["type:demo.Settings"]; !ok {
		t.Error("type entry missing")
	}
	if _, ok := got["field:Settings.Test"]; !ok {
		t.Error("field entry missing")
	}
	for _, key := range []string{"func:demo.undocumented()", "func:demo.helper()"} {
		if _, ok := got[key]; ok {
			t.Errorf("entry %q should not exist", key)
		}
	}
}

func TestExtractMissingDir(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Extract() = nil error for a missing directory")
	}
}
