// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// Extract parses the Go files directly in dir (tests excluded) and
// returns manifest entries for the documented members, first
// declaration winning on key collisions. Files that fail to parse are
// skipped, matching SourceScanner.
func Extract(dir string) (map[string]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	out := make(map[string]Entry)
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			continue
		}
		collectFile(f, func(key string, d Doc) {
			if _, ok := out[key]; !ok {
				out[key] = Entry{Summary: d.Summary, Params: d.Params}
			}
		})
	}
	return out, nil
}
