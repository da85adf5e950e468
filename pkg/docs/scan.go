// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// SourceScanner indexes doc comments from Go source files found under
// its roots. The scan runs once, lazily, on the first lookup; files
// that fail to read or parse are skipped. Useful when no manifest was
// generated, e.g. during `go run` from a source checkout.
type SourceScanner struct {
	roots []string
	once  sync.Once
	index map[string]Doc
}

// NewSourceScanner returns a scanner over the given directory roots.
// With no roots it scans the working directory.
func NewSourceScanner(roots ...string) *SourceScanner {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return &SourceScanner{roots: roots}
}

// Resolve implements Resolver.
func (s *SourceScanner) Resolve(id MemberID) (Doc, bool) {
	s.once.Do(s.scan)
	for _, key := range id.Keys() {
		if d, ok := s.index[key]; ok {
			return d, true
		}
	}
	return Doc{}, false
}

func (s *SourceScanner) scan() {
	s.index = make(map[string]Doc)
	fset := token.NewFileSet()
	for _, root := range s.roots {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if skipDir(d.Name(), path, root) {
					return fs.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
			if err != nil {
				return nil
			}
			s.indexFile(f)
			return nil
		})
	}
}

func skipDir(name, path, root string) bool {
	if path == root {
		return false
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

func (s *SourceScanner) indexFile(f *ast.File) {
	collectFile(f, s.put)
}

// collectFile walks one parsed file's declarations and emits a Doc
// under every key a documented member answers to.
func collectFile(f *ast.File, emit func(key string, d Doc)) {
	pkg := f.Name.Name
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Doc == nil {
				continue
			}
			entry := Doc{Summary: doc.Synopsis(d.Doc.Text())}
			params := paramTypes(d.Type.Params)
			emit(FuncID(pkg, d.Name.Name, params...).String(), entry)
			emit(FuncID(pkg, d.Name.Name).String(), entry)
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if text := commentText(ts.Doc, d.Doc); text != "" {
					emit(TypeID(pkg, ts.Name.Name).String(), Doc{Summary: doc.Synopsis(text)})
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				collectFields(ts.Name.Name, st, emit)
			}
		}
	}
}

func collectFields(owner string, st *ast.StructType, emit func(key string, d Doc)) {
	for _, fld := range st.Fields.List {
		text := commentText(fld.Doc, fld.Comment)
		if text == "" {
			continue
		}
		entry := Doc{Summary: doc.Synopsis(text)}
		for _, n := range fld.Names {
			emit(FieldID(owner, n.Name).String(), entry)
		}
	}
}

// put records an entry unless the key is already present; the first
// indexed declaration wins.
func (s *SourceScanner) put(key string, d Doc) {
	if _, ok := s.index[key]; !ok {
		s.index[key] = d
	}
}

// commentText returns the first non-empty comment group's text.
func commentText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g == nil {
			continue
		}
		if text := strings.TrimSpace(g.Text()); text != "" {
			return text
		}
	}
	return ""
}

// paramTypes renders a function's parameter type names in order, one
// entry per declared name ("a, b string" yields two).
func paramTypes(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}
	var out []string
	for _, fld := range fields.List {
		t := types.ExprString(fld.Type)
		n := len(fld.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, t)
		}
	}
	return out
}
