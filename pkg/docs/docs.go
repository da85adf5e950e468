// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package docs resolves human-readable descriptions for commands,
// parameters, and settings fields. Lookups are best-effort: a miss or
// an unreadable artifact yields "no description", never an error.
//
// Two providers ship with the package. Manifest reads a structured
// sidecar file generated ahead of time (see cmd/clapdoc), and
// SourceScanner heuristically indexes doc comments from Go source on
// disk. Chain ranks providers and caches results for the life of the
// process.
package docs

import (
	"os"
	"strings"
	"sync"
)

// Member kinds used in identifiers.
const (
	KindFunc  = "func"
	KindType  = "type"
	KindField = "field"
)

// MemberID is a stable identifier for a documented member, rendered
// as "kind:Owner.Name(param,param)". Owner is the package name for
// funcs and types, and the struct type name for fields. The
// parenthesized parameter-type list applies to funcs only.
type MemberID struct {
	Kind   string
	Owner  string
	Name   string
	Params []string
}

// FuncID returns the identifier for a function, optionally qualified
// by its parameter type names.
func FuncID(pkg, name string, params ...string) MemberID {
	return MemberID{Kind: KindFunc, Owner: pkg, Name: name, Params: params}
}

// TypeID returns the identifier for a named type.
func TypeID(pkg, name string) MemberID {
	return MemberID{Kind: KindType, Owner: pkg, Name: name}
}

// FieldID returns the identifier for a struct field.
func FieldID(owner, name string) MemberID {
	return MemberID{Kind: KindField, Owner: owner, Name: name}
}

func (id MemberID) String() string {
	var b strings.Builder
	b.WriteString(id.Kind)
	b.WriteByte(':')
	if id.Owner != "" {
		b.WriteString(id.Owner)
		b.WriteByte('.')
	}
	b.WriteString(id.Name)
	if id.Kind == KindFunc {
		b.WriteByte('(')
		b.WriteString(strings.Join(id.Params, ","))
		b.WriteByte(')')
	}
	return b.String()
}

// Keys returns the lookup keys for the identifier, most specific
// first. Funcs additionally match without their parameter list so a
// provider indexed from a different vantage point still hits.
func (id MemberID) Keys() []string {
	keys := []string{id.String()}
	if id.Kind == KindFunc && len(id.Params) > 0 {
		bare := id
		bare.Params = nil
		keys = append(keys, bare.String())
	}
	return keys
}

// Doc is a resolved description: a one-line summary and optional
// per-parameter text keyed by parameter name.
type Doc struct {
	Summary string
	Params  map[string]string
}

// Param returns the description for the named parameter, or "".
func (d Doc) Param(name string) string {
	return d.Params[name]
}

// Resolver looks up the description for a member. Implementations
// must be safe to call repeatedly and must never fail: a member with
// no known description reports ok == false.
type Resolver interface {
	Resolve(id MemberID) (Doc, bool)
}

// Chain queries resolvers in order and returns the first hit. Results
// (including misses) are cached for the process lifetime. Safe for
// concurrent use.
type Chain struct {
	mu        sync.Mutex
	resolvers []Resolver
	cache     map[string]chainEntry
}

type chainEntry struct {
	doc Doc
	ok  bool
}

// NewChain builds a Chain over the given resolvers, ranked first to
// last.
func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{
		resolvers: resolvers,
		cache:     make(map[string]chainEntry),
	}
}

func (c *Chain) Resolve(id MemberID) (Doc, bool) {
	key := id.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cache[key]; ok {
		return e.doc, e.ok
	}
	var e chainEntry
	for _, r := range c.resolvers {
		if d, ok := r.Resolve(id); ok {
			e = chainEntry{doc: d, ok: true}
			break
		}
	}
	c.cache[key] = e
	return e.doc, e.ok
}

// Discover assembles the default resolver chain for the running
// program: a manifest sidecar next to the executable when one exists,
// then a scan of Go source under the working directory. Every failure
// along the way simply narrows the chain.
func Discover() Resolver {
	resolvers := make([]Resolver, 0, 2)
	if exe, err := os.Executable(); err == nil {
		if m := discoverManifest(exe); m != nil {
			resolvers = append(resolvers, m)
		}
	}
	resolvers = append(resolvers, NewSourceScanner("."))
	return NewChain(resolvers...)
}
