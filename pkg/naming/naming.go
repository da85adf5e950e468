// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package naming converts Go identifiers into the textual forms used
// for generated flag and argument names.
package naming

import (
	"strings"
	"unicode"
)

// Convention selects how an identifier is rendered on the command line.
type Convention int

const (
	// Snake renders identifiers as snake_case. Default.
	Snake Convention = iota
	// Camel renders identifiers as lowerCamelCase.
	Camel
	// Kebab renders identifiers as kebab-case.
	Kebab
)

func (c Convention) String() string {
	switch c {
	case Snake:
		return "snake_case"
	case Camel:
		return "camelCase"
	case Kebab:
		return "kebab-case"
	default:
		return "unknown"
	}
}

// Convert renders ident under the given convention. It is pure and
// total: empty input yields empty output.
func Convert(ident string, c Convention) string {
	switch c {
	case Camel:
		return toCamel(ident)
	case Kebab:
		return separate(ident, '-')
	default:
		return separate(ident, '_')
	}
}

// separate inserts sep before each uppercase rune that directly
// follows a lowercase letter or digit, then lowercases the result.
// A leading run of capitals stays one word: "IOStream" becomes
// "iostream", not "i_o_stream".
func separate(ident string, sep rune) string {
	var b strings.Builder
	b.Grow(len(ident) + 4)
	var prev rune
	for i, r := range ident {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteRune(sep)
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// toCamel folds snake_case tokens into lowerCamelCase: each
// underscore is dropped and the rune after it uppercased, and the
// first rune is forced to lowercase. Input without underscores only
// has its first rune lowered.
func toCamel(ident string) string {
	var b strings.Builder
	b.Grow(len(ident))
	upperNext := false
	for _, r := range ident {
		if r == '_' {
			upperNext = true
			continue
		}
		switch {
		case b.Len() == 0:
			b.WriteRune(unicode.ToLower(r))
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		upperNext = false
	}
	return b.String()
}
