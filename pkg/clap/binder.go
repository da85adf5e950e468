// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clap

import (
	"reflect"
	"strconv"

	"github.com/Leinnan/clapnet/pkg/argv"
)

// extractor pulls one native value out of a completed parse.
type extractor func(*argv.Result) (reflect.Value, error)

// binder knows, for one primitive kind, how to declare a parser spec
// and how to convert its raw parsed value back to the native type.
type binder struct {
	kind     Kind
	goType   reflect.Type
	argvKind argv.Kind
	parse    func(raw string) (reflect.Value, error)
	format   func(v reflect.Value) string
}

var binders = map[Kind]*binder{
	KindText: {
		kind:     KindText,
		goType:   reflect.TypeOf(""),
		argvKind: argv.Text,
		parse: func(raw string) (reflect.Value, error) {
			return reflect.ValueOf(raw), nil
		},
		format: func(v reflect.Value) string { return v.String() },
	},
	KindInt: {
		kind:     KindInt,
		goType:   reflect.TypeOf(int(0)),
		argvKind: argv.Int,
		parse: func(raw string) (reflect.Value, error) {
			n, err := strconv.Atoi(raw)
			return reflect.ValueOf(n), err
		},
		format: func(v reflect.Value) string { return strconv.FormatInt(v.Int(), 10) },
	},
	KindBool: {
		kind:     KindBool,
		goType:   reflect.TypeOf(false),
		argvKind: argv.Bool,
		parse: func(raw string) (reflect.Value, error) {
			b, err := strconv.ParseBool(raw)
			return reflect.ValueOf(b), err
		},
		format: func(v reflect.Value) string { return strconv.FormatBool(v.Bool()) },
	},
	KindFloat32: {
		kind:     KindFloat32,
		goType:   reflect.TypeOf(float32(0)),
		argvKind: argv.Float32,
		parse: func(raw string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(raw, 32)
			return reflect.ValueOf(float32(f)), err
		},
		format: func(v reflect.Value) string { return strconv.FormatFloat(v.Float(), 'g', -1, 32) },
	},
	KindFloat64: {
		kind:     KindFloat64,
		goType:   reflect.TypeOf(float64(0)),
		argvKind: argv.Float64,
		parse: func(raw string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(raw, 64)
			return reflect.ValueOf(f), err
		},
		format: func(v reflect.Value) string { return strconv.FormatFloat(v.Float(), 'g', -1, 64) },
	},
}

// binderForType matches a Go type to its primitive binder. Named
// types over a primitive kind do not qualify.
func binderForType(t reflect.Type) (*binder, bool) {
	for _, bd := range binders {
		if t == bd.goType {
			return bd, true
		}
	}
	return nil, false
}

// optionEligible reports whether the type may back a named option.
// 64-bit floats are positional-only.
func optionEligible(t reflect.Type) (*binder, bool) {
	bd, ok := binderForType(t)
	if !ok || bd.kind == KindFloat64 {
		return nil, false
	}
	return bd, true
}

func (bd *binder) declarePositional(cmd *argv.Command, name, desc string, hasDefault bool, def reflect.Value) error {
	return cmd.AddPositional(argv.Positional{
		Name:        name,
		Kind:        bd.argvKind,
		Description: desc,
		Required:    !hasDefault,
		Default:     bd.displayDefault(hasDefault, def),
	})
}

func (bd *binder) declareOption(cmd *argv.Command, name, desc string, def reflect.Value, recursive bool) error {
	return cmd.AddOption(argv.Option{
		Name:        name,
		Kind:        bd.argvKind,
		Description: desc,
		Default:     bd.displayDefault(true, def),
		Recursive:   recursive,
	})
}

// displayDefault renders a default for help text, suppressing zero
// values so help stays quiet about them.
func (bd *binder) displayDefault(hasDefault bool, def reflect.Value) string {
	if !hasDefault || def.IsZero() {
		return ""
	}
	return bd.format(def)
}

// positionalExtractor converts the raw value at index i, falling back
// to def when the argument was not provided.
func (bd *binder) positionalExtractor(i int, def reflect.Value) extractor {
	return func(res *argv.Result) (reflect.Value, error) {
		raw, ok := res.Positional(i)
		if !ok {
			return def, nil
		}
		return bd.parse(raw)
	}
}

// optionExtractor converts the named option's raw value, falling back
// to def when the flag was not set.
func (bd *binder) optionExtractor(name string, def reflect.Value) extractor {
	return func(res *argv.Result) (reflect.Value, error) {
		raw, ok := res.Option(name)
		if !ok {
			return def, nil
		}
		return bd.parse(raw)
	}
}
