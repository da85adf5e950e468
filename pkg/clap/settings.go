// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clap

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/Leinnan/clapnet/pkg/argv"
	"github.com/Leinnan/clapnet/pkg/docs"
	"github.com/Leinnan/clapnet/pkg/naming"
	"github.com/charmbracelet/log"
)

// settingsRegistry memoizes settings types. The first registration of
// a type declares its options and builds the rehydration factory;
// every later registration returns the cached factory unchanged, even
// under a different naming convention or target command.
type settingsRegistry struct {
	mu      sync.Mutex
	entries map[reflect.Type]extractor
}

func newSettingsRegistry() *settingsRegistry {
	return &settingsRegistry{entries: make(map[reflect.Type]extractor)}
}

// ensure registers the prototype's type against target and returns
// the factory that reconstructs an instance from a parse result.
func (r *settingsRegistry) ensure(proto any, target *argv.Command, conv naming.Convention, recursive bool, resolver docs.Resolver, logger *log.Logger) (extractor, error) {
	st, sv, err := settingsValue(proto)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if factory, ok := r.entries[st]; ok {
		return factory, nil
	}

	type boundField struct {
		index   int
		extract extractor
	}
	var fields []boundField

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		bd, ok := optionEligible(f.Type)
		if !ok {
			logger.Debug("skipping settings field with unsupported type",
				"settings", st.Name(), "field", f.Name, "type", f.Type.String())
			continue
		}

		name := f.Tag.Get("flag")
		if name == "" {
			name = naming.Convert(f.Name, conv)
		}
		desc := f.Tag.Get("help")
		if desc == "" {
			if d, ok := resolver.Resolve(docs.FieldID(st.Name(), f.Name)); ok {
				desc = d.Summary
			}
		}

		def := sv.Field(i)
		if env := f.Tag.Get("env"); env != "" {
			if raw, ok := os.LookupEnv(env); ok {
				if v, err := bd.parse(raw); err == nil {
					def = v
				} else {
					logger.Warn("ignoring malformed environment default",
						"settings", st.Name(), "field", f.Name, "env", env, "value", raw)
				}
			}
		}

		if err := bd.declareOption(target, name, desc, def, recursive); err != nil {
			return nil, fmt.Errorf("settings %s: field %s: %w", st.Name(), f.Name, err)
		}
		fields = append(fields, boundField{index: i, extract: bd.optionExtractor(name, def)})
	}

	base := reflect.New(st).Elem()
	base.Set(sv)
	factory := func(res *argv.Result) (reflect.Value, error) {
		out := reflect.New(st).Elem()
		out.Set(base)
		for _, f := range fields {
			v, err := f.extract(res)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(f.index).Set(v)
		}
		return out, nil
	}
	r.entries[st] = factory
	return factory, nil
}

// settingsValue normalizes a prototype to its struct type and value.
// Pointers are dereferenced; a nil pointer contributes zero defaults.
func settingsValue(proto any) (reflect.Type, reflect.Value, error) {
	if proto == nil {
		return nil, reflect.Value{}, errors.New("nil settings prototype")
	}
	v := reflect.ValueOf(proto)
	t := v.Type()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		if v.IsNil() {
			v = reflect.New(t).Elem()
		} else {
			v = v.Elem()
		}
	}
	if t.Kind() != reflect.Struct {
		return nil, reflect.Value{}, fmt.Errorf("settings prototype %s is not a struct", t)
	}
	return t, v, nil
}
