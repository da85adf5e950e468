// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clap

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/Leinnan/clapnet/pkg/argv"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// resultShape classifies a function's return list.
type resultShape int

const (
	resultNone resultShape = iota
	resultInt
	resultErr
)

// unknownParamError marks a function parameter whose type has no CLI
// mapping. The builder reports it on the error stream and rejects the
// whole command.
type unknownParamError struct {
	Name string
}

func (e *unknownParamError) Error() string {
	return fmt.Sprintf("unknown parameter: %s", e.Name)
}

// callable is a validated registration: the function plus its checked
// parameter descriptors.
type callable struct {
	fn       reflect.Value
	pkg      string
	fnName   string
	wantsCtx bool
	shape    resultShape
	params   []checkedParam
}

type checkedParam struct {
	Param
	goType reflect.Type
}

// typeLabels renders the full declared parameter list, used as the
// documentation lookup key.
func (c *callable) typeLabels() []string {
	t := c.fn.Type()
	labels := make([]string, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if name := in.Name(); name != "" {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, in.String())
	}
	return labels
}

// newCallable validates a registration against the function's actual
// signature: descriptor kinds must match parameter types in order, an
// optional leading context.Context is allowed, and the result list
// must be empty, a single int, or a single error.
func newCallable(c Cmd) (*callable, error) {
	if c.Fn == nil {
		return nil, errors.New("nil function")
	}
	fv := reflect.ValueOf(c.Fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not a function", c.Fn)
	}
	if ft.IsVariadic() {
		return nil, errors.New("variadic functions are not supported")
	}

	cal := &callable{fn: fv}
	cal.pkg, cal.fnName = funcIdentity(c.Fn)

	offset := 0
	if ft.NumIn() > 0 && ft.In(0) == ctxType {
		cal.wantsCtx = true
		offset = 1
	}

	n := ft.NumIn() - offset
	if len(c.Params) != n {
		return nil, fmt.Errorf("%d parameter descriptor(s) for %d function parameter(s)", len(c.Params), n)
	}

	for i := 0; i < n; i++ {
		pt := ft.In(offset + i)
		p := c.Params[i]
		switch p.Kind {
		case KindSettings:
			st, _, err := settingsValue(p.Prototype)
			if err != nil {
				return nil, fmt.Errorf("parameter %d: %w", i, err)
			}
			if pt != st {
				return nil, fmt.Errorf("parameter %d: settings prototype %s does not match function parameter type %s", i, st, pt)
			}
			cal.params = append(cal.params, checkedParam{Param: p, goType: st})
		case KindText, KindInt, KindBool, KindFloat32, KindFloat64:
			if p.Name == "" {
				return nil, fmt.Errorf("parameter %d: empty name", i)
			}
			bd := binders[p.Kind]
			if pt != bd.goType {
				if _, ok := binderForType(pt); !ok && pt.Kind() != reflect.Struct {
					return nil, &unknownParamError{Name: p.Name}
				}
				return nil, fmt.Errorf("parameter %q: descriptor kind %s does not match function parameter type %s", p.Name, p.Kind, pt)
			}
			if p.HasDefault && reflect.TypeOf(p.Default) != bd.goType {
				return nil, fmt.Errorf("parameter %q: default %v is not %s", p.Name, p.Default, bd.goType)
			}
			cal.params = append(cal.params, checkedParam{Param: p, goType: bd.goType})
		default:
			name := p.Name
			if name == "" {
				name = pt.String()
			}
			return nil, &unknownParamError{Name: name}
		}
	}

	switch ft.NumOut() {
	case 0:
		cal.shape = resultNone
	case 1:
		switch ft.Out(0) {
		case binders[KindInt].goType:
			cal.shape = resultInt
		case errType:
			cal.shape = resultErr
		default:
			return nil, fmt.Errorf("unsupported result type %s", ft.Out(0))
		}
	default:
		return nil, fmt.Errorf("at most one result is supported, function has %d", ft.NumOut())
	}
	return cal, nil
}

// funcIdentity recovers the package and bare symbol name of a
// function value, e.g. "pkg" and "Gather" for pkg.Gather, or "pkg"
// and "Method" for a bound method value.
func funcIdentity(fn any) (pkg, name string) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "", ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "", ""
	}
	full := rf.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.Index(full, "."); i >= 0 {
		pkg = full[:i]
	}
	if i := strings.LastIndex(full, "."); i >= 0 {
		return pkg, full[i+1:]
	}
	return pkg, full
}

// truncateName recovers a stable human name from compiler-synthesized
// local-function names: keep the segment after the last "__", then
// the segment before the first "|", then lowercase.
func truncateName(name string) string {
	if i := strings.LastIndex(name, "__"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.Index(name, "|"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

/// invoker is the invocation thunk built at registration: the exact
// extractor sequence for one command, bound to its function.
type invoker struct {
	fn       reflect.Value
	wantsCtx bool
	shape    resultShape
	extract  []extractor
}

// invoke runs every extractor against the parse result in parameter
// order and calls the function. The returned code is the process exit
// code; err is non-nil only when it should also be reported.
func (iv *invoker) invoke(ctx context.Context, res *argv.Result) (int, error) {
	args := make([]reflect.Value, 0, len(iv.extract)+1)
	if iv.wantsCtx {
		args = append(args, reflect.ValueOf(ctx))
	}
	for _, ex := range iv.extract {
		v, err := ex(res)
		if err != nil {
			return 2, err
		}
		args = append(args, v)
	}
	out := iv.fn.Call(args)
	switch iv.shape {
	case resultInt:
		return int(out[0].Int()), nil
	case resultErr:
		if err, _ := out[0].Interface().(error); err != nil {
			return 1, err
		}
	}
	return 0, nil
}
