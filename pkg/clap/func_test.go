// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clap

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func sampleGather(dir string) {}

type relay struct{}

func (relay) Send() {}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Program|__TopLevel__Other", "other"},
		{"<Main>g__Gather|0_0", "gather"},
		{"Gather", "gather"},
		{"already_lower", "already_lower"},
		{"A__B__C", "c"},
		{"x|y|z", "x"},
		{" Trimmed ", "trimmed"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := truncateName(tt.in); got != tt.want {
			t.Errorf("truncateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFuncIdentity(t *testing.T) {
	tests := []struct {
		name     string
		fn       any
		wantPkg  string
		wantName string
	}{
		{"package function", sampleGather, "clap", "sampleGather"},
		{"method value", relay{}.Send, "clap", "Send"},
		{"not a function", 42, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, name := funcIdentity(tt.fn)
			if pkg != tt.wantPkg || name != tt.wantName {
				t.Errorf("funcIdentity = (%q, %q), want (%q, %q)", pkg, name, tt.wantPkg, tt.wantName)
			}
		})
	}
}

func TestNewCallableRejects(t *testing.T) {
	tests := []struct {
		name        string
		cmd         Cmd
		wantUnknown string // non-empty: error must be an unknownParamError naming this
	}{
		{
			name: "nil function",
			cmd:  Cmd{},
		},
		{
			name: "not a function",
			cmd:  Cmd{Fn: 42},
		},
		{
			name: "variadic",
			cmd:  Cmd{Fn: func(xs ...string) {}, Params: []Param{String("xs")}},
		},
		{
			name: "descriptor count mismatch",
			cmd:  Cmd{Fn: func(a string) {}},
		},
		{
			name: "kind mismatch on a supported type",
			cmd:  Cmd{Fn: func(a string) {}, Params: []Param{Int("a")}},
		},
		{
			name: "struct parameter needs a settings descriptor",
			cmd:  Cmd{Fn: func(s gatherSettings) {}, Params: []Param{String("s")}},
		},
		{
			name:        "unsupported parameter type",
			cmd:         Cmd{Fn: func(d time.Duration) {}, Params: []Param{String("span")}},
			wantUnknown: "span",
		},
		{
			name:        "unknown descriptor kind",
			cmd:         Cmd{Fn: func(a string) {}, Params: []Param{{Name: "a", Kind: Kind(99)}}},
			wantUnknown: "a",
		},
		{
			name: "settings prototype does not match parameter",
			cmd: Cmd{
				Fn:     func(s gatherSettings) {},
				Params: []Param{Settings(struct{ N int }{})},
			},
		},
		{
			name: "default type mismatch",
			cmd:  Cmd{Fn: func(n int) {}, Params: []Param{{Name: "n", Kind: KindInt, HasDefault: true, Default: "nope"}}},
		},
		{
			name: "empty descriptor name",
			cmd:  Cmd{Fn: func(a string) {}, Params: []Param{String("")}},
		},
		{
			name: "unsupported result type",
			cmd:  Cmd{Fn: func() string { return "" }},
		},
		{
			name: "too many results",
			cmd:  Cmd{Fn: func() (int, error) { return 0, nil }},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCallable(tt.cmd)
			if err == nil {
				t.Fatal("err = nil, want rejection")
			}
			var unknown *unknownParamError
			if errors.As(err, &unknown) != (tt.wantUnknown != "") {
				t.Fatalf("err = %v, wantUnknown %q", err, tt.wantUnknown)
			}
			if tt.wantUnknown != "" && unknown.Name != tt.wantUnknown {
				t.Errorf("unknown parameter %q, want %q", unknown.Name, tt.wantUnknown)
			}
		})
	}
}

func TestNewCallableShapes(t *testing.T) {
	cal, err := newCallable(Cmd{
		Fn:     func(ctx context.Context, name string) error { return nil },
		Params: []Param{String("name")},
	})
	if err != nil {
		t.Fatalf("newCallable = %v", err)
	}
	if !cal.wantsCtx {
		t.Error("wantsCtx = false, want true")
	}
	if cal.shape != resultErr {
		t.Errorf("shape = %v, want resultErr", cal.shape)
	}
	if len(cal.params) != 1 || cal.params[0].goType != reflect.TypeOf("") {
		t.Errorf("params = %+v, want single string", cal.params)
	}

	cal, err = newCallable(Cmd{Fn: func(n int) int { return n }, Params: []Param{Int("n")}})
	if err != nil {
		t.Fatalf("newCallable = %v", err)
	}
	if cal.wantsCtx {
		t.Error("wantsCtx = true, want false")
	}
	if cal.shape != resultInt {
		t.Errorf("shape = %v, want resultInt", cal.shape)
	}

	cal, err = newCallable(Cmd{
		Fn:     func(s gatherSettings) {},
		Params: []Param{Settings(gatherSettings{})},
	})
	if err != nil {
		t.Fatalf("newCallable = %v", err)
	}
	if cal.shape != resultNone {
		t.Errorf("shape = %v, want resultNone", cal.shape)
	}
	if cal.params[0].goType != reflect.TypeOf(gatherSettings{}) {
		t.Errorf("goType = %v, want gatherSettings", cal.params[0].goType)
	}
}

func TestTypeLabels(t *testing.T) {
	cal, err := newCallable(Cmd{
		Fn:     func(ctx context.Context, s gatherSettings, n int) {},
		Params: []Param{Settings(gatherSettings{}), Int("n")},
	})
	if err != nil {
		t.Fatalf("newCallable = %v", err)
	}
	want := []string{"Context", "gatherSettings", "int"}
	if got := cal.typeLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("typeLabels = %v, want %v", got, want)
	}
}
