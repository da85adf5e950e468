// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clap turns ordinary Go functions into a command-line
// interface. Each function is registered with a small schema of
// parameter descriptors; clap synthesizes a command tree from them,
// maps primitive parameters to positional arguments and settings
// structs to named options, parses the argument vector, and invokes
// the matching function with converted values. The function's result
// becomes the process exit code.
//
// A minimal program:
//
//	func Hello(name string) { fmt.Println("hello,", name) }
//
//	func main() {
//		os.Exit(clap.New("greet").
//			WithCommand(clap.Cmd{Fn: Hello, Params: []clap.Param{clap.String("name")}}).
//			Run(context.Background(), os.Args[1:]))
//	}
package clap

// Kind tags a parameter descriptor with its value category.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindBool
	KindFloat32
	KindFloat64
	KindSettings
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Param describes one parameter of a registered function. Primitive
// parameters become positional arguments; a settings parameter fans
// out into one named option per eligible struct field.
type Param struct {
	Name        string
	Kind        Kind
	Description string // overrides documentation lookup when set
	HasDefault  bool
	Default     any
	Prototype   any // settings parameters: instance carrying the defaults
}

// String declares a required text parameter.
func String(name string) Param {
	return Param{Name: name, Kind: KindText}
}

// StringDefault declares an optional text parameter.
func StringDefault(name, def string) Param {
	return Param{Name: name, Kind: KindText, HasDefault: true, Default: def}
}

// Int declares a required integer parameter.
func Int(name string) Param {
	return Param{Name: name, Kind: KindInt}
}

// IntDefault declares an optional integer parameter.
func IntDefault(name string, def int) Param {
	return Param{Name: name, Kind: KindInt, HasDefault: true, Default: def}
}

// Bool declares a required boolean parameter.
func Bool(name string) Param {
	return Param{Name: name, Kind: KindBool}
}

// BoolDefault declares an optional boolean parameter.
func BoolDefault(name string, def bool) Param {
	return Param{Name: name, Kind: KindBool, HasDefault: true, Default: def}
}

// Float32 declares a required 32-bit float parameter.
func Float32(name string) Param {
	return Param{Name: name, Kind: KindFloat32}
}

// Float32Default declares an optional 32-bit float parameter.
func Float32Default(name string, def float32) Param {
	return Param{Name: name, Kind: KindFloat32, HasDefault: true, Default: def}
}

// Float64 declares a required 64-bit float parameter. 64-bit floats
// are positional-only: settings fields of this type are skipped.
func Float64(name string) Param {
	return Param{Name: name, Kind: KindFloat64}
}

// Float64Default declares an optional 64-bit float parameter.
func Float64Default(name string, def float64) Param {
	return Param{Name: name, Kind: KindFloat64, HasDefault: true, Default: def}
}

// Settings declares a settings-struct parameter. The prototype's
// field values are the option defaults; a `flag` tag overrides the
// derived option name, `help` the description, and `env` names an
// environment variable whose value replaces the default when set.
func Settings(prototype any) Param {
	return Param{Kind: KindSettings, Prototype: prototype}
}

// Describe returns a copy of the parameter with its description set.
func (p Param) Describe(text string) Param {
	p.Description = text
	return p
}

// Cmd registers one function as a command. Name and Description
// override derivation from the function symbol and documentation
// lookup; Params must describe the function's parameters in order,
// excluding an optional leading context.Context.
type Cmd struct {
	Name        string
	Description string
	Fn          any
	Params      []Param
}
