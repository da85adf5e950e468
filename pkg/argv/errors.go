// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"fmt"
)

// Sentinel errors for the built-in help and version surfaces.
var (
	// ErrHelp is returned by Parse after help text was printed.
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned by Parse after the version line was printed.
	ErrVersion = errors.New("version requested")
)

// UnknownFlagError is returned when an undeclared flag is encountered.
type UnknownFlagError struct {
	Flag       string
	SubCommand string // the subcommand being parsed, if any
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag: %s", e.Flag)
}

// UnknownCommandError is returned when the first bare argument matches
// no declared subcommand.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %q", e.Name)
}

// ArgCountError is returned when the wrong number of positional
// arguments is provided.
type ArgCountError struct {
	Expected   string // "1", "1-3"
	Got        int
	SubCommand string
}

func (e *ArgCountError) Error() string {
	if e.SubCommand != "" {
		return fmt.Sprintf("'%s' requires %s argument(s), got %d", e.SubCommand, e.Expected, e.Got)
	}
	return fmt.Sprintf("requires %s argument(s), got %d", e.Expected, e.Got)
}

// ValueError is returned when a flag or positional value cannot be
// parsed as its declared kind.
type ValueError struct {
	Label      string // "--test" for flags, the bare name for positionals
	Value      string
	SubCommand string
	Err        error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Label)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Exit maps a Parse error to a process exit code: 0 for success and
// the help/version sentinels, 2 for anything else.
func Exit(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrHelp), errors.Is(err, ErrVersion):
		return 0
	default:
		return 2
	}
}
