// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argv is a declarative command-line parser: callers describe
// a one-level command tree of positional arguments and typed options,
// then hand it an argument vector. Parse returns raw string values
// keyed by declaration; it owns flag tokenization, value validation,
// and the help/version/usage-error surfaces.
package argv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Built-in surface tokens.
const (
	helpFlagShort  = "-h"
	helpFlagLong   = "--help"
	helpCommand    = "help"
	versionFlag    = "--version"
	versionCommand = "version"
)

// Kind is the declared value type of a positional or option.
type Kind int

const (
	Text Kind = iota
	Int
	Bool
	Float32
	Float64
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// check reports whether raw parses as the kind.
func (k Kind) check(raw string) error {
	var err error
	switch k {
	case Int:
		_, err = strconv.Atoi(raw)
	case Bool:
		_, err = strconv.ParseBool(raw)
	case Float32:
		_, err = strconv.ParseFloat(raw, 32)
	case Float64:
		_, err = strconv.ParseFloat(raw, 64)
	}
	return err
}

// Positional declares one positional argument. Optional positionals
// must trail required ones.
type Positional struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	Default     string // rendered in help only
}

// Option declares one named option, matched as --name or -name.
// Recursive options declared on the root are visible while parsing
// any subcommand.
type Option struct {
	Name        string
	Kind        Kind
	Description string
	Default     string // rendered in help only
	Recursive   bool
}

// Command is a node in the tree: the root plus one level of
// subcommands. Runnable marks nodes with a bound action; a bare
// invocation of a non-runnable root prints help instead of parsing.
type Command struct {
	Name        string
	Description string
	Version     string // root only; enables --version and "version"
	Runnable    bool

	positionals []Positional
	options     []*Option
	byName      map[string]*Option
	children    map[string]*Command
	order       []string
	parent      *Command
}

// New returns an empty root command.
func New(name string) *Command {
	return &Command{
		Name:     name,
		byName:   make(map[string]*Option),
		children: make(map[string]*Command),
	}
}

// Subcommand declares a child of the root and returns its node.
func (c *Command) Subcommand(name, description string) (*Command, error) {
	if c.parent != nil {
		return nil, fmt.Errorf("command %q: nested subcommands are not supported", c.Name)
	}
	if name == "" {
		return nil, errors.New("empty command name")
	}
	if name == helpCommand || name == versionCommand {
		return nil, fmt.Errorf("command name %q is reserved", name)
	}
	if _, ok := c.children[name]; ok {
		return nil, fmt.Errorf("command %q already defined", name)
	}
	sub := New(name)
	sub.Description = description
	sub.parent = c
	c.children[name] = sub
	c.order = append(c.order, name)
	return sub, nil
}

// Child returns the named subcommand, if declared.
func (c *Command) Child(name string) (*Command, bool) {
	sub, ok := c.children[name]
	return sub, ok
}

// AddPositional appends a positional argument spec.
func (c *Command) AddPositional(p Positional) error {
	if p.Name == "" {
		return fmt.Errorf("command %q: empty argument name", c.Name)
	}
	if n := len(c.positionals); n > 0 && p.Required && !c.positionals[n-1].Required {
		return fmt.Errorf("command %q: required argument %q after optional %q",
			c.Name, p.Name, c.positionals[n-1].Name)
	}
	c.positionals = append(c.positionals, p)
	return nil
}

// AddOption declares a named option on this node. The name must be
// unique within everything visible here: local options, the root's
// recursive options, and, for recursive root options, every
// subcommand's locals.
func (c *Command) AddOption(o Option) error {
	switch o.Name {
	case "":
		return fmt.Errorf("command %q: empty option name", c.Name)
	case "help", "h", "version":
		return fmt.Errorf("option --%s is reserved", o.Name)
	}
	if c.lookupOption(o.Name) != nil {
		return fmt.Errorf("option --%s already defined", o.Name)
	}
	if o.Recursive && c.parent == nil {
		for _, name := range c.order {
			if _, ok := c.children[name].byName[o.Name]; ok {
				return fmt.Errorf("option --%s already defined on command %q", o.Name, name)
			}
		}
	}
	cp := o
	c.options = append(c.options, &cp)
	c.byName[o.Name] = &cp
	return nil
}

// lookupOption resolves a flag name visible from this node: local
// declarations first, then the root's recursive ones.
func (c *Command) lookupOption(name string) *Option {
	if o, ok := c.byName[name]; ok {
		return o
	}
	for p := c.parent; p != nil; p = p.parent {
		if o, ok := p.byName[name]; ok && o.Recursive {
			return o
		}
	}
	return nil
}

// Env carries the output streams and terminal width used for help and
// error text. A nil Env means os.Stdout/os.Stderr with detected width.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Width  int
}

func (e *Env) stdout() io.Writer {
	if e == nil || e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Env) stderr() io.Writer {
	if e == nil || e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Env) width() int {
	if e != nil && e.Width > 0 {
		return e.Width
	}
	if f, ok := e.stdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// Result is a completed parse: the resolved command plus raw values
// keyed by positional index and option name.
type Result struct {
	Command *Command

	pos  []string
	opts map[string]string
	seen map[string]bool
}

// Positional returns the raw value at index i, if provided.
func (r *Result) Positional(i int) (string, bool) {
	if i < 0 || i >= len(r.pos) {
		return "", false
	}
	return r.pos[i], true
}

// Option returns the raw value for the named option, if set.
func (r *Result) Option(name string) (string, bool) {
	v, ok := r.opts[name]
	return v, ok
}

// Seen reports whether the named option appeared on the command line.
func (r *Result) Seen(name string) bool {
	return r.seen[name]
}

// Parse matches args (without the program name) against the tree.
// Help and version requests are printed to env's stdout and returned
// as ErrHelp/ErrVersion; syntax errors are reported to env's stderr
// with a usage hint and returned typed. Must be called on the root.
func (c *Command) Parse(args []string, env *Env) (*Result, error) {
	if c.parent != nil {
		return nil, errors.New("Parse must be called on the root command")
	}

	cur := c
	var pos []string
	opts := make(map[string]string)
	seen := make(map[string]bool)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			pos = append(pos, args[i+1:]...)
			break
		}
		if arg == helpFlagShort || arg == helpFlagLong {
			fmt.Fprint(env.stdout(), Help(cur, env.width()))
			return nil, ErrHelp
		}
		if arg == versionFlag && c.Version != "" {
			fmt.Fprintln(env.stdout(), versionLine(c))
			return nil, ErrVersion
		}
		if isFlag(arg) {
			name := flagName(arg)
			opt := cur.lookupOption(name)
			if opt == nil {
				err := &UnknownFlagError{Flag: "--" + name, SubCommand: subName(cur)}
				reportSyntaxError(env.stderr(), cur, err)
				return nil, err
			}
			value, consumed := flagValue(arg, args, i, opt.Kind)
			opts[opt.Name] = value
			seen[opt.Name] = true
			if consumed {
				i++
			}
			continue
		}

		// The first bare token may select a subcommand or a built-in.
		if cur == c && len(pos) == 0 {
			switch {
			case arg == helpCommand:
				target := cur
				if i+1 < len(args) {
					if child, ok := c.children[args[i+1]]; ok {
						target = child
					}
				}
				fmt.Fprint(env.stdout(), Help(target, env.width()))
				return nil, ErrHelp
			case arg == versionCommand && c.Version != "":
				fmt.Fprintln(env.stdout(), versionLine(c))
				return nil, ErrVersion
			}
			if child, ok := c.children[arg]; ok {
				cur = child
				continue
			}
			if !c.Runnable && len(c.children) > 0 {
				err := &UnknownCommandError{Name: arg}
				reportSyntaxError(env.stderr(), cur, err)
				return nil, err
			}
		}
		pos = append(pos, arg)
	}

	// A bare non-runnable root has nothing to invoke; show help.
	if cur == c && !c.Runnable {
		fmt.Fprint(env.stdout(), Help(c, env.width()))
		return nil, ErrHelp
	}

	if err := validateCount(cur, pos); err != nil {
		reportSyntaxError(env.stderr(), cur, err)
		return nil, err
	}
	if err := validateValues(cur, pos, opts); err != nil {
		reportSyntaxError(env.stderr(), cur, err)
		return nil, err
	}
	return &Result{Command: cur, pos: pos, opts: opts, seen: seen}, nil
}

func validateCount(c *Command, pos []string) error {
	required := 0
	for _, p := range c.positionals {
		if p.Required {
			required++
		}
	}
	max := len(c.positionals)
	got := len(pos)
	if got >= required && got <= max {
		return nil
	}
	expected := strconv.Itoa(required)
	if max != required {
		expected = fmt.Sprintf("%d-%d", required, max)
	}
	return &ArgCountError{Expected: expected, Got: got, SubCommand: subName(c)}
}

func validateValues(c *Command, pos []string, opts map[string]string) error {
	for i, raw := range pos {
		p := c.positionals[i]
		if err := p.Kind.check(raw); err != nil {
			return &ValueError{Label: p.Name, Value: raw, SubCommand: subName(c), Err: err}
		}
	}
	for name, raw := range opts {
		opt := c.lookupOption(name)
		if opt == nil {
			continue
		}
		if opt.Kind != Bool && raw == "" {
			return &ValueError{Label: "--" + name, Value: raw, SubCommand: subName(c), Err: errors.New("missing value")}
		}
		if err := opt.Kind.check(raw); err != nil {
			return &ValueError{Label: "--" + name, Value: raw, SubCommand: subName(c), Err: err}
		}
	}
	return nil
}

func reportSyntaxError(w io.Writer, c *Command, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
	fmt.Fprintf(w, "Try '%s --help' for more information.\n", pathString(c))
}

func pathString(c *Command) string {
	if c.parent != nil {
		return c.parent.Name + " " + c.Name
	}
	return c.Name
}

func subName(c *Command) string {
	if c.parent != nil {
		return c.Name
	}
	return ""
}

func versionLine(c *Command) string {
	return fmt.Sprintf("%s v%s", c.Name, strings.TrimPrefix(c.Version, "v"))
}

// isFlag reports whether arg is a flag token. A lone "-" and negative
// numbers are positional values.
func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && !isNumeric(arg)
}

func flagName(arg string) string {
	name := strings.TrimLeft(arg, "-")
	if idx := strings.Index(name, "="); idx > 0 {
		name = name[:idx]
	}
	return name
}

// flagValue extracts the value for a flag token, consuming the next
// argument when the kind calls for one. Handles --flag, --flag=value,
// and --flag value; bool flags never consume the next argument.
func flagValue(arg string, args []string, i int, kind Kind) (value string, consumedNext bool) {
	name := strings.TrimLeft(arg, "-")
	if idx := strings.Index(name, "="); idx != -1 {
		return name[idx+1:], false
	}
	if kind == Bool {
		return "true", false
	}
	if i+1 < len(args) {
		next := args[i+1]
		// Never consume another flag, except a negative number.
		if !strings.HasPrefix(next, "-") || isNumeric(next) {
			return next, true
		}
	}
	return "", false
}

// isNumeric reports whether s is a plain or signed number, e.g. "10",
// "-10", "3.14", "-3.14".
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}
	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
