// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/Leinnan/clapnet/pkg/argv"
	"github.com/Leinnan/clapnet/pkg/docs"
	"github.com/Leinnan/clapnet/pkg/naming"
	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// Builder assembles a command tree from registered functions and runs
// it. Configuration calls (naming convention, outputs, docs, version)
// should come before command registrations; registrations validate
// eagerly and a Builder with a recorded error refuses to run.
type Builder struct {
	root     *argv.Command
	env      *argv.Env
	conv     naming.Convention
	reg      *settingsRegistry
	docs     docs.Resolver
	logger   *log.Logger
	invokers map[*argv.Command]*invoker
	applies  []func(*argv.Result) error
	errs     []error
}

// New returns a Builder for a program with the given name. An empty
// name falls back to the executable's base name.
func New(name string) *Builder {
	if name == "" {
		name = filepath.Base(os.Args[0])
	}
	b := &Builder{
		root:     argv.New(name),
		env:      &argv.Env{},
		conv:     naming.Snake,
		reg:      newSettingsRegistry(),
		invokers: make(map[*argv.Command]*invoker),
	}
	b.logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.WarnLevel,
		Prefix: name,
	})
	return b
}

// WithDescription sets the one-line program description shown at the
// top of root help.
func (b *Builder) WithDescription(desc string) *Builder {
	b.root.Description = desc
	return b
}

// WithVersion enables --version and the version command. The value
// must parse as semantic versioning; a leading "v" is accepted.
func (b *Builder) WithVersion(v string) *Builder {
	if _, err := semver.NewVersion(v); err != nil {
		b.errs = append(b.errs, fmt.Errorf("version %q: %w", v, err))
		return b
	}
	b.root.Version = v
	return b
}

// WithSnakeCase maps identifier names to snake_case on the command
// line. This is the default.
func (b *Builder) WithSnakeCase() *Builder {
	b.conv = naming.Snake
	return b
}

// WithCamelCase maps identifier names to camelCase on the command line.
func (b *Builder) WithCamelCase() *Builder {
	b.conv = naming.Camel
	return b
}

// WithKebabCase maps identifier names to kebab-case on the command line.
func (b *Builder) WithKebabCase() *Builder {
	b.conv = naming.Kebab
	return b
}

// WithDocs replaces the documentation resolver. The default discovers
// a manifest next to the executable and falls back to scanning source
// in the working directory.
func (b *Builder) WithDocs(r docs.Resolver) *Builder {
	b.docs = r
	return b
}

// WithLogger replaces the diagnostic logger.
func (b *Builder) WithLogger(l *log.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// WithOutput redirects help and version text.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.env.Stdout = w
	return b
}

// WithErrOutput redirects error reporting, including the logger.
func (b *Builder) WithErrOutput(w io.Writer) *Builder {
	b.env.Stderr = w
	b.logger.SetOutput(w)
	return b
}

// WithWidth fixes the wrap width for help text instead of detecting
// the terminal size.
func (b *Builder) WithWidth(n int) *Builder {
	b.env.Width = n
	return b
}

// WithOption declares a program-wide option visible from every
// command. ptr must point to a string, int, bool, or float32; its
// current value is the default and the parsed value is written back
// before the command runs.
func (b *Builder) WithOption(ptr any, name, help string) *Builder {
	if name == "" {
		b.errs = append(b.errs, errors.New("option: empty name"))
		return b
	}
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		b.errs = append(b.errs, fmt.Errorf("option %q: need a non-nil pointer, got %T", name, ptr))
		return b
	}
	ev := pv.Elem()
	bd, ok := optionEligible(ev.Type())
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("option %q: unsupported type %s", name, ev.Type()))
		return b
	}
	cliName := naming.Convert(name, b.conv)
	def := reflect.New(ev.Type()).Elem()
	def.Set(ev)
	if err := bd.declareOption(b.root, cliName, help, def, true); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	extract := bd.optionExtractor(cliName, def)
	b.applies = append(b.applies, func(res *argv.Result) error {
		v, err := extract(res)
		if err != nil {
			return err
		}
		ev.Set(v)
		return nil
	})
	return b
}

// WithSettings declares the settings type's options at root scope,
// visible from every command. Commands that later take the same type
// as a parameter reuse this registration, prototype defaults included.
func (b *Builder) WithSettings(prototype any) *Builder {
	if _, err := b.reg.ensure(prototype, b.root, b.conv, true, b.resolver(), b.logger); err != nil {
		b.errs = append(b.errs, fmt.Errorf("settings: %w", err))
	}
	return b
}

// WithRootCommand binds a function to the bare program invocation.
func (b *Builder) WithRootCommand(c Cmd) *Builder {
	b.register(c, true)
	return b
}

// WithCommand registers a function as a subcommand. The command name
// defaults to the function's own name, lowercased.
func (b *Builder) WithCommand(c Cmd) *Builder {
	b.register(c, false)
	return b
}

// Err reports every registration failure recorded so far.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

func (b *Builder) register(c Cmd, root bool) {
	cal, err := newCallable(c)
	if err != nil {
		var unknown *unknownParamError
		if errors.As(err, &unknown) {
			fmt.Fprintf(b.errWriter(), "Unknown parameter: %s\n", unknown.Name)
		}
		b.errs = append(b.errs, fmt.Errorf("command %q: %w", registrationLabel(c, cal), err))
		return
	}

	name := c.Name
	if name == "" {
		name = cal.fnName
	}
	name = truncateName(name)
	if name == "" {
		b.errs = append(b.errs, errors.New("command: empty name"))
		return
	}

	fdoc, _ := b.resolver().Resolve(docs.FuncID(cal.pkg, cal.fnName, cal.typeLabels()...))
	desc := c.Description
	if desc == "" {
		desc = fdoc.Summary
	}

	var node *argv.Command
	if root {
		if _, bound := b.invokers[b.root]; bound {
			b.errs = append(b.errs, errors.New("root command already bound"))
			return
		}
		node = b.root
		if b.root.Description == "" {
			b.root.Description = desc
		}
	} else {
		node, err = b.root.Subcommand(name, desc)
		if err != nil {
			b.errs = append(b.errs, err)
			return
		}
	}

	iv := &invoker{fn: cal.fn, wantsCtx: cal.wantsCtx, shape: cal.shape}
	posIndex := 0
	for _, p := range cal.params {
		if p.Kind == KindSettings {
			factory, err := b.reg.ensure(p.Prototype, node, b.conv, root, b.resolver(), b.logger)
			if err != nil {
				b.errs = append(b.errs, fmt.Errorf("command %q: %w", name, err))
				return
			}
			iv.extract = append(iv.extract, factory)
			continue
		}
		bd := binders[p.Kind]
		pdesc := p.Description
		if pdesc == "" {
			pdesc = fdoc.Param(p.Name)
		}
		def := reflect.Zero(bd.goType)
		if p.HasDefault {
			def = reflect.ValueOf(p.Default)
		}
		cliName := naming.Convert(p.Name, b.conv)
		if err := bd.declarePositional(node, cliName, pdesc, p.HasDefault, def); err != nil {
			b.errs = append(b.errs, fmt.Errorf("command %q: %w", name, err))
			return
		}
		iv.extract = append(iv.extract, bd.positionalExtractor(posIndex, def))
		posIndex++
	}

	node.Runnable = true
	b.invokers[node] = iv
}

// Run parses args (without the program name) and invokes the selected
// command, returning the process exit code: 0 for success and for
// help or version requests, the callable's own code when it returns
// int, 1 when it returns an error, 2 for syntax and registration
// errors.
func (b *Builder) Run(ctx context.Context, args []string) int {
	if err := b.Err(); err != nil {
		fmt.Fprintf(b.errWriter(), "%s %v\n", color.RedString("Error:"), err)
		return 2
	}
	res, err := b.root.Parse(args, b.env)
	if err != nil {
		return argv.Exit(err)
	}
	for _, apply := range b.applies {
		if err := apply(res); err != nil {
			fmt.Fprintf(b.errWriter(), "%s %v\n", color.RedString("Error:"), err)
			return 2
		}
	}
	iv, ok := b.invokers[res.Command]
	if !ok {
		fmt.Fprintf(b.errWriter(), "%s no action bound to %q\n", color.RedString("Error:"), res.Command.Name)
		return 2
	}
	code, err := iv.invoke(ctx, res)
	if err != nil {
		fmt.Fprintf(b.errWriter(), "%s %v\n", color.RedString("Error:"), err)
	}
	return code
}

func (b *Builder) resolver() docs.Resolver {
	if b.docs == nil {
		b.docs = docs.Discover()
	}
	return b.docs
}

func (b *Builder) errWriter() io.Writer {
	if b.env.Stderr != nil {
		return b.env.Stderr
	}
	return os.Stderr
}

// registrationLabel names a failed registration as precisely as the
// inputs allow.
func registrationLabel(c Cmd, cal *callable) string {
	if c.Name != "" {
		return truncateName(c.Name)
	}
	if cal != nil && cal.fnName != "" {
		return truncateName(cal.fnName)
	}
	if c.Fn != nil {
		_, fnName := funcIdentity(c.Fn)
		if fnName != "" {
			return truncateName(fnName)
		}
	}
	return "?"
}
