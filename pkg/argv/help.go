// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	cmdColumn  = 12
	flagColumn = 28
)

var heading = color.New(color.Bold).SprintFunc()

// Help renders usage text for a node: the full tree overview for the
// root, or a focused page for a subcommand.
func Help(c *Command, width int) string {
	if c.parent == nil {
		return rootHelp(c, width)
	}
	return commandHelp(c, width)
}

func rootHelp(c *Command, width int) string {
	var b strings.Builder

	b.WriteString(c.Name)
	if c.Description != "" {
		b.WriteString(" - ")
		b.WriteString(c.Description)
	}
	b.WriteString("\n\n")

	b.WriteString(heading("USAGE:"))
	b.WriteString("\n")
	switch {
	case len(c.children) > 0 && c.Runnable:
		fmt.Fprintf(&b, "    %s [OPTIONS]%s\n", c.Name, usageArgs(c))
		fmt.Fprintf(&b, "    %s [OPTIONS] COMMAND [ARGS...]\n", c.Name)
	case len(c.children) > 0:
		fmt.Fprintf(&b, "    %s [OPTIONS] COMMAND [ARGS...]\n", c.Name)
	default:
		fmt.Fprintf(&b, "    %s [OPTIONS]%s\n", c.Name, usageArgs(c))
	}
	b.WriteString("\n")

	if len(c.children) > 0 {
		b.WriteString(heading("COMMANDS:"))
		b.WriteString("\n")
		for _, name := range c.order {
			writeCmdLine(&b, name, c.children[name].Description, width)
		}
		writeCmdLine(&b, helpCommand, "Show this help message", width)
		if c.Version != "" {
			writeCmdLine(&b, versionCommand, "Show version information", width)
		}
		b.WriteString("\n")
	}

	writeArguments(&b, c, width)
	writeOptions(&b, heading("OPTIONS:"), c.options, c, width)

	if len(c.children) > 0 {
		fmt.Fprintf(&b, "Run '%s COMMAND --help' for more information on a specific command.\n", c.Name)
	}
	return b.String()
}

func commandHelp(c *Command, width int) string {
	var b strings.Builder

	if c.Description != "" {
		b.WriteString(c.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(heading("USAGE:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s %s [OPTIONS]%s\n\n", c.parent.Name, c.Name, usageArgs(c))

	writeArguments(&b, c, width)
	writeOptions(&b, heading("OPTIONS:"), c.options, c, width)

	var recursive []*Option
	for _, o := range c.parent.options {
		if o.Recursive {
			recursive = append(recursive, o)
		}
	}
	if len(recursive) > 0 {
		writeOptions(&b, heading("GLOBAL OPTIONS:"), recursive, nil, width)
	}
	return b.String()
}

// usageArgs renders the positional portion of a usage line, required
// arguments in angle brackets and optional ones in square brackets.
func usageArgs(c *Command) string {
	var b strings.Builder
	for _, p := range c.positionals {
		name := strings.ToUpper(p.Name)
		if p.Required {
			fmt.Fprintf(&b, " <%s>", name)
		} else {
			fmt.Fprintf(&b, " [%s]", name)
		}
	}
	return b.String()
}

func writeArguments(b *strings.Builder, c *Command, width int) {
	if len(c.positionals) == 0 {
		return
	}
	b.WriteString(heading("ARGUMENTS:"))
	b.WriteString("\n")
	for _, p := range c.positionals {
		desc := p.Description
		if p.Default != "" {
			desc = appendDefault(desc, p.Default)
		}
		writeEntry(b, fmt.Sprintf("    %-*s", cmdColumn, strings.ToUpper(p.Name)), desc, cmdColumn+5, width)
	}
	b.WriteString("\n")
}

// writeOptions renders an option section. When helpOwner is non-nil
// the built-in help (and version, on the root) lines are appended.
func writeOptions(b *strings.Builder, title string, opts []*Option, helpOwner *Command, width int) {
	if len(opts) == 0 && helpOwner == nil {
		return
	}
	b.WriteString(title)
	b.WriteString("\n")
	for _, o := range opts {
		left := "    --" + o.Name
		if o.Kind != Bool {
			left += " " + o.Kind.String()
		}
		desc := o.Description
		if o.Default != "" {
			desc = appendDefault(desc, o.Default)
		}
		writeEntry(b, fmt.Sprintf("%-*s", flagColumn, left), desc, flagColumn+1, width)
	}
	if helpOwner != nil {
		writeEntry(b, fmt.Sprintf("%-*s", flagColumn, "    "+helpFlagShort+", "+helpFlagLong), "Show this help message", flagColumn+1, width)
		if helpOwner.parent == nil && helpOwner.Version != "" {
			writeEntry(b, fmt.Sprintf("%-*s", flagColumn, "    "+versionFlag), "Show version information", flagColumn+1, width)
		}
	}
	b.WriteString("\n")
}

func writeCmdLine(b *strings.Builder, name, desc string, width int) {
	writeEntry(b, fmt.Sprintf("    %-*s", cmdColumn, name), desc, cmdColumn+5, width)
}

// writeEntry writes one aligned help line, wrapping the description
// to the terminal width with continuation lines under the column.
func writeEntry(b *strings.Builder, left, desc string, indent, width int) {
	if desc == "" {
		b.WriteString(strings.TrimRight(left, " "))
		b.WriteString("\n")
		return
	}
	lines := wrapText(desc, width-indent-1)
	fmt.Fprintf(b, "%s %s\n", left, lines[0])
	pad := strings.Repeat(" ", indent+1)
	for _, line := range lines[1:] {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func appendDefault(desc, def string) string {
	suffix := fmt.Sprintf("(default: %s)", def)
	if desc == "" {
		return suffix
	}
	return desc + " " + suffix
}

// wrapText greedily wraps text into lines of at most limit runes,
// never breaking inside a word.
func wrapText(text string, limit int) []string {
	if limit < 20 {
		limit = 20
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 1)
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > limit {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
