// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The greet example turns two plain functions into a CLI. Run it from
// this directory and the help text picks the descriptions up from
// these comments.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Leinnan/clapnet/pkg/clap"
)

type greetSettings struct {
	// Shout prints the greeting in capitals.
	Shout bool
	// Lang selects the greeting language.
	Lang string `env:"GREET_LANG"`
}

// Hello greets one person by name.
func Hello(s greetSettings, name string) {
	msg := "hello"
	if s.Lang == "pl" {
		msg = "czesc"
	}
	msg = fmt.Sprintf("%s, %s!", msg, name)
	if s.Shout {
		msg = strings.ToUpper(msg)
	}
	fmt.Println(msg)
}

// Wave waves n times.
func Wave(n int) error {
	if n < 1 {
		return fmt.Errorf("cannot wave %d times", n)
	}
	for i := 0; i < n; i++ {
		fmt.Println("o/")
	}
	return nil
}

func main() {
	os.Exit(clap.New("greet").
		WithDescription("toy greeter built from plain functions").
		WithVersion("0.1.0").
		WithCommand(clap.Cmd{Fn: Hello, Params: []clap.Param{
			clap.Settings(greetSettings{Lang: "en"}),
			clap.StringDefault("name", "world"),
		}}).
		WithCommand(clap.Cmd{Fn: Wave, Params: []clap.Param{
			clap.IntDefault("n", 1),
		}}).
		Run(context.Background(), os.Args[1:]))
}
