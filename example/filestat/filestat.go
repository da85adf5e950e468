// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The filestat example binds a single function to the bare program
// invocation and uses its int result as the exit code.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Leinnan/clapnet/pkg/clap"
)

type statSettings struct {
	// Human prints the size in KiB instead of bytes.
	Human bool
}

// Stat prints the size of path, scaled by factor.
func Stat(s statSettings, path string, factor float64) int {
	fi, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	size := float64(fi.Size()) * factor
	if s.Human {
		fmt.Printf("%s: %.1f KiB\n", path, size/1024)
		return 0
	}
	fmt.Printf("%s: %.0f bytes\n", path, size)
	return 0
}

func main() {
	os.Exit(clap.New("filestat").
		WithRootCommand(clap.Cmd{Fn: Stat, Params: []clap.Param{
			clap.Settings(statSettings{}),
			clap.String("path"),
			clap.Float64Default("factor", 1),
		}}).
		Run(context.Background(), os.Args[1:]))
}
