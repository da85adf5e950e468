// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clapdoc generates a documentation manifest from Go source
// comments. Ship the output next to a binary as "<exe>.docs.toml" (or
// .yaml, optionally .zst) and its help text gains the descriptions
// without carrying source around.
package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/Leinnan/clapnet/pkg/clap"
	"github.com/Leinnan/clapnet/pkg/docs"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type genSettings struct {
	Out      string `help:"output path; the extension picks the encoding"`
	Program  string `help:"program name recorded in the manifest"`
	Compress bool   `help:"zstd-compress the output (appends .zst)"`
	Jobs     int    `help:"parallel directory scans; 0 means GOMAXPROCS"`
	Verbose  bool   `help:"log every scanned directory"`
}

func main() {
	os.Exit(clap.New("clapdoc").
		WithDescription("generate a documentation manifest from Go source comments").
		WithVersion("0.3.0").
		WithRootCommand(clap.Cmd{
			Fn: generate,
			Params: []clap.Param{
				clap.Settings(genSettings{Out: "docs.toml"}),
				clap.StringDefault("root", ".").Describe("source tree to scan"),
			},
		}).
		Run(context.Background(), os.Args[1:]))
}

func generate(ctx context.Context, s genSettings, root string) error {
	opts := log.Options{Prefix: "clapdoc"}
	if s.Verbose {
		opts.Level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, opts)

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root &&
			(strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "vendor" || name == "testdata") {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return err
	}

	man := &docs.Manifest{Program: s.Program, Members: make(map[string]docs.Entry)}
	var mu sync.Mutex

	jobs := s.Jobs
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := docs.Extract(dir)
			if err != nil {
				return err
			}
			logger.Debug("scanned", "dir", dir, "members", len(entries))
			if len(entries) == 0 {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for k, e := range entries {
				if _, ok := man.Members[k]; !ok {
					man.Members[k] = e
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := s.Out
	if s.Compress && !strings.HasSuffix(out, ".zst") {
		out += ".zst"
	}
	if err := man.WriteFile(out); err != nil {
		return err
	}
	logger.Info("wrote manifest", "path", out, "members", len(man.Members))
	return nil
}
