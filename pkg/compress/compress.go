// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compress opens and creates files with transparent
// compression chosen by filename extension. Artifacts that may ship
// compressed, like documentation manifests, go through Open and
// Create and never look at the framing themselves.
package compress

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Encoding names a supported compression scheme.
type Encoding string

const (
	None Encoding = ""
	Zstd Encoding = "zstd"
	Gzip Encoding = "gzip"
)

var exts = map[string]Encoding{
	".zst": Zstd,
	".gz":  Gzip,
}

// Detect returns the encoding implied by path's final extension, or
// None for an unrecognized one.
func Detect(path string) Encoding {
	for ext, enc := range exts {
		if strings.HasSuffix(path, ext) {
			return enc
		}
	}
	return None
}

// Strip removes a recognized compression suffix, exposing the inner
// name: "m.toml.zst" becomes "m.toml".
func Strip(path string) string {
	for ext := range exts {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// NewReader wraps r with the decompressor for enc. None passes r
// through behind a no-op Close.
func NewReader(r io.Reader, enc Encoding) (io.ReadCloser, error) {
	switch enc {
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case Gzip:
		return gzip.NewReader(r)
	case None:
		return io.NopCloser(r), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", enc)
}

// NewWriter wraps w with the compressor for enc. Close flushes the
// compressor but not w.
func NewWriter(w io.Writer, enc Encoding) (io.WriteCloser, error) {
	switch enc {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case Gzip:
		return gzip.NewWriter(w), nil
	case None:
		return nopWriteCloser{w}, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", enc)
}

// Open opens path for reading, decompressing when the name carries a
// compression suffix. Closing the returned reader closes the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, Detect(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readCloser{ReadCloser: r, onClose: f.Close}, nil
}

// Create creates or truncates path for writing, compressing when the
// name carries a compression suffix. Close flushes the compressor and
// then closes the file; dropping it unclosed loses the trailing frame.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, Detect(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &writeCloser{WriteCloser: w, onClose: f.Close}, nil
}

// readCloser calls an additional function after Close.
type readCloser struct {
	io.ReadCloser
	onClose func() error
}

func (c *readCloser) Close() error {
	return errors.Join(c.ReadCloser.Close(), c.onClose())
}

type writeCloser struct {
	io.WriteCloser
	onClose func() error
}

func (c *writeCloser) Close() error {
	return errors.Join(c.WriteCloser.Close(), c.onClose())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
