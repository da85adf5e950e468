// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compress

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Encoding
	}{
		{"m.toml.zst", Zstd},
		{"m.yaml.gz", Gzip},
		{"m.toml", None},
		{"archive.zstd", None},
		{"", None},
	}
	for _, tt := range tests {
		if got := Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"m.toml.zst", "m.toml"},
		{"m.yaml.gz", "m.yaml"},
		{"m.toml", "m.toml"},
	}
	for _, tt := range tests {
		if got := Strip(tt.path); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("manifest bytes "), 256)

	for _, name := range []string{"plain.toml", "framed.toml.zst", "framed.toml.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			w, err := Create(path)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			r, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if err := r.Close(); err != nil {
				t.Fatalf("reader Close() error = %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("read %d bytes, want the %d written", len(got), len(payload))
			}
		})
	}
}

// Compressed outputs must actually be framed, not just renamed.
func TestCreateWritesRealFrames(t *testing.T) {
	payload := []byte("framing check")
	dir := t.TempDir()

	zpath := filepath.Join(dir, "out.zst")
	w, err := Create(zpath)
	if err != nil {
		t.Fatal(err)
	}
	w.Write(payload)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(zpath)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output is not a zstd stream: %v", err)
	}
	defer zr.Close()
	if got, _ := io.ReadAll(zr); !bytes.Equal(got, payload) {
		t.Error("zstd frame does not decode to the payload")
	}

	gpath := filepath.Join(dir, "out.gz")
	w, err = Create(gpath)
	if err != nil {
		t.Fatal(err)
	}
	w.Write(payload)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(gpath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not a gzip stream: %v", err)
	}
	if got, _ := io.ReadAll(gr); !bytes.Equal(got, payload) {
		t.Error("gzip frame does not decode to the payload")
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.zst")); err == nil {
		t.Error("Open() succeeded on a missing file")
	}
}

func TestNewReaderUnknownEncoding(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil), Encoding("lz4")); err == nil {
		t.Error("NewReader() accepted an unknown encoding")
	}
	if _, err := NewWriter(io.Discard, Encoding("lz4")); err == nil {
		t.Error("NewWriter() accepted an unknown encoding")
	}
}
