// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docs

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Leinnan/clapnet/pkg/compress"
	"gopkg.in/yaml.v3"
)

// Manifest is the structured documentation artifact shipped alongside
// a program, keyed by MemberID string. TOML and YAML encodings are
// supported, optionally compressed with a trailing ".zst" or ".gz".
type Manifest struct {
	Program string           `toml:"program,omitempty" yaml:"program,omitempty"`
	Members map[string]Entry `toml:"members" yaml:"members"`
}

// Entry is one member's documentation.
type Entry struct {
	Summary string            `toml:"summary,omitempty" yaml:"summary,omitempty"`
	Params  map[string]string `toml:"params,omitempty" yaml:"params,omitempty"`
}

// Load reads a manifest from path. The format is chosen by extension:
// ".toml", ".yaml", or ".yml", each optionally wrapped in a
// compression suffix.
func Load(path string) (*Manifest, error) {
	f, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	switch ext := filepath.Ext(compress.Strip(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
	return &m, nil
}

// WriteFile encodes the manifest to path, choosing the format by
// extension the same way Load does.
func (m *Manifest) WriteFile(path string) error {
	var buf bytes.Buffer
	switch ext := filepath.Ext(compress.Strip(path)); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		buf.Write(data)
	default:
		return fmt.Errorf("unsupported manifest format %q", ext)
	}

	f, err := compress.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Resolve implements Resolver.
func (m *Manifest) Resolve(id MemberID) (Doc, bool) {
	for _, key := range id.Keys() {
		if e, ok := m.Members[key]; ok {
			return Doc{Summary: e.Summary, Params: e.Params}, true
		}
	}
	return Doc{}, false
}

// sidecarSuffixes lists manifest names tried next to the executable,
// in preference order.
var sidecarSuffixes = []string{
	".docs.toml",
	".docs.toml.zst",
	".docs.toml.gz",
	".docs.yaml",
	".docs.yaml.zst",
	".docs.yaml.gz",
	".docs.yml",
	".docs.yml.zst",
	".docs.yml.gz",
}

func discoverManifest(exe string) *Manifest {
	base := strings.TrimSuffix(exe, filepath.Ext(exe))
	for _, candidate := range []string{exe, base} {
		for _, suffix := range sidecarSuffixes {
			m, err := Load(candidate + suffix)
			if err != nil {
				continue
			}
			return m
		}
		if candidate == base {
			break
		}
	}
	return nil
}
