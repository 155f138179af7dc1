package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// Store persists workspace snapshots.
type Store interface {
	// Load returns the stored snapshot. found is false when nothing was saved yet.
	Load(ctx context.Context) (snap workspace.Snapshot, found bool, err error)
	Save(ctx context.Context, snap workspace.Snapshot) error
}

// Format is a snapshot serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension; unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Encode serializes snap.
func Encode(f Format, snap workspace.Snapshot) ([]byte, error) {
	switch f {
	case FormatYAML:
		b, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
			return nil, fmt.Errorf("marshal toml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown snapshot format %q", f)
}

// Decode parses data written by Encode.
func Decode(f Format, data []byte) (workspace.Snapshot, error) {
	var snap workspace.Snapshot
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	case FormatTOML:
		_, err = toml.Decode(string(data), &snap)
	case FormatJSON, "":
		err = json.Unmarshal(data, &snap)
	default:
		return snap, fmt.Errorf("unknown snapshot format %q", f)
	}
	if err != nil {
		return snap, fmt.Errorf("parse %s snapshot: %w", f, err)
	}
	return snap, nil
}
