package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadTileset reads a tileset file, choosing the decoder by extension
// (.cue, .yaml or .yml), and normalizes its names.
func LoadTileset(path string) (*Tileset, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tileset: %w", err)
	}

	var ts *Tileset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		ts, err = DecodeCUE(src, path)
	case ".yaml", ".yml":
		ts, err = DecodeYAML(src)
	default:
		return nil, fmt.Errorf("unsupported tileset extension %q: must be .cue, .yaml or .yml", ext)
	}
	if err != nil {
		return nil, err
	}

	ts.Normalize()
	return ts, nil
}

// LoadAndCompile loads, validates and compiles a tileset file.
func LoadAndCompile(path string) (*Compiled, error) {
	ts, err := LoadTileset(path)
	if err != nil {
		return nil, err
	}
	return Compile(ts)
}
