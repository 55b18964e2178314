package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML tileset document. Unknown fields are rejected.
func DecodeYAML(src []byte) (*Tileset, error) {
	var ts Tileset
	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty tileset document")
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err == nil {
		recordModelLines(&ts, &root)
	}
	return &ts, nil
}

// recordModelLines stores the line of every models[i] entry.
func recordModelLines(ts *Tileset, root *yaml.Node) {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "models" {
			continue
		}
		for j, item := range doc.Content[i+1].Content {
			ts.setLine(fmt.Sprintf("models[%d]", j), item.Line)
		}
	}
}
