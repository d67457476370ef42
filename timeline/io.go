package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML document, sorts keyframes and validates it.
func Parse(data []byte) (*Document, error) {
	d := New(0)
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decoding timeline: %w", err)
	}
	if d.Speed == 0 {
		d.Speed = 1
	}
	for _, t := range d.Lanes {
		if t != nil {
			t.SortKeyframes()
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Read reads a document from a YAML file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Write writes a document to a YAML file.
func Write(d *Document, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
