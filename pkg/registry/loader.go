package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Fields    []FieldDefinition     `json:"fields" yaml:"fields"`
	Documents map[DocumentID]Layout `json:"documents" yaml:"documents"`
}

// Parse decodes a JSON or YAML registry document and validates it. source is
// only used in error messages.
func Parse(data []byte, source string) (*Registry, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("registry: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("registry: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	reg, err := New(doc.Fields, doc.Documents)
	if err != nil {
		return nil, fmt.Errorf("registry: %s: %w", source, err)
	}
	return reg, nil
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("registry: fs is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// LoadFile reads and parses a registry from disk.
func LoadFile(path string) (*Registry, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", clean, err)
	}
	return Parse(data, clean)
}
