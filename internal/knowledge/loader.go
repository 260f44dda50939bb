package knowledge

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"ritcompass/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/categories.yaml
var defaultData []byte

type document struct {
	Categories []models.CategoryRecord `yaml:"categories"`
}

// LoadDefault builds the knowledge base shipped with the binary.
func LoadDefault() (*Base, error) {
	return Parse(defaultData)
}

// LoadFile reads a YAML (or JSON) knowledge file with a top level
// "categories" list.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	base, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

// Parse decodes knowledge data. Unknown fields are rejected so a typo in the
// data file does not silently drop content.
func Parse(data []byte) (*Base, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge data: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("knowledge data has no categories")
	}
	return New(doc.Categories)
}
