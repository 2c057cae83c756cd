package pathway

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog names the pathways kept in curated mode and the top-level
// categories dropped in all mode.
type Catalog struct {
	Curated  []string `yaml:"curated"`
	TopLevel []string `yaml:"top_level"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded pathway catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. An empty path yields the
// built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read pathway catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("parse pathway catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}
