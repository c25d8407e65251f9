package roast

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed flavors.yaml
var defaultFlavors []byte

// Catalog holds the flavor specs. It is never mutated after load.
type Catalog struct {
	flavors map[Flavor]FlavorSpec
}

type catalogFile struct {
	Flavors map[Flavor]FlavorSpec `yaml:"flavors"`
}

// DefaultCatalog parses the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultFlavors)
}

// LoadCatalog loads the catalog from a YAML file, or the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flavor catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse flavor catalog YAML: %w", err)
	}

	c := &Catalog{flavors: make(map[Flavor]FlavorSpec, len(file.Flavors))}
	for name, spec := range file.Flavors {
		spec.Flavor = name
		c.flavors[name] = spec
	}

	for _, f := range Flavors {
		spec, ok := c.flavors[f]
		if !ok {
			return nil, fmt.Errorf("invalid flavor catalog: flavor %q is missing", f)
		}
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("invalid flavor catalog: flavor %q: %w", f, err)
		}
	}
	return c, nil
}

// Get returns the spec for f.
func (c *Catalog) Get(f Flavor) (FlavorSpec, bool) {
	spec, ok := c.flavors[f]
	return spec, ok
}

// UnmarshalYAML accepts either a plain template string or a {text, answer} mapping.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Text = node.Value
		return nil
	}
	type plain Entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}
