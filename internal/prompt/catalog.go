package prompt

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is an immutable set of templates keyed by ID, loaded once at
// startup.
type Catalog struct {
	templates map[string]Template
}

type catalogFile struct {
	Prompts []Template `yaml:"prompts"`
}

// LoadCatalog reads a template catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML template catalog. Duplicate IDs
// and invalid templates are load-time errors.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}
	if len(file.Prompts) == 0 {
		return nil, fmt.Errorf("prompt catalog contains no templates")
	}

	c := &Catalog{templates: make(map[string]Template, len(file.Prompts))}
	for _, t := range file.Prompts {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		if _, exists := c.templates[t.ID]; exists {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		c.templates[t.ID] = t
	}
	return c, nil
}

// Get returns the template with the given ID.
func (c *Catalog) Get(id string) (Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return Template{}, fmt.Errorf("template %q not found (known: %v)", id, c.IDs())
	}
	return t, nil
}

// IDs returns all template IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Templates returns all templates ordered by ID.
func (c *Catalog) Templates() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, id := range c.IDs() {
		out = append(out, c.templates[id])
	}
	return out
}
