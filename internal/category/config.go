package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a taxonomy file:
//
//	categories:
//	  - name: FOOD
//	    label: Food & Dining
//	    keywords: [zomato, swiggy]
//	  - name: OTHER
//	    label: Other
type fileConfig struct {
	Categories []entryConfig `yaml:"categories"`
}

type entryConfig struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// LoadFile reads a taxonomy from a YAML file. The same invariants as New
// apply: the last entry must be the single catch-all with no keywords.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("category.LoadFile: reading %q: %w", path, err)
	}
	return Load(data)
}

// Load parses a YAML taxonomy document.
func Load(data []byte) (*Taxonomy, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("category.Load: parsing yaml: %w", err)
	}

	categories := make([]Category, 0, len(cfg.Categories))
	for _, e := range cfg.Categories {
		categories = append(categories, Category{
			Name:     e.Name,
			Label:    e.Label,
			Keywords: e.Keywords,
		})
	}

	t, err := New(categories)
	if err != nil {
		return nil, fmt.Errorf("category.Load: %w", err)
	}
	return t, nil
}
