package plugin

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Plugins []yamlPlugin `yaml:"plugins"`
}

type yamlPlugin struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	NoUI        bool      `yaml:"no_ui"`
	Settings    []Setting `yaml:"settings"`
}

// ParseYAML decodes static plugin definitions.
func ParseYAML(b []byte) ([]Plugin, error) {
	var f yamlFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse plugins: %w", err)
	}
	if f.Plugins == nil {
		return nil, errors.New("plugins: missing plugins list")
	}

	out := make([]Plugin, 0, len(f.Plugins))
	for i, p := range f.Plugins {
		if p.ID == "" {
			return nil, fmt.Errorf("plugins[%d]: id is required", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("plugins[%d] %s: name is required", i, p.ID)
		}
		out = append(out, Static(Definition{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			NoUI:        p.NoUI,
			Settings:    p.Settings,
		}))
	}
	return out, nil
}

// LoadYAML registers the plugins defined in the YAML file at path.
func LoadYAML(r *Registry, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read plugins file: %w", err)
	}
	plugins, err := ParseYAML(b)
	if err != nil {
		return 0, err
	}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return 0, err
		}
	}
	return len(plugins), nil
}
