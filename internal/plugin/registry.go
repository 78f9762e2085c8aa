// Package plugin holds the registry of payment split method plugins.
//
// Methods reference a plugin by ID. The registry is read-only after startup:
// plugins are registered while the server is wired and looked up per request.
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mmynk/paysplit/internal/calculator"
)

var (
	// ErrUnknownPlugin is returned when a plugin ID has no registered plugin.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrDuplicatePlugin is returned when a plugin ID is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrNotSplitter is returned when a plugin cannot split an order.
	ErrNotSplitter = errors.New("plugin does not split orders")
)

// Setting describes one configuration value a plugin accepts.
type Setting struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Default  string `yaml:"default"`
	Required bool   `yaml:"required"`
}

// Definition is the metadata of one plugin.
type Definition struct {
	ID          string
	Name        string
	Description string
	// NoUI hides the plugin from the "add" choices.
	NoUI     bool
	Settings []Setting
}

// Plugin is implemented by every payment split method plugin.
type Plugin interface {
	Describe() Definition
}

// Splitter is implemented by plugins that divide an order between payers.
type Splitter interface {
	Split(order calculator.Order, settings map[string]string) (map[string]*calculator.Share, error)
}

// Registry maps plugin IDs to plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p under its definition ID.
func (r *Registry) Register(p Plugin) error {
	def := p.Describe()
	if def.ID == "" {
		return fmt.Errorf("register plugin %q: empty id", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[def.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, def.ID)
	}
	r.plugins[def.ID] = p
	return nil
}

// Get returns the plugin registered under id.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}
	return p, nil
}

// Definition returns the definition of the plugin registered under id.
func (r *Registry) Definition(id string) (Definition, error) {
	p, err := r.Get(id)
	if err != nil {
		return Definition{}, err
	}
	return p.Describe(), nil
}

// Definitions returns every plugin definition keyed by plugin ID.
func (r *Registry) Definitions() map[string]Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make(map[string]Definition, len(r.plugins))
	for id, p := range r.plugins {
		defs[id] = p.Describe()
	}
	return defs
}

// Sorted returns every definition ordered by ID.
func (r *Registry) Sorted() []Definition {
	defs := r.Definitions()
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Split runs the plugin registered under id against order.
func (r *Registry) Split(id string, order calculator.Order, settings map[string]string) (map[string]*calculator.Share, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	s, ok := p.(Splitter)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSplitter, id)
	}
	return s.Split(order, settings)
}
