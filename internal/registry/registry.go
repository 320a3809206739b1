package registry

import (
	"maps"
	"slices"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered plugins of a single application instance.
type Registry struct {
	plugins map[string]*RegisteredPlugin
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		plugins: make(map[string]*RegisteredPlugin),
	}
}

// Plugin looks up a plugin by name.
func (r *Registry) Plugin(name string) (*RegisteredPlugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Names lists the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.plugins))
}
