package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Capabilities describes what a plugin instance does.
type Capabilities uint32

const (
	CapRead Capabilities = 1 << iota
	CapLog
	CapWrite
	CapFlush
)

func (c Capabilities) HasRead() bool  { return c&CapRead != 0 }
func (c Capabilities) HasLog() bool   { return c&CapLog != 0 }
func (c Capabilities) HasWrite() bool { return c&CapWrite != 0 }
func (c Capabilities) HasFlush() bool { return c&CapFlush != 0 }

func (c Capabilities) String() string {
	var names []string
	for _, f := range []struct {
		flag Capabilities
		name string
	}{{CapRead, "read"}, {CapLog, "log"}, {CapWrite, "write"}, {CapFlush, "flush"}} {
		if c&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// MarshalYAML renders the flags by name.
func (c Capabilities) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Plugin is a configured plugin instance.
type Plugin interface {
	Capabilities() Capabilities
}

// Instance is one named plugin instance. Plugins configured with several
// blocks (one per graphite node, say) return one instance per block.
type Instance struct {
	Name   string
	Plugin Plugin
}

// RegisteredPlugin holds the compiled Go parts of a plugin.
type RegisteredPlugin struct {
	// NewConfig returns a pointer to a fresh config record. Fields already
	// set on the record act as defaults.
	NewConfig func() any
	// Configure builds instances from the decoded record returned by NewConfig.
	Configure func(ctx context.Context, cfg any) ([]Instance, error)
}

// RegisterPlugin registers the Go parts of the plugin configured by
// Plugin "name" blocks.
func (r *Registry) RegisterPlugin(name string, plugin *RegisteredPlugin) {
	if _, exists := r.plugins[name]; exists {
		panic(fmt.Sprintf("plugin with name '%s' already registered", name))
	}
	slog.Debug("Registering plugin.", "name", name)
	r.plugins[name] = plugin
}
