// Package write_graphite sends metrics to one or more graphite nodes using
// the plaintext protocol. Each Node block configures one instance:
//
//	Plugin "write_graphite" {
//	  Node {
//	    Name    = "localhost.1"
//	    Address = "127.0.0.1:2003"
//	  }
//	  Node {
//	    Name    = "localhost.2"
//	    Address = "127.0.0.1:2004"
//	    Prefix  = "collectd"
//	  }
//	}
package write_graphite

import (
	"context"
	"fmt"
	"net"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/registry"
)

// PluginName is the name used in Plugin blocks.
const PluginName = "write_graphite"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is the body of the plugin block. Unknown keys are rejected, as they
// are most likely typos.
type Config struct {
	Nodes []Node `oconfig:"Node" yaml:"nodes"`
}

func (Config) StrictConfig() {}

// Node is one graphite destination.
type Node struct {
	Name    string  `oconfig:"Name,required" yaml:"name"`
	Address string  `oconfig:"Address,required" yaml:"address"`
	Prefix  *string `oconfig:"Prefix" yaml:"prefix,omitempty"`
}

func (Node) StrictConfig() {}

// Configure validates the nodes and returns one writer per node.
func Configure(ctx context.Context, cfg *Config) ([]registry.Instance, error) {
	logger := ctxlog.FromContext(ctx)

	names := make(map[string]struct{}, len(cfg.Nodes))
	instances := make([]registry.Instance, 0, len(cfg.Nodes))
	for _, node := range cfg.Nodes {
		if _, dup := names[node.Name]; dup {
			return nil, fmt.Errorf("node %q is defined more than once", node.Name)
		}
		names[node.Name] = struct{}{}

		if _, _, err := net.SplitHostPort(node.Address); err != nil {
			return nil, fmt.Errorf("node %q: invalid address %q: %w", node.Name, node.Address, err)
		}

		w := &Writer{Address: node.Address}
		if node.Prefix != nil {
			w.Prefix = *node.Prefix
		}
		logger.Debug("Configured graphite node.", "node", node.Name, "address", w.Address, "prefix", w.Prefix)
		instances = append(instances, registry.Instance{Name: node.Name, Plugin: w})
	}
	return instances, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPlugin(PluginName, &registry.RegisteredPlugin{
		NewConfig: func() any { return new(Config) },
		Configure: func(ctx context.Context, cfg any) ([]registry.Instance, error) {
			return Configure(ctx, cfg.(*Config))
		},
	})
}
