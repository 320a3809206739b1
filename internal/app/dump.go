package app

import (
	"fmt"

	"github.com/specialistvlad/oconfig/internal/registry"
	"gopkg.in/yaml.v3"
)

type dumpDoc struct {
	Globals *Globals     `yaml:"globals"`
	Plugins []dumpPlugin `yaml:"plugins,omitempty"`
}

type dumpPlugin struct {
	Name      string         `yaml:"name"`
	Config    any            `yaml:"config"`
	Instances []dumpInstance `yaml:"instances,omitempty"`
}

type dumpInstance struct {
	Name         string                `yaml:"name"`
	Capabilities registry.Capabilities `yaml:"capabilities"`
}

// dump writes the decoded configuration to the output as YAML.
func (a *App) dump(result *Result) error {
	doc := dumpDoc{Globals: result.Globals}
	for _, p := range result.Plugins {
		dp := dumpPlugin{Name: p.Name, Config: p.Config}
		for _, inst := range p.Instances {
			dp.Instances = append(dp.Instances, dumpInstance{Name: inst.Name, Capabilities: inst.Plugin.Capabilities()})
		}
		doc.Plugins = append(doc.Plugins, dp)
	}

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to dump configuration: %w", err)
	}
	return enc.Close()
}
