package app

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/decode"
	"github.com/specialistvlad/oconfig/internal/oconfig"
	"github.com/specialistvlad/oconfig/internal/registry"
)

const pluginKey = "Plugin"

// Result is the outcome of a successful run.
type Result struct {
	Globals *Globals
	Plugins []*ConfiguredPlugin
}

// ConfiguredPlugin is a plugin whose config was decoded and accepted.
type ConfiguredPlugin struct {
	Name      string
	Config    any
	Instances []registry.Instance
}

// Run loads the configuration, decodes it and configures every plugin that
// has a Plugin block or is named by LoadPlugin.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "path", a.config.ConfigPath)

	items, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	globalItems, blocks := splitPluginBlocks(items)
	a.logger.Debug("Configuration loaded.", "globals", len(globalItems), "plugin_blocks", len(blocks))

	globals := defaultGlobals()
	if err := decode.Unmarshal(globalItems, globals, a.decodeOptions()...); err != nil {
		return nil, fmt.Errorf("invalid global configuration: %w", err)
	}
	if globals.Hostname == "" {
		if host, err := os.Hostname(); err == nil {
			globals.Hostname = host
		}
	}
	a.logger.Debug("Globals decoded.", "hostname", globals.Hostname, "interval", globals.Interval, "log_level", globals.LogLevel.String())

	result := &Result{Globals: globals}
	seen := make(map[string]bool)

	for _, block := range blocks {
		name, err := pluginName(block)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("already seen a config section for %s", name)
		}
		seen[name] = true

		plugin, ok := a.registry.Plugin(name)
		if !ok {
			a.logger.Warn("No plugin registered for Plugin block, skipping.", "plugin", name, "known", a.registry.Names())
			continue
		}
		if len(globals.LoadPlugin) > 0 && !slices.Contains(globals.LoadPlugin, name) {
			a.logger.Warn("Plugin block for a plugin that is not listed in LoadPlugin.", "plugin", name)
		}

		cp, err := a.configure(ctx, name, plugin, block.Children)
		if err != nil {
			return nil, err
		}
		result.Plugins = append(result.Plugins, cp)
	}

	// Loaded plugins without a block are configured with their defaults.
	for _, name := range globals.LoadPlugin {
		if seen[name] {
			continue
		}
		seen[name] = true

		plugin, ok := a.registry.Plugin(name)
		if !ok {
			a.logger.Warn("No plugin registered for LoadPlugin entry.", "plugin", name)
			continue
		}
		cp, err := a.configure(ctx, name, plugin, nil)
		if err != nil {
			return nil, err
		}
		result.Plugins = append(result.Plugins, cp)
	}

	if a.config.Dump {
		if err := a.dump(result); err != nil {
			return nil, err
		}
	}

	a.logger.Info("Configuration complete.", "plugins", len(result.Plugins))
	return result, nil
}

func (a *App) configure(ctx context.Context, name string, plugin *registry.RegisteredPlugin, items []oconfig.Item) (*ConfiguredPlugin, error) {
	cfg := plugin.NewConfig()
	if err := decode.Unmarshal(items, cfg, a.decodeOptions()...); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", name, err)
	}

	instances, err := plugin.Configure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: configure failed: %w", name, err)
	}
	for _, inst := range instances {
		a.logger.Info("Plugin instance configured.", "plugin", name, "instance", inst.Name, "capabilities", inst.Plugin.Capabilities().String())
	}
	return &ConfiguredPlugin{Name: name, Config: cfg, Instances: instances}, nil
}

func (a *App) decodeOptions() []decode.Option {
	opts := []decode.Option{decode.WithLogger(a.logger)}
	if a.config.Strict {
		opts = append(opts, decode.DisallowUnknownFields())
	}
	if a.config.CheckedNumbers {
		opts = append(opts, decode.CheckedNumbers())
	}
	return opts
}

// splitPluginBlocks separates Plugin blocks from global directives. Blocks
// stay raw so each one is decoded against its own plugin's record.
func splitPluginBlocks(items []oconfig.Item) (globals, blocks []oconfig.Item) {
	for _, it := range items {
		if it.Key == pluginKey {
			blocks = append(blocks, it)
			continue
		}
		globals = append(globals, it)
	}
	return globals, blocks
}

func pluginName(block oconfig.Item) (string, error) {
	if len(block.Values) != 1 {
		return "", fmt.Errorf("plugin block must carry exactly one name, got %d values", len(block.Values))
	}
	name, ok := block.Values[0].Str()
	if !ok || name == "" {
		return "", fmt.Errorf("plugin block name must be a non-empty string, got %#v", block.Values[0])
	}
	return name, nil
}
