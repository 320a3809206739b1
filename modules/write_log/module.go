// Package write_log writes every dispatched value list to the application
// log. StoreRates defaults to true.
package write_log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/loglevel"
	"github.com/specialistvlad/oconfig/internal/registry"
)

// PluginName is the name used in Plugin blocks.
const PluginName = "write_log"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is the body of the plugin block. Unknown keys are ignored.
type Config struct {
	StoreRates bool           `oconfig:"StoreRates" yaml:"store_rates"`
	LogLevel   loglevel.Level `oconfig:"LogLevel" yaml:"log_level"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{StoreRates: true, LogLevel: loglevel.Info}
}

// Value is one named data source of a value list.
type Value struct {
	Name  string
	Value float64
}

// Writer logs value lists and forwards log messages at or above its level.
type Writer struct {
	StoreRates bool
	Level      loglevel.Level
	logger     *slog.Logger
}

func (w *Writer) Capabilities() registry.Capabilities {
	return registry.CapWrite | registry.CapLog
}

// Write logs a single value list.
func (w *Writer) Write(ctx context.Context, plugin, typ string, values []Value) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s - %g", v.Name, v.Value))
	}
	w.logger.InfoContext(ctx, "Values written.",
		"plugin", plugin,
		"type", typ,
		"rates", w.StoreRates,
		"values", strings.Join(parts, ", "),
	)
}

// Log forwards msg when level is at least as severe as the configured one.
// Lower numbers are more severe.
func (w *Writer) Log(ctx context.Context, level loglevel.Level, msg string) bool {
	if level > w.Level {
		return false
	}
	w.logger.Log(ctx, level.Slog(), msg)
	return true
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPlugin(PluginName, &registry.RegisteredPlugin{
		NewConfig: func() any { return NewConfig() },
		Configure: func(ctx context.Context, cfg any) ([]registry.Instance, error) {
			c := cfg.(*Config)
			w := &Writer{
				StoreRates: c.StoreRates,
				Level:      c.LogLevel,
				logger:     ctxlog.FromContext(ctx).With("plugin", PluginName),
			}
			return []registry.Instance{{Name: PluginName, Plugin: w}}, nil
		},
	})
}
