// Package load reports the system load average. With ReportRelative set the
// averages are divided by the number of CPUs:
//
//	Plugin "load" {
//	  ReportRelative = true
//	}
package load

import (
	"context"
	"runtime"

	"github.com/specialistvlad/oconfig/internal/registry"
)

// PluginName is the name used in Plugin blocks.
const PluginName = "load"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is the body of the plugin block. Unknown keys are rejected.
type Config struct {
	ReportRelative *bool `oconfig:"ReportRelative" yaml:"report_relative,omitempty"`
}

func (Config) StrictConfig() {}

// Reporter scales raw load averages. CPUs is zero for absolute reporting.
type Reporter struct {
	CPUs float64
}

func (r *Reporter) Capabilities() registry.Capabilities { return registry.CapRead }

// Relative reports whether values are divided by the CPU count.
func (r *Reporter) Relative() bool { return r.CPUs > 0 }

// Scale returns the short, mid and long term averages as reported.
func (r *Reporter) Scale(avg [3]float64) [3]float64 {
	if !r.Relative() {
		return avg
	}
	for i := range avg {
		avg[i] /= r.CPUs
	}
	return avg
}

func newReporter(cfg *Config, cpus int) *Reporter {
	if cfg.ReportRelative != nil && *cfg.ReportRelative {
		// The CPU count is read once at startup.
		return &Reporter{CPUs: float64(cpus)}
	}
	return &Reporter{}
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPlugin(PluginName, &registry.RegisteredPlugin{
		NewConfig: func() any { return new(Config) },
		Configure: func(_ context.Context, cfg any) ([]registry.Instance, error) {
			rep := newReporter(cfg.(*Config), runtime.NumCPU())
			return []registry.Instance{{Name: PluginName, Plugin: rep}}, nil
		},
	})
}
