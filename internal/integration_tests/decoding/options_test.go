package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/oconfig/internal/decode"
	"github.com/specialistvlad/oconfig/internal/registry"
	"github.com/specialistvlad/oconfig/internal/testutil"
	"github.com/stretchr/testify/require"
)

// queueConfig exercises integer fields and an optional nested record.
type queueConfig struct {
	Name     string       `oconfig:"Name,required" yaml:"name"`
	Capacity uint16       `oconfig:"Capacity" yaml:"capacity"`
	Retry    *retryConfig `oconfig:"Retry" yaml:"retry,omitempty"`
}

type retryConfig struct {
	Attempts int     `oconfig:"Attempts" yaml:"attempts"`
	Backoff  float64 `oconfig:"Backoff" yaml:"backoff"`
}

type queuePlugin struct{}

func (queuePlugin) Capabilities() registry.Capabilities { return registry.CapFlush }

type queueModule struct{}

func (queueModule) Register(r *registry.Registry) {
	r.RegisterPlugin("queue", &registry.RegisteredPlugin{
		NewConfig: func() any { return &queueConfig{Capacity: 100} },
		Configure: func(_ context.Context, cfg any) ([]registry.Instance, error) {
			c := cfg.(*queueConfig)
			return []registry.Instance{{Name: c.Name, Plugin: queuePlugin{}}}, nil
		},
	})
}

const queueHCL = `
Plugin "queue" {
  Name     = "q1"
  Capacity = 70000.7
  Extra    = "ignored unless strict"

  Retry {
    Attempts = 3
    Backoff  = 0.5
  }
}
`

func TestDecoding_LenientDefaults(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTestWithOptions(t.Context(), t,
		map[string]string{"main.hcl": queueHCL},
		testutil.Options{Modules: []registry.Module{queueModule{}}})

	// --- Assert ---
	require.NoError(t, result.Err, result.LogOutput)
	cfg := result.Plugin(t, "queue").Config.(*queueConfig)
	require.Equal(t, uint16(65535), cfg.Capacity, "out of range numbers saturate by default")
	require.NotNil(t, cfg.Retry)
	require.Equal(t, 3, cfg.Retry.Attempts)
	require.Contains(t, result.LogOutput, "Ignoring unknown field.")
}

func TestDecoding_DefaultsSurviveMissingKeys(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTestWithOptions(t.Context(), t,
		map[string]string{"main.hcl": `Plugin "queue" { Name = "q2" }`},
		testutil.Options{Modules: []registry.Module{queueModule{}}})

	// --- Assert ---
	require.NoError(t, result.Err, result.LogOutput)
	cfg := result.Plugin(t, "queue").Config.(*queueConfig)
	require.Equal(t, uint16(100), cfg.Capacity)
	require.Nil(t, cfg.Retry)
}

func TestDecoding_CheckedNumbers(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTestWithOptions(t.Context(), t,
		map[string]string{"main.hcl": queueHCL},
		testutil.Options{Modules: []registry.Module{queueModule{}}, CheckedNumbers: true})

	// --- Assert ---
	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, decode.ErrNumberOutOfRange)
	require.Contains(t, result.Err.Error(), "plugin queue: oconfig: Capacity:")
}

func TestDecoding_StrictOption(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTestWithOptions(t.Context(), t,
		map[string]string{"main.hcl": queueHCL},
		testutil.Options{Modules: []registry.Module{queueModule{}}, Strict: true})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "unknown field `Extra`")
}
