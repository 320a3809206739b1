package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopPlugin struct{ caps Capabilities }

func (p noopPlugin) Capabilities() Capabilities { return p.caps }

func configure(context.Context, any) ([]Instance, error) {
	return []Instance{{Name: "x", Plugin: noopPlugin{caps: CapRead}}}, nil
}

func TestRegisterPlugin(t *testing.T) {
	r := New()
	r.RegisterPlugin("b", &RegisteredPlugin{NewConfig: func() any { return new(struct{}) }, Configure: configure})
	r.RegisterPlugin("a", &RegisteredPlugin{NewConfig: func() any { return new(struct{}) }, Configure: configure})

	assert.Equal(t, []string{"a", "b"}, r.Names())

	p, ok := r.Plugin("a")
	require.True(t, ok)
	require.NotNil(t, p.Configure)

	_, ok = r.Plugin("missing")
	assert.False(t, ok)

	assert.Panics(t, func() {
		r.RegisterPlugin("a", &RegisteredPlugin{})
	})
}

func TestCapabilities(t *testing.T) {
	c := CapRead | CapWrite
	assert.True(t, c.HasRead())
	assert.True(t, c.HasWrite())
	assert.False(t, c.HasLog())
	assert.False(t, c.HasFlush())
	assert.Equal(t, "read|write", c.String())
	assert.Equal(t, "none", Capabilities(0).String())
}

type goodNode struct {
	Name   string `oconfig:"Name,required"`
	Port   *uint16
	Tags   []string
	Level  slog.Level
	Ignore map[string]string `oconfig:"-"`
}

type goodConfig struct {
	Node []goodNode
	Self *goodConfig
}

type badConfig struct {
	Extra map[string]string
	Raw   []byte `oconfig:"Payload"`
	Any   any
	Rows  [][]int
	Refs  []*[]string
}

func TestValidateRegistry(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())

	t.Run("decodable records pass", func(t *testing.T) {
		r := New()
		r.RegisterPlugin("good", &RegisteredPlugin{NewConfig: func() any { return new(goodConfig) }, Configure: configure})
		assert.NoError(t, r.ValidateRegistry(ctx))
	})

	t.Run("unsupported fields are listed", func(t *testing.T) {
		r := New()
		r.RegisterPlugin("bad", &RegisteredPlugin{NewConfig: func() any { return new(badConfig) }, Configure: configure})
		err := r.ValidateRegistry(ctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "plugin 'bad': field 'badConfig.Extra': map is not supported")
		assert.ErrorContains(t, err, "field 'badConfig.Payload': byte slices are not supported")
		assert.ErrorContains(t, err, "field 'badConfig.Any': interface is not supported")
		assert.ErrorContains(t, err, "field 'badConfig.Rows': nested sequences are not supported")
		assert.ErrorContains(t, err, "field 'badConfig.Refs': nested sequences are not supported")
	})

	t.Run("incomplete wiring", func(t *testing.T) {
		r := New()
		r.RegisterPlugin("nocfg", &RegisteredPlugin{Configure: configure})
		r.RegisterPlugin("nofn", &RegisteredPlugin{NewConfig: func() any { return new(goodConfig) }})
		r.RegisterPlugin("value", &RegisteredPlugin{NewConfig: func() any { return goodConfig{} }, Configure: configure})
		err := r.ValidateRegistry(ctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "plugin 'nocfg': NewConfig is not set")
		assert.ErrorContains(t, err, "plugin 'nofn': Configure is not set")
		assert.ErrorContains(t, err, "plugin 'value': NewConfig must return a pointer")
	})
}
