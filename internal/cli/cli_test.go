package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional path with defaults", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"collectd.hcl"}, &out)
		require.NoError(t, err)
		assert.False(t, exit)
		assert.Equal(t, "collectd.hcl", cfg.ConfigPath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.Strict)
		assert.False(t, cfg.CheckedNumbers)
		assert.False(t, cfg.Dump)
	})

	t.Run("all flags", func(t *testing.T) {
		cfg, exit, err := Parse([]string{
			"-c", "conf.d",
			"--log-format", "JSON",
			"--log-level=debug",
			"--strict", "--checked-numbers", "--dump",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.False(t, exit)
		assert.Equal(t, "conf.d", cfg.ConfigPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.Strict)
		assert.True(t, cfg.CheckedNumbers)
		assert.True(t, cfg.Dump)
	})

	t.Run("flags after the path", func(t *testing.T) {
		cfg, _, err := Parse([]string{"collectd.yaml", "--dump"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "collectd.yaml", cfg.ConfigPath)
		assert.True(t, cfg.Dump)
	})
}

func TestParseExits(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {}} {
		var out bytes.Buffer
		cfg, exit, err := Parse(args, &out)
		require.NoError(t, err, "args %v", args)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "--checked-numbers")
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--nope"}, wantMsg: "unknown flag: --nope"},
		{name: "bad format", args: []string{"--log-format", "xml", "x.hcl"}, wantMsg: `invalid log format "xml"`},
		{name: "bad level", args: []string{"--log-level", "trace", "x.hcl"}, wantMsg: `invalid log level "trace"`},
		{name: "two paths", args: []string{"a.hcl", "b.hcl"}, wantMsg: "unexpected argument: b.hcl"},
		{name: "flag and path", args: []string{"-c", "a.hcl", "b.hcl"}, wantMsg: "unexpected argument: b.hcl"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
