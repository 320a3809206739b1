package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/oconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemCmp = cmp.Options{
	cmp.AllowUnexported(oconfig.Value{}),
	cmpopts.EquateEmpty(),
}

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

func testLoader() *Loader {
	return &Loader{environ: func() []string { return []string{"GRAPHITE_HOST=graphite.local", "BROKEN"} }}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestParseHCL(t *testing.T) {
	src := `
Hostname = "box"
Interval = 10

plugin_block_first = true

Plugin "write_graphite" {
  Node {
    Name    = "localhost"
    Address = "${env.GRAPHITE_HOST}:2003"
  }
  Node {
    Name    = upper("backup")
    Address = "127.0.0.1:2004"
    Prefix  = null
  }
}

LoadPlugin = ["cpu", "load"]
Tags = { role = "db", tier = 1 }
Routes = [{ to = "a" }, { to = "b" }]
`
	items, err := testLoader().ParseHCL(testContext(), []byte(src), "test.hcl")
	require.NoError(t, err)

	expected := []oconfig.Item{
		oconfig.NewItem("Hostname", oconfig.String("box")),
		oconfig.NewItem("Interval", oconfig.Number(10)),
		oconfig.NewItem("plugin_block_first", oconfig.Boolean(true)),
		oconfig.NewItem("Plugin", oconfig.String("write_graphite")).WithChildren(
			oconfig.NewItem("Node").WithChildren(
				oconfig.NewItem("Name", oconfig.String("localhost")),
				oconfig.NewItem("Address", oconfig.String("graphite.local:2003")),
			),
			oconfig.NewItem("Node").WithChildren(
				oconfig.NewItem("Name", oconfig.String("BACKUP")),
				oconfig.NewItem("Address", oconfig.String("127.0.0.1:2004")),
			),
		),
		oconfig.NewItem("LoadPlugin", oconfig.String("cpu"), oconfig.String("load")),
		oconfig.NewItem("Tags").WithChildren(
			oconfig.NewItem("role", oconfig.String("db")),
			oconfig.NewItem("tier", oconfig.Number(1)),
		),
		oconfig.NewItem("Routes").WithChildren(oconfig.NewItem("to", oconfig.String("a"))),
		oconfig.NewItem("Routes").WithChildren(oconfig.NewItem("to", oconfig.String("b"))),
	}
	if diff := cmp.Diff(expected, items, itemCmp); diff != "" {
		t.Errorf("ParseHCL() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCLErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "syntax", src: `Plugin "x" {`, msg: "failed to parse HCL file"},
		{name: "unknown variable", src: `A = var.nope`, msg: "invalid value for 'A'"},
		{name: "nested error names block", src: "Plugin \"x\" {\n  A = nope()\n}\n", msg: "in block 'Plugin'"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testLoader().ParseHCL(testContext(), []byte(tc.src), "bad.hcl")
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := `
Hostname: box
Interval: 10
Enabled: yes
Ratio: 0.5
Quoted: "42"
Nothing: ~
LoadPlugin: [cpu, load]
Plugin write_graphite:
  Node:
    - Name: localhost
      Port: 2003
    - Name: backup
      Port: 2004
Plugin load:
  ReportRelative: true
`
	items, err := testLoader().ParseYAML(testContext(), []byte(src), "test.yaml")
	require.NoError(t, err)

	expected := []oconfig.Item{
		oconfig.NewItem("Hostname", oconfig.String("box")),
		oconfig.NewItem("Interval", oconfig.Number(10)),
		oconfig.NewItem("Enabled", oconfig.String("yes")),
		oconfig.NewItem("Ratio", oconfig.Number(0.5)),
		oconfig.NewItem("Quoted", oconfig.String("42")),
		oconfig.NewItem("Nothing"),
		oconfig.NewItem("LoadPlugin", oconfig.String("cpu"), oconfig.String("load")),
		oconfig.NewItem("Plugin", oconfig.String("write_graphite")).WithChildren(
			oconfig.NewItem("Node").WithChildren(
				oconfig.NewItem("Name", oconfig.String("localhost")),
				oconfig.NewItem("Port", oconfig.Number(2003)),
			),
			oconfig.NewItem("Node").WithChildren(
				oconfig.NewItem("Name", oconfig.String("backup")),
				oconfig.NewItem("Port", oconfig.Number(2004)),
			),
		),
		oconfig.NewItem("Plugin", oconfig.String("load")).WithChildren(
			oconfig.NewItem("ReportRelative", oconfig.Boolean(true)),
		),
	}
	if diff := cmp.Diff(expected, items, itemCmp); diff != "" {
		t.Errorf("ParseYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAMLEdges(t *testing.T) {
	items, err := testLoader().ParseYAML(testContext(), nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = testLoader().ParseYAML(testContext(), []byte("- a\n- b\n"), "list.yaml")
	assert.ErrorContains(t, err, "top level must be a mapping")

	_, err = testLoader().ParseYAML(testContext(), []byte("a: [\n"), "broken.yaml")
	assert.ErrorContains(t, err, "failed to parse YAML file")

	items, err = testLoader().ParseYAML(testContext(), []byte("base: &b {Port: 1}\ncopy: *b\n"), "alias.yaml")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, items[0].Children, items[1].Children)
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"10-globals.conf":          `Hostname = "box"`,
		"20-plugins/graphite.yaml": "Plugin write_graphite:\n  Node:\n    Name: a\n",
		"README.md":                "ignored",
	})

	items, err := testLoader().Load(testContext(), dir)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Hostname", items[0].Key)
	assert.Equal(t, "Plugin", items[1].Key)

	t.Run("single file and duplicates", func(t *testing.T) {
		file := filepath.Join(dir, "10-globals.conf")
		items, err := testLoader().Load(testContext(), file, file)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("nothing found", func(t *testing.T) {
		empty := t.TempDir()
		_, err := testLoader().Load(testContext(), empty)
		assert.ErrorContains(t, err, "no configuration files found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := testLoader().LoadFile(testContext(), filepath.Join(dir, "README.md"))
		assert.ErrorContains(t, err, "unsupported config file type")
	})
}
