package decode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/oconfig/internal/oconfig"
	"github.com/stretchr/testify/assert"
)

func TestGroup(t *testing.T) {
	t.Run("repeated keys merge in first-seen position", func(t *testing.T) {
		items := []oconfig.Item{
			oconfig.NewItem("A", oconfig.String("x")),
			oconfig.NewItem("B", oconfig.Number(1)),
			oconfig.NewItem("A", oconfig.String("y"), oconfig.String("z")),
		}

		expected := []Entry{
			{Key: "A", Nodes: []Node{
				{Kind: StringNode, Str: "x"},
				{Kind: StringNode, Str: "y"},
				{Kind: StringNode, Str: "z"},
			}},
			{Key: "B", Nodes: []Node{{Kind: NumberNode, Num: 1}}},
		}
		if diff := cmp.Diff(expected, Group(items)); diff != "" {
			t.Errorf("Group() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("children become one object per occurrence", func(t *testing.T) {
		items := []oconfig.Item{
			oconfig.NewItem("Node").WithChildren(oconfig.NewItem("Port", oconfig.Number(2003))),
			oconfig.NewItem("Node").WithChildren(oconfig.NewItem("Port", oconfig.Number(2004))),
		}

		expected := []Entry{
			{Key: "Node", Nodes: []Node{
				{Kind: ObjectNode, Object: []Entry{{Key: "Port", Nodes: []Node{{Kind: NumberNode, Num: 2003}}}}},
				{Kind: ObjectNode, Object: []Entry{{Key: "Port", Nodes: []Node{{Kind: NumberNode, Num: 2004}}}}},
			}},
		}
		if diff := cmp.Diff(expected, Group(items)); diff != "" {
			t.Errorf("Group() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("labelled block keeps values before its object", func(t *testing.T) {
		items := []oconfig.Item{
			oconfig.NewItem("Plugin", oconfig.String("load")).WithChildren(
				oconfig.NewItem("ReportRelative", oconfig.Boolean(true)),
			),
		}

		got := Group(items)
		assert.Len(t, got, 1)
		assert.Equal(t, []NodeKind{StringNode, ObjectNode}, []NodeKind{got[0].Nodes[0].Kind, got[0].Nodes[1].Kind})
	})

	t.Run("empty items contribute nothing", func(t *testing.T) {
		items := []oconfig.Item{
			oconfig.NewItem("Empty"),
			oconfig.NewItem("B", oconfig.Boolean(false)),
		}
		got := Group(items)
		assert.Len(t, got, 1)
		assert.Equal(t, "B", got[0].Key)
		assert.Empty(t, Group(nil))
	})

	t.Run("pure function of input", func(t *testing.T) {
		items := []oconfig.Item{
			oconfig.NewItem("A", oconfig.Number(1)),
			oconfig.NewItem("A", oconfig.Number(2)),
		}
		assert.Equal(t, Group(items), Group(items))
		assert.Len(t, items[0].Values, 1)
	})
}
