package decode

import (
	"github.com/specialistvlad/oconfig/internal/oconfig"
)

// NodeKind tags the variant held by a Node.
type NodeKind uint8

const (
	NumberNode NodeKind = iota
	BooleanNode
	StringNode
	ObjectNode
)

func (k NodeKind) String() string {
	switch k {
	case NumberNode:
		return "number"
	case BooleanNode:
		return "boolean"
	case StringNode:
		return "string"
	case ObjectNode:
		return "object"
	default:
		return "unknown"
	}
}

// Node is one decodable unit produced by grouping: a scalar, or one
// occurrence of a child block.
type Node struct {
	Kind   NodeKind
	Num    float64
	Bool   bool
	Str    string
	Object []Entry
}

// Entry is a key with every value and child block that appeared under it,
// in input order.
type Entry struct {
	Key   string
	Nodes []Node
}

// Group folds items sharing a key into a single Entry. Keys are emitted in
// first-seen order; the nodes of a key keep the order in which the parser
// supplied them. An item with neither values nor children contributes
// nothing.
func Group(items []oconfig.Item) []Entry {
	var entries []Entry
	index := make(map[string]int)

	slot := func(key string) *Entry {
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, Entry{Key: key})
		}
		return &entries[i]
	}

	for _, item := range items {
		if len(item.Values) > 0 {
			e := slot(item.Key)
			for _, v := range item.Values {
				e.Nodes = append(e.Nodes, fromValue(v))
			}
		}
		if len(item.Children) > 0 {
			e := slot(item.Key)
			e.Nodes = append(e.Nodes, Node{Kind: ObjectNode, Object: Group(item.Children)})
		}
	}
	return entries
}

func fromValue(v oconfig.Value) Node {
	switch v.Type() {
	case oconfig.TypeNumber:
		n, _ := v.Number()
		return Node{Kind: NumberNode, Num: n}
	case oconfig.TypeBoolean:
		b, _ := v.Boolean()
		return Node{Kind: BooleanNode, Bool: b}
	default:
		s, _ := v.Str()
		return Node{Kind: StringNode, Str: s}
	}
}
