package decode

import (
	"strconv"
	"strings"
)

type frameKind uint8

const (
	structFrame frameKind = iota
	itemFrame
	seqFrame
)

func (k frameKind) String() string {
	switch k {
	case structFrame:
		return "struct"
	case itemFrame:
		return "item"
	default:
		return "seq"
	}
}

// frame is one position in the grouped tree. Which fields are meaningful
// depends on kind:
//
//	struct: entries, cursor (next entry to visit)
//	item:   key, nodes
//	seq:    nodes, cursor (element being decoded)
type frame struct {
	kind    frameKind
	key     string
	entries []Entry
	nodes   []Node
	cursor  int
}

// stack is the explicit traversal stack. It is owned by a single decode call.
type stack struct {
	frames []frame
}

func newStack(root []Entry) *stack {
	return &stack{frames: []frame{{kind: structFrame, entries: root}}}
}

func (s *stack) depth() int { return len(s.frames) }

func (s *stack) top() (*frame, error) {
	if len(s.frames) == 0 {
		return nil, newError(KindNoMoreValuesLeft)
	}
	return &s.frames[len(s.frames)-1], nil
}

// parent finds the frame a push at pos refers to. The first element of an
// iteration is pushed on top of its parent; every later element overwrites
// the previous one in place, so the parent then sits one slot lower.
func (s *stack) parent(pos int) (*frame, error) {
	off := 1
	if pos > 0 {
		off = 2
	}
	if len(s.frames) < off {
		return nil, newError(KindNoMoreValuesLeft)
	}
	return &s.frames[len(s.frames)-off], nil
}

func (s *stack) place(pos int, f frame) {
	if pos == 0 {
		s.frames = append(s.frames, f)
		return
	}
	s.frames[len(s.frames)-1] = f
}

// pushItem places an item frame for entry pos of the enclosing struct frame.
func (s *stack) pushItem(pos int) (string, error) {
	p, err := s.parent(pos)
	if err != nil {
		return "", err
	}
	if p.kind != structFrame {
		return "", newError(KindExpectStruct).withMsg("cannot visit field %d of a %s frame", pos, p.kind)
	}
	if pos >= len(p.entries) {
		return "", newError(KindNoMoreValuesLeft)
	}
	e := p.entries[pos]
	p.cursor = pos + 1
	s.place(pos, frame{kind: itemFrame, key: e.Key, nodes: e.Nodes})
	return e.Key, nil
}

// pushSeq places a seq frame over the nodes of the enclosing item frame,
// positioned at pos.
func (s *stack) pushSeq(pos int) error {
	p, err := s.parent(pos)
	if err != nil {
		return err
	}
	if p.kind != itemFrame {
		return newError(KindExpectStruct).withMsg("cannot iterate elements of a %s frame", p.kind)
	}
	if pos >= len(p.nodes) {
		return newError(KindNoMoreValuesLeft)
	}
	s.place(pos, frame{kind: seqFrame, nodes: p.nodes, cursor: pos})
	return nil
}

// pushStruct descends into an object node.
func (s *stack) pushStruct(entries []Entry) {
	s.frames = append(s.frames, frame{kind: structFrame, entries: entries})
}

// pushSingle places a one-element seq frame over n. Used for enum variants.
func (s *stack) pushSingle(n Node) {
	s.frames = append(s.frames, frame{kind: seqFrame, nodes: []Node{n}})
}

func (s *stack) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// path renders the position of the top of the stack, e.g. "Node[1].Address".
func (s *stack) path() string {
	var sb strings.Builder
	for _, f := range s.frames {
		switch f.kind {
		case itemFrame:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(f.key)
		case seqFrame:
			if len(f.nodes) > 1 {
				sb.WriteString("[" + strconv.Itoa(f.cursor) + "]")
			}
		}
	}
	return sb.String()
}
