package decode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Key: "A", Nodes: []Node{{Kind: NumberNode, Num: 1}, {Kind: NumberNode, Num: 2}}},
		{Key: "B", Nodes: []Node{{Kind: StringNode, Str: "b"}}},
	}
}

func TestStackSiblingsOverwrite(t *testing.T) {
	s := newStack(testEntries())
	require.Equal(t, 1, s.depth())

	key, err := s.pushItem(0)
	require.NoError(t, err)
	assert.Equal(t, "A", key)
	assert.Equal(t, 2, s.depth())

	key, err = s.pushItem(1)
	require.NoError(t, err)
	assert.Equal(t, "B", key)
	assert.Equal(t, 2, s.depth(), "later siblings reuse the slot")
	assert.Equal(t, 2, s.frames[0].cursor)

	_, err = s.pushItem(2)
	assert.True(t, errors.Is(err, ErrNoMoreValuesLeft))
}

func TestStackSeq(t *testing.T) {
	s := newStack(testEntries())
	_, err := s.pushItem(0)
	require.NoError(t, err)

	require.NoError(t, s.pushSeq(0))
	assert.Equal(t, 3, s.depth())
	assert.Equal(t, "A[0]", s.path())

	require.NoError(t, s.pushSeq(1))
	assert.Equal(t, 3, s.depth())
	assert.Equal(t, "A[1]", s.path())

	top, err := s.top()
	require.NoError(t, err)
	assert.Equal(t, seqFrame, top.kind)
	assert.Equal(t, 2.0, top.nodes[top.cursor].Num)
}

func TestStackIllegalPushes(t *testing.T) {
	t.Run("seq over a struct frame", func(t *testing.T) {
		s := newStack(testEntries())
		err := s.pushSeq(0)
		assert.True(t, errors.Is(err, ErrExpectStruct))
	})

	t.Run("item over an item frame", func(t *testing.T) {
		s := newStack(testEntries())
		_, err := s.pushItem(0)
		require.NoError(t, err)
		_, err = s.pushItem(0)
		assert.True(t, errors.Is(err, ErrExpectStruct))
	})
}

func TestStackUnderflow(t *testing.T) {
	s := newStack(nil)
	s.pop()
	assert.Equal(t, 0, s.depth())
	s.pop()
	assert.Equal(t, 0, s.depth())

	_, err := s.top()
	assert.True(t, errors.Is(err, ErrNoMoreValuesLeft))
	_, err = s.pushItem(1)
	assert.True(t, errors.Is(err, ErrNoMoreValuesLeft))
}
