package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_cursor_next(t *testing.T) {
	tree := newRedBlackTree()
	require.NotNil(t, tree)
	require.EqualValues(t, 0, tree.sizeof(), "not empty")

	tree.put(seqKey(1), nil)
	it := tree.cursor()
	require.EqualValues(t, begin, it.pos)
	require.True(t, it.node == nil)

	flag := it.next()
	require.EqualValues(t, onmyway, it.pos)
	require.True(t, flag)
	require.True(t, it.node != nil)

	flag = it.next()
	require.EqualValues(t, end, it.pos)
	require.False(t, flag)
	require.True(t, it.node == nil)

	it.begin()
	require.EqualValues(t, begin, it.pos)
	require.True(t, it.node == nil)

	flag = it.next()
	require.EqualValues(t, onmyway, it.pos)
	require.True(t, flag)
	require.True(t, it.node != nil)

	flag = it.prev()
	require.EqualValues(t, begin, it.pos)
	require.False(t, flag)
	require.True(t, it.node == nil)
}

func Test_cursor_prev(t *testing.T) {
	tree := newRedBlackTree()
	for _, n := range []byte{3, 1, 2} {
		tree.put(seqKey(n), nil)
	}

	it := tree.cursor()
	it.end()
	var got []Key
	for it.prev() {
		got = append(got, it.node.key)
	}
	require.Equal(t, []Key{seqKey(3), seqKey(2), seqKey(1)}, got)
	require.EqualValues(t, begin, it.pos)
}

func Test_treeIterator_prefix(t *testing.T) {
	tree := newRedBlackTree()
	require.NoError(t, tree.Write(NewBatch().
		Put(NewKey(ContainerTag, testContainerId), []byte("c")).
		Put(NewKey(ItemTag, testContainerId, testItemId), []byte("i")).
		Put(seqKey(1), nil).
		Put(seqKey(2), nil)))

	it := tree.NewPrefixIterator(Prefix(SessionTag))
	defer it.Release()

	var got []Key
	for it.Next() {
		got = append(got, it.Key())
	}
	require.NoError(t, it.Error())
	require.Equal(t, []Key{seqKey(1), seqKey(2)}, got)
	require.False(t, it.Next(), "exhausted iterator must stay exhausted")
}

func Test_treeIterator_concurrentWrite(t *testing.T) {
	tree := newRedBlackTree()
	for _, n := range []byte{1, 3, 5} {
		tree.put(seqKey(n), nil)
	}

	it := tree.NewPrefixIterator(Prefix(SessionTag))
	defer it.Release()

	require.True(t, it.Next())
	require.Equal(t, seqKey(1), it.Key())

	// writes behind and ahead of the position while walking
	require.NoError(t, tree.Write(NewBatch().Delete(seqKey(1)).Put(seqKey(4), nil).Delete(seqKey(5))))

	var got []Key
	for it.Next() {
		got = append(got, it.Key())
	}
	require.Equal(t, []Key{seqKey(3), seqKey(4)}, got)
}
