package storage

import (
	"log"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

func getTestLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
	})

	return logger
}

// seqKey session key whose order follows n
func seqKey(n byte) Key {
	return NewKey(SessionTag, uuid.UUID{15: n})
}

// checkRedBlack verifies the tree invariants and returns the black height
func checkRedBlack(t *testing.T, tree *redBlackTree) {
	t.Helper()
	require.Equal(t, black, nodeColor(tree.root), "root must be black")

	var walk func(n *redBlackNode) int
	walk = func(n *redBlackNode) int {
		if n == nil {
			return 1
		}
		if n.left != nil {
			require.Same(t, n, n.left.parent)
			require.Equal(t, KeyLessThan, n.left.key.Compare(n.key))
		}
		if n.right != nil {
			require.Same(t, n, n.right.parent)
			require.Equal(t, KeyMoreThan, n.right.key.Compare(n.key))
		}
		if n.color == red {
			require.Equal(t, black, nodeColor(n.left), "red node %v has red child", n)
			require.Equal(t, black, nodeColor(n.right), "red node %v has red child", n)
		}
		lh, rh := walk(n.left), walk(n.right)
		require.Equal(t, lh, rh, "black height differs under %v", n)
		if n.color == black {
			return lh + 1
		}
		return lh
	}
	walk(tree.root)
	require.Equal(t, tree.sizeof(), tree.root.sizeof())
}

func Test_redBlackTree_Put(t1 *testing.T) {
	sugar := getTestLogger().Sugar()

	tree := newRedBlackTree()
	require.NotNil(t1, tree)
	require.EqualValues(t1, 0, tree.sizeof(), "not empty")

	tree.put(seqKey(1), []byte("a"))
	tree.put(seqKey(2), []byte("b"))
	tree.put(seqKey(1), []byte("c"))
	tree.put(seqKey(3), nil)
	tree.put(seqKey(4), nil)
	tree.put(seqKey(5), nil)
	tree.put(seqKey(6), nil)

	sugar.Debugln(tree)

	// redBlackTree
	// │           ┌── R 14 00000000000000000000000000000006
	// │       ┌── B 14 00000000000000000000000000000005
	// │   ┌── R 14 00000000000000000000000000000004
	// │   │   └── B 14 00000000000000000000000000000003
	// └── B 14 00000000000000000000000000000002
	//     └── B 14 00000000000000000000000000000001

	require.EqualValues(t1, 6, tree.sizeof(), "wrong size")
	require.EqualValues(t1, 4, tree.get(seqKey(4)).sizeof(), "wrong size")
	require.EqualValues(t1, 6, tree.get(seqKey(2)).sizeof(), "wrong size")
	require.EqualValues(t1, 0, tree.get(seqKey(8)).sizeof(), "wrong size")
	checkRedBlack(t1, tree)

	node := tree.get(seqKey(1))
	require.NotNil(t1, node)
	require.Equal(t1, []byte("c"), node.value, "put must replace the value")
}

func TestRedBlackTree_Remove(t1 *testing.T) {
	sugar := getTestLogger().Sugar()

	tree := newRedBlackTree()
	for _, n := range []byte{10, 9, 8, 7, 1, 2, 3, 1, 7, 4, 5, 6} {
		tree.put(seqKey(n), []byte{n})
	}
	sugar.Debugln(tree)

	require.EqualValues(t1, 10, tree.sizeof(), "wrong size")
	checkRedBlack(t1, tree)

	for _, n := range []byte{10, 9, 8, 7, 9, 8} {
		tree.remove(seqKey(n))
		checkRedBlack(t1, tree)
	}
	sugar.Debugln(tree)

	require.EqualValues(t1, 6, tree.sizeof(), "wrong size")
	require.Equal(t1, []Key{seqKey(1), seqKey(2), seqKey(3), seqKey(4), seqKey(5), seqKey(6)}, tree.keys())
	for n := byte(1); n <= 6; n++ {
		node := tree.get(seqKey(n))
		require.NotNil(t1, node)
		require.Equal(t1, []byte{n}, node.value, "value must travel with its key")
	}
}

func TestRedBlackTree_Random(t *testing.T) {
	tree := newRedBlackTree()
	present := make(map[byte]bool)
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		n := byte(r.Intn(200))
		if r.Intn(3) == 0 {
			tree.remove(seqKey(n))
			delete(present, n)
		} else {
			tree.put(seqKey(n), []byte{n})
			present[n] = true
		}
	}
	checkRedBlack(t, tree)
	require.Equal(t, len(present), tree.sizeof())

	prev := Key(nil)
	for _, k := range tree.keys() {
		if prev != nil {
			require.Equal(t, KeyLessThan, prev.Compare(k))
		}
		prev = k
	}
}

func TestRedBlackTree_CeilingHigher(t *testing.T) {
	tree := newRedBlackTree()
	for _, n := range []byte{2, 4, 6} {
		tree.put(seqKey(n), nil)
	}

	require.Equal(t, seqKey(2), tree.ceiling(seqKey(1)).key)
	require.Equal(t, seqKey(4), tree.ceiling(seqKey(4)).key)
	require.Equal(t, seqKey(6), tree.higher(seqKey(4)).key)
	require.Nil(t, tree.higher(seqKey(6)))
	require.Nil(t, tree.ceiling(seqKey(7)))
	require.Equal(t, seqKey(2), tree.ceiling(Prefix(SessionTag)).key)
}
