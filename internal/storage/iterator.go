package storage

// cursor holding the in-order walk state
type cursor struct {
	tree *redBlackTree
	node *redBlackNode
	pos  position
}

type position byte

const (
	begin, onmyway, end position = 0, 1, 2
)

// cursor returns a cursor positioned before the first node
//
// IMPORTANT: cursor does not provide thread safety
func (t *redBlackTree) cursor() cursor {
	return cursor{tree: t, node: nil, pos: begin}
}

// next moves the cursor to the next element
func (it *cursor) next() bool {
	if it.pos == end {
		it.node = nil
		return false
	}

	if it.pos == begin {
		minNode := it.min()
		if minNode == nil {
			it.node = nil
			it.pos = end
			return false
		}
		it.node = minNode
		it.pos = onmyway
		return true
	}

	if it.node.right != nil {
		it.node = it.node.right
		for it.node.left != nil {
			it.node = it.node.left
		}
		it.pos = onmyway
		return true
	}

	for it.node.parent != nil {
		node := it.node
		it.node = it.node.parent
		if node == it.node.left {
			it.pos = onmyway
			return true
		}
	}

	it.pos = end
	it.node = nil
	return false
}

// prev moves the cursor to the previous element
func (it *cursor) prev() bool {
	if it.pos == begin {
		it.node = nil
		return false
	}

	if it.pos == end {
		maxNode := it.max()
		if maxNode == nil {
			it.node = nil
			it.pos = begin
			return false
		}
		it.node = maxNode
		it.pos = onmyway
		return true
	}

	if it.node.left != nil {
		it.node = it.node.left
		for it.node.right != nil {
			it.node = it.node.right
		}
		it.pos = onmyway
		return true
	}

	for it.node.parent != nil {
		curNode := it.node
		it.node = it.node.parent
		if curNode == it.node.right {
			it.pos = onmyway
			return true
		}
	}

	it.node = nil
	it.pos = begin
	return false
}

// begin resets the cursor to one-before-first
func (it *cursor) begin() {
	it.node = nil
	it.pos = begin
}

// end moves the cursor to one-past-the-end
func (it *cursor) end() {
	it.node = nil
	it.pos = end
}

// min returns the minimal node or nil
func (it *cursor) min() *redBlackNode {
	var minNode *redBlackNode
	for curNode := it.tree.root; curNode != nil; curNode = curNode.left {
		minNode = curNode
	}
	return minNode
}

// max returns the max node or nil
func (it *cursor) max() *redBlackNode {
	var maxNode *redBlackNode
	for curNode := it.tree.root; curNode != nil; curNode = curNode.right {
		maxNode = curNode
	}
	return maxNode
}

// treeIterator is the Iterator of the tree engine.
//
// The tree lock is held only inside Next: every step re-seeks to the
// first key above the previous one, so rebalancing by concurrent
// writers never invalidates the walk.
type treeIterator struct {
	tree   *redBlackTree
	prefix Key
	last   Key
	key    Key
	value  []byte
	done   bool
	err    error
}

func (it *treeIterator) Next() bool {
	if it.done {
		return false
	}

	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()

	if it.tree.closed {
		it.err = ErrClosed
		it.stop()
		return false
	}

	var node *redBlackNode
	if it.last == nil {
		node = it.tree.ceiling(it.prefix)
	} else {
		node = it.tree.higher(it.last)
	}
	if node == nil || !node.key.HasPrefix(it.prefix) {
		it.stop()
		return false
	}

	it.last = node.key
	it.key = append(Key{}, node.key...)
	it.value = append([]byte{}, node.value...)
	return true
}

func (it *treeIterator) stop() {
	it.done = true
	it.key = nil
	it.value = nil
}

func (it *treeIterator) Key() Key {
	return it.key
}

func (it *treeIterator) Value() []byte {
	return it.value
}

func (it *treeIterator) Release() {
	it.stop()
}

func (it *treeIterator) Error() error {
	return it.err
}
