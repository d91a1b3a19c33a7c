package bplus

// Iterator provides a forward-only scan over the leaves.
// It holds a pinned leaf; call Close() when done to release it.
type Iterator struct {
	tree  *BPlusTree
	leaf  *Node
	index int
	valid bool
	err   error
}

// SeekGE positions the iterator at the first key >= target.
func (t *BPlusTree) SeekGE(target []byte) *Iterator {
	t.mu.RLock()
	defer t.mu.RUnlock()

	it := &Iterator{tree: t}
	leaf, err := t.FindLeaf(t.root, target)
	if err != nil {
		it.err = err
		return it
	}
	it.position(leaf, lowerBound(leaf.keys, target, t.cmp))
	return it
}

// First positions the iterator at the smallest key.
func (t *BPlusTree) First() *Iterator {
	t.mu.RLock()
	defer t.mu.RUnlock()

	it := &Iterator{tree: t}
	leaf, err := t.firstLeaf()
	if err != nil {
		it.err = err
		return it
	}
	it.position(leaf, 0)
	return it
}

// position settles on leaf[i], following next pointers past exhausted leaves.
func (it *Iterator) position(leaf *Node, i int) {
	for i >= len(leaf.keys) {
		nextId := leaf.next
		it.tree.releaseNode(leaf, false)
		if nextId < 0 {
			it.leaf = nil
			it.valid = false
			return
		}
		next, err := it.tree.fetchNode(nextId)
		if err != nil {
			it.err = err
			it.leaf = nil
			it.valid = false
			return
		}
		leaf, i = next, 0
	}
	it.leaf = leaf
	it.index = i
	it.valid = true
}

// Valid reports whether the iterator points at an entry.
func (it *Iterator) Valid() bool { return it.valid }

// Err returns the first error hit while moving.
func (it *Iterator) Err() error { return it.err }

// Next advances the iterator. Returns false when exhausted.
func (it *Iterator) Next() bool {
	if !it.valid {
		return false
	}
	it.position(it.leaf, it.index+1)
	return it.valid
}

// Close releases the pinned leaf.
func (it *Iterator) Close() {
	if it.leaf != nil {
		it.tree.releaseNode(it.leaf, false)
		it.leaf = nil
	}
	it.valid = false
}

func (it *Iterator) Key() []byte {
	if !it.valid {
		return nil
	}
	return it.leaf.keys[it.index]
}

func (it *Iterator) Value() []byte {
	if !it.valid {
		return nil
	}
	return it.leaf.values[it.index]
}
