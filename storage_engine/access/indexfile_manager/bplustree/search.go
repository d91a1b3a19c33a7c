package bplus

import "fmt"

// Search looks for a key and returns its value and whether it was found.
func (t *BPlusTree) Search(key []byte) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	leaf, err := t.FindLeaf(t.root, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find leaf: %w", err)
	}
	defer t.releaseNode(leaf, false)

	idx := binarySearch(leaf.keys, key, t.cmp)
	if idx == -1 {
		return nil, false, nil
	}
	return leaf.values[idx], true, nil
}
