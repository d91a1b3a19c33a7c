package bplus

import "fmt"

// Insertion adds key → value. Keys are unique: an existing key is left
// untouched and ErrDuplicateKey is returned. Both slices are copied.
func (t *BPlusTree) Insertion(key []byte, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(key) == 0 || len(key) > t.keyLen {
		return fmt.Errorf("Insertion: key length %d out of range 1..%d", len(key), t.keyLen)
	}
	if len(value) > MaxValLen {
		return fmt.Errorf("Insertion: value too long (%d bytes, max %d)", len(value), MaxValLen)
	}

	leaf, err := t.FindLeaf(t.root, key)
	if err != nil {
		return fmt.Errorf("Insertion: failed to find leaf: %w", err)
	}
	defer t.releaseNode(leaf, false)

	if binarySearch(leaf.keys, key, t.cmp) != -1 {
		return ErrDuplicateKey
	}

	pos := lowerBound(leaf.keys, key, t.cmp)
	leaf.keys = insert(leaf.keys, pos, append([]byte(nil), key...))
	leaf.values = insert(leaf.values, pos, append([]byte(nil), value...))
	leaf.isDirty = true

	if len(leaf.keys) > t.maxKeys {
		return t.splitLeaf(leaf)
	}
	return t.writeNode(leaf)
}

// setParent rewrites the parent pointer stored in node childID.
func (t *BPlusTree) setParent(childID, parentID int64) error {
	child, err := t.fetchNode(childID)
	if err != nil {
		return fmt.Errorf("setParent: failed to fetch child %d: %w", childID, err)
	}
	defer t.releaseNode(child, false)
	child.parent = parentID
	return t.writeNode(child)
}
