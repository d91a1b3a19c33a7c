package bplus

import "fmt"

// insertIntoParent inserts sepKey and rightId into the parent of leftId.
// If the parent overflows, it splits and propagates upward.
func (t *BPlusTree) insertIntoParent(parentId int64, leftId int64, sepKey []byte, rightId int64) error {
	parent, err := t.fetchNode(parentId)
	if err != nil {
		return fmt.Errorf("insertIntoParent: failed to fetch parent %d: %w", parentId, err)
	}
	defer t.releaseNode(parent, false)

	idx := 0
	for idx < len(parent.children) && parent.children[idx] != leftId {
		idx++
	}
	if idx == len(parent.children) {
		return fmt.Errorf("insertIntoParent: node %d is not a child of %d", leftId, parentId)
	}

	parent.keys = insert(parent.keys, idx, sepKey)
	parent.children = insert(parent.children, idx+1, rightId)

	if err := t.setParent(rightId, parentId); err != nil {
		return err
	}

	if len(parent.keys) > t.maxKeys {
		return t.splitInternal(parent)
	}
	return t.writeNode(parent)
}
