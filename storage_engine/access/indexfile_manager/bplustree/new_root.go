package bplus

import "fmt"

// createNewRoot creates a new root internal node with leftPageID and rightPageID
// as its two children, separated by promoteKey.
func (t *BPlusTree) createNewRoot(leftPageID int64, promoteKey []byte, rightPageID int64) error {
	root, err := t.newNode(NodeInternal)
	if err != nil {
		return fmt.Errorf("createNewRoot: failed to allocate new root: %w", err)
	}
	defer t.releaseNode(root, true)

	root.keys = append(root.keys, promoteKey)
	root.children = append(root.children, leftPageID, rightPageID)
	root.parent = -1

	if err := t.writeNode(root); err != nil {
		return err
	}
	for _, childID := range []int64{leftPageID, rightPageID} {
		if err := t.setParent(childID, root.pageID); err != nil {
			return fmt.Errorf("createNewRoot: %w", err)
		}
	}

	t.root = root.pageID
	return t.saveRoot()
}
