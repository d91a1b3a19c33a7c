package bplus

import "fmt"

// splitInternal splits a full internal node and promotes the middle key.
func (t *BPlusTree) splitInternal(node *Node) error {
	mid := len(node.keys) / 2
	promoteKey := node.keys[mid]

	right, err := t.newNode(NodeInternal)
	if err != nil {
		return fmt.Errorf("splitInternal: failed to allocate right sibling: %w", err)
	}
	defer t.releaseNode(right, true)

	right.keys = append(right.keys, node.keys[mid+1:]...)
	right.children = append(right.children, node.children[mid+1:]...)
	right.parent = node.parent

	node.keys = node.keys[:mid]
	node.children = node.children[:mid+1]

	if err := t.writeNode(node); err != nil {
		return err
	}
	if err := t.writeNode(right); err != nil {
		return err
	}

	for _, childID := range right.children {
		if err := t.setParent(childID, right.pageID); err != nil {
			return fmt.Errorf("splitInternal: %w", err)
		}
	}

	if node.pageID == t.root {
		return t.createNewRoot(node.pageID, promoteKey, right.pageID)
	}
	return t.insertIntoParent(node.parent, node.pageID, promoteKey, right.pageID)
}
