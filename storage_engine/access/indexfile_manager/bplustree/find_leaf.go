package bplus

import "fmt"

// FindLeaf descends from nodeId to the leaf that holds or would hold key.
// The returned leaf is pinned; caller releases it.
func (t *BPlusTree) FindLeaf(nodeId int64, key []byte) (*Node, error) {
	return t.descend(nodeId, func(n *Node) int {
		return upperBound(n.keys, key, t.cmp)
	})
}

// firstLeaf descends to the leftmost leaf.
func (t *BPlusTree) firstLeaf() (*Node, error) {
	return t.descend(t.root, func(*Node) int { return 0 })
}

func (t *BPlusTree) descend(nodeId int64, pick func(*Node) int) (*Node, error) {
	for {
		node, err := t.fetchNode(nodeId)
		if err != nil {
			return nil, fmt.Errorf("FindLeaf: failed to fetch node %d: %w", nodeId, err)
		}

		if node.nodeType == NodeLeaf {
			return node, nil
		}
		if len(node.children) == 0 {
			t.releaseNode(node, false)
			return nil, fmt.Errorf("FindLeaf: internal node %d has no children", nodeId)
		}
		i := min(pick(node), len(node.children)-1)
		nextId := node.children[i]
		t.releaseNode(node, false)
		nodeId = nextId
	}
}
