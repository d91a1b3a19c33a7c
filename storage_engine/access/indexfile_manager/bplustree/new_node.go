package bplus

import (
	"CatalogDB/types"
	"fmt"
)

// newNode creates a new page in the buffer pool and returns an empty Node.
// The returned node is pinned; caller must releaseNode when done.
func (t *BPlusTree) newNode(nodeType NodeType) (*Node, error) {
	pg, err := t.bufferPool.NewPage(t.fileID, types.PageTypeBPlusNode)
	if err != nil {
		return nil, fmt.Errorf("newNode: failed to allocate page: %w", err)
	}

	n := &Node{
		pageID:   pg.ID,
		nodeType: nodeType,
		keys:     make([][]byte, 0),
		children: make([]int64, 0),
		values:   make([][]byte, 0),
		next:     -1,
		parent:   -1,
		isDirty:  true,
	}

	// Serialize initial state immediately so the page is never garbage on eviction.
	pg.Lock()
	err = SerializeNode(n, pg.Data)
	pg.Unlock()
	if err != nil {
		_ = t.bufferPool.UnpinPage(pg.ID, false)
		return nil, fmt.Errorf("newNode: initial serialize failed: %w", err)
	}

	return n, nil
}

// writeNode serializes a node back into its buffer pool frame.
// It does NOT unpin; the pin taken by fetchNode/newNode stays with the caller.
func (t *BPlusTree) writeNode(n *Node) error {
	if len(n.keys) > t.maxKeys {
		return fmt.Errorf("writeNode: node %d holds %d keys, order is %d", n.pageID, len(n.keys), t.maxKeys)
	}
	pg, err := t.bufferPool.FetchPage(n.pageID)
	if err != nil {
		return fmt.Errorf("writeNode: failed to fetch page %d: %w", n.pageID, err)
	}

	pg.Lock()
	err = SerializeNode(n, pg.Data)
	pg.Unlock()

	if uerr := t.bufferPool.UnpinPage(n.pageID, err == nil); err == nil {
		err = uerr
	}
	if err != nil {
		return fmt.Errorf("writeNode: serialize failed for page %d: %w", n.pageID, err)
	}

	n.isDirty = false
	return nil
}

// fetchNode loads a node from the buffer pool (or disk via the pool).
// The returned node is pinned; caller must releaseNode when done.
func (t *BPlusTree) fetchNode(pageID int64) (*Node, error) {
	if pageID < 0 {
		return nil, fmt.Errorf("fetchNode: invalid pageID %d", pageID)
	}

	pg, err := t.bufferPool.FetchPage(pageID)
	if err != nil {
		return nil, fmt.Errorf("fetchNode: failed to fetch page %d: %w", pageID, err)
	}

	pg.RLock()
	n, err := DeserializeNode(pg.Data, t.fileID)
	pg.RUnlock()
	if err != nil {
		_ = t.bufferPool.UnpinPage(pageID, false)
		return nil, fmt.Errorf("fetchNode: deserialize failed for page %d: %w", pageID, err)
	}

	n.pageID = pageID
	return n, nil
}

func (t *BPlusTree) releaseNode(n *Node, dirty bool) {
	if n == nil {
		return
	}
	_ = t.bufferPool.UnpinPage(n.pageID, dirty || n.isDirty)
}
