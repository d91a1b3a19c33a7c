// Structure of B+ Tree
/*
Tree
 ├── Internal Node (keys + child pointers)
 │      └── Child Internal Nodes ...
 │             └── Leaf Nodes (keys + values + next pointer)


- keys: sorted ascending order, unique
- internal nodes: children length == len(keys)+1
- leaf nodes: values length == len(keys)
- leaf nodes linked with `next` for fast range scans
- all leaf nodes at same depth
- a separator equals the first key of its right subtree

*/
package bplus

import (
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"errors"
	"sync"
)

type NodeType int

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

const (
	// MaxKeys caps the fan-out; wide keys get a smaller order, see orderFor.
	MaxKeys = 32

	MaxKeyLen = 256 // in bytes
	MaxValLen = 16  // in bytes
)

// ErrDuplicateKey is returned by Insertion when the key is already present.
var ErrDuplicateKey = errors.New("duplicate key")

type Node struct {
	pageID   int64
	nodeType NodeType
	keys     [][]byte // keys in the node (sorted keys)
	children []int64  // only for internal node
	values   [][]byte // leaf nodes
	next     int64    // only for leaf node
	parent   int64

	isDirty bool
}

type BPlusTree struct {
	fileID      uint32                   // DiskManager file ID for this index
	root        int64                    // global page ID of the root node
	keyLen      int                      // widest key the tree accepts
	maxKeys     int                      // node order derived from keyLen
	header      []byte                   // caller payload kept on the metadata page
	bufferPool  *bufferpool.BufferPool   // shared buffer pool
	diskManager *diskmanager.DiskManager // shared disk manager
	cmp         func(a, b []byte) int    // key comparator (bytes.Compare unless set)
	mu          sync.RWMutex             // protects tree structure during splits
}
