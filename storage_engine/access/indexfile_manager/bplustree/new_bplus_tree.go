package bplus

import (
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/storage_engine/page"
	"bytes"
	"encoding/binary"
	"fmt"
)

/*
Page 0 of an index file is its metadata page, written through
DiskManager.WriteMetadata:

	localRoot  int64   (8 bytes)
	keyLen     uint16  (2 bytes)
	headerLen  uint16  (2 bytes)
	header     []byte  caller payload (the index manager keeps the key layout here)

The root leaf is allocated at page 1 when the tree is created.
*/

const treeMetaSize = 12

// nodeHeaderSize is the fixed part of a serialized node, see node_to_index_page.go.
const nodeHeaderSize = 34

// orderFor returns how many keys a node may hold so that both leaf and
// internal nodes fit a page when every key is keyLen bytes long.
func orderFor(keyLen int) int {
	per := keyLen + 2 + max(8, MaxValLen+2)
	n := (page.PageSize - nodeHeaderSize - 8) / per
	return min(n, MaxKeys)
}

// Create initialises a B+ tree in the open, empty file fileID.
func Create(fileID uint32, keyLen int, header []byte, bufferPool *bufferpool.BufferPool, diskManager *diskmanager.DiskManager) (*BPlusTree, error) {
	if keyLen <= 0 || keyLen > MaxKeyLen {
		return nil, fmt.Errorf("Create: key length %d out of range 1..%d", keyLen, MaxKeyLen)
	}
	if treeMetaSize+len(header) > diskmanager.MaxMetadataLen {
		return nil, fmt.Errorf("Create: header too large (%d bytes)", len(header))
	}

	t := &BPlusTree{
		fileID:      fileID,
		root:        -1,
		keyLen:      keyLen,
		maxKeys:     orderFor(keyLen),
		header:      append([]byte(nil), header...),
		bufferPool:  bufferPool,
		diskManager: diskManager,
		cmp:         bytes.Compare,
	}

	// Reserve page 0 before the root claims a page number.
	if err := t.saveRoot(); err != nil {
		return nil, err
	}

	root, err := t.newNode(NodeLeaf)
	if err != nil {
		return nil, err
	}
	t.root = root.pageID
	t.releaseNode(root, true)

	if err := t.saveRoot(); err != nil {
		return nil, err
	}
	return t, nil
}

// Open loads the tree stored in the open file fileID.
func Open(fileID uint32, bufferPool *bufferpool.BufferPool, diskManager *diskmanager.DiskManager) (*BPlusTree, error) {
	meta, err := diskManager.ReadMetadata(fileID)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	localRoot := int64(binary.LittleEndian.Uint64(meta[0:8]))
	keyLen := int(binary.LittleEndian.Uint16(meta[8:10]))
	headerLen := int(binary.LittleEndian.Uint16(meta[10:12]))
	if keyLen <= 0 || keyLen > MaxKeyLen || treeMetaSize+headerLen > len(meta) || localRoot <= 0 {
		return nil, fmt.Errorf("Open: corrupt metadata page in file %d", fileID)
	}

	return &BPlusTree{
		fileID:      fileID,
		root:        diskmanager.GlobalPageID(fileID, localRoot),
		keyLen:      keyLen,
		maxKeys:     orderFor(keyLen),
		header:      append([]byte(nil), meta[treeMetaSize:treeMetaSize+headerLen]...),
		bufferPool:  bufferPool,
		diskManager: diskManager,
		cmp:         bytes.Compare,
	}, nil
}

// SetComparator replaces the key comparator. Call before the first operation.
func (t *BPlusTree) SetComparator(cmp func(a, b []byte) int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cmp = cmp
}

func (t *BPlusTree) Header() []byte { return t.header }
func (t *BPlusTree) KeyLen() int { return t.keyLen }
func (t *BPlusTree) FileID() uint32 { return t.fileID }

// saveRoot persists the current root page ID to the file's metadata page.
// Called after every operation that changes the root.
func (t *BPlusTree) saveRoot() error {
	meta := make([]byte, treeMetaSize+len(t.header))
	localRoot := int64(0)
	if t.root >= 0 {
		localRoot = diskmanager.LocalPageOf(t.root)
	}
	binary.LittleEndian.PutUint64(meta[0:8], uint64(localRoot))
	binary.LittleEndian.PutUint16(meta[8:10], uint16(t.keyLen))
	binary.LittleEndian.PutUint16(meta[10:12], uint16(len(t.header)))
	copy(meta[treeMetaSize:], t.header)

	if err := t.diskManager.WriteMetadata(t.fileID, meta); err != nil {
		return fmt.Errorf("saveRoot: failed to persist root ID: %w", err)
	}
	return nil
}
