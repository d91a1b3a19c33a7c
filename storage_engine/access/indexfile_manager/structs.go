package indexfile

import (
	bplus "CatalogDB/storage_engine/access/indexfile_manager/bplustree"
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/types"
	"sync"
)

// FileExt is appended to the index name to form the index file name.
const FileExt = ".idx"

// KeyColumn describes one column of an index key, in key order.
type KeyColumn struct {
	Name string
	Type types.ColumnType
	Len  int
}

// IndexHandle is an open index: a B+ tree mapping a composite key to the
// row pointer of the record it was built from.
type IndexHandle struct {
	name    string
	table   string
	columns []KeyColumn
	keyLen  int
	fileID  uint32
	tree    *bplus.BPlusTree
}

// Entry is one (key, row pointer) pair of an index.
type Entry struct {
	Key []byte
	RID types.RowPointer
}

type IndexFileManager struct {
	indexes     map[string]*IndexHandle  // index name → open handle
	bufferPool  *bufferpool.BufferPool   // shared with heap files
	diskManager *diskmanager.DiskManager // shared with heap files
	mu          sync.RWMutex
}
