package heapfile

import (
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"sync"
)

// FileExt is appended to the table name to form the record file name.
const FileExt = ".heap"

// HeapFile is an open record file. Records are fixed length; page 0 holds the
// record length and data pages start at page 1.
type HeapFile struct {
	fileID      uint32
	name        string
	recordLen   int
	freeHint    int64 // lowest data page that may have room
	diskManager *diskmanager.DiskManager
	bufferPool  *bufferpool.BufferPool
	mu          sync.RWMutex
}

// HeapFileManager creates, opens, closes and destroys record files of one
// database directory.
type HeapFileManager struct {
	files       map[string]*HeapFile // table name -> open file
	bufferPool  *bufferpool.BufferPool
	diskManager *diskmanager.DiskManager
	mu          sync.RWMutex
}

// Scan walks the live records of a heap file in (page, slot) order.
type Scan struct {
	hf       *HeapFile
	numPages int64
	pageNo   int64
	slot     int
	end      bool
}
