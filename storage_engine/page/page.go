package page

import (
	"CatalogDB/types"
	"sync"
)

const PageSize = types.PageSize

/*
A Page is one 4KB frame as held by the buffer pool.
Heap pages and B+ tree node pages share this struct; only the byte layout of
Data differs:
	heap page:  storage_engine/access/heapfile_manager/heap_page.go
	index page: storage_engine/access/indexfile_manager/bplustree/node_to_index_page.go

Byte 8 of every page is the page type stamp written by the disk manager.
*/

type Page struct {
	ID       int64 // global page id: fileID<<32 | local page number
	FileID   uint32
	Data     []byte
	IsDirty  bool
	PinCount int32
	PageType types.PageType
	mu       sync.RWMutex
}

// TypeOffset is the byte of Data holding the page type.
const TypeOffset = 8

func (p *Page) Lock() {
	p.mu.Lock()
}

func (p *Page) Unlock() {
	p.mu.Unlock()
}

func (p *Page) RLock() {
	p.mu.RLock()
}

func (p *Page) RUnlock() {
	p.mu.RUnlock()
}
