package types

const (
	PageSize           = 4096 // 4KB page
	HeapPageHeaderSize = 29   // see heapfile_manager/heap_page.go
	SlotSize           = 4    // 4 bytes per slot entry (offset: 2B, length: 2B)
)

type PageType uint8

const (
	PageTypeUnknown PageType = iota
	PageTypeHeapData
	PageTypeBPlusNode
	PageTypeMetadata
)

// MaxRecordLen is the largest fixed-length row a heap page can hold.
const MaxRecordLen = PageSize - HeapPageHeaderSize - SlotSize - 1
