package heapfile

import (
	page "CatalogDB/storage_engine/page"
	"encoding/binary"
	"fmt"
)

/*
Standalone functions operating on *page.Page for heap data pages.

Heap page binary layout (all values little-endian):

	Offset  Size  Field
	──────────────────────────────────────────────────────
	0       8     reserved (kept zero, shared with index pages)
	8       1     PageType        uint8   stamped by DiskManager on write
	9       4     FileID          uint32  session file id at initialisation
	13      4     PageNo          uint32  local page number
	17      2     RecordEndPtr    uint16  first free byte after last record
	19      2     SlotRegionStart uint16  first byte of slot directory
	21      2     NumRows         uint16  live records
	23      2     NumRowsFree     uint16  tombstone slots
	25      2     IsPageFull      uint16  1 when no usable space remains
	27      2     SlotCount       uint16  total slot entries (live + tombstone)
	──────────────────────────────────────────────────────
	29            HeapHeaderSize

	[ header 29B ][ records → ][ free space ][ ← slot dir ]
	0            29            ^             ^             4096
	                           RecordEndPtr  SlotRegionStart

A slot entry is 4 bytes: [ Offset uint16 ][ Length uint16 ]. Slot i lives at
PageSize - (i+1)*SlotSize.

Every record of a heap file has the same length, so a tombstone keeps its
offset (Length = 0) and the next insert reuses both the slot and its bytes.
*/
const (
	heapOffPageType        = 8
	heapOffFileID          = 9
	heapOffPageNo          = 13
	heapOffRecordEndPtr    = 17
	heapOffSlotRegionStart = 19
	heapOffNumRows         = 21
	heapOffNumRowsFree     = 23
	heapOffIsPageFull      = 25
	heapOffSlotCount       = 27

	HeapHeaderSize = 29

	// SlotSize is the byte size of one slot entry: Offset(2) + Length(2).
	SlotSize = 4
)

// InitHeapPage stamps a fresh heap-page header into pg.Data. The page type
// byte belongs to the disk manager and is left alone.
func InitHeapPage(pg *page.Page, pageNo uint32) {
	stamp := pg.Data[heapOffPageType]
	clear(pg.Data)
	pg.Data[heapOffPageType] = stamp

	binary.LittleEndian.PutUint32(pg.Data[heapOffFileID:], pg.FileID)
	binary.LittleEndian.PutUint32(pg.Data[heapOffPageNo:], pageNo)
	s := view(pg)
	s.put16(heapOffRecordEndPtr, HeapHeaderSize)
	s.put16(heapOffSlotRegionStart, page.PageSize)

	pg.IsDirty = true
}

// InsertRecord stores data on pg and returns its slot. A tombstone is reused
// first, record bytes included, since every record of a file has one length.
// Without a tombstone or room for a new slot it fails and the caller moves on
// to another page.
func InsertRecord(pg *page.Page, data []byte) (uint16, error) {
	n := uint16(len(data))
	if n == 0 {
		return 0, fmt.Errorf("InsertRecord: empty record")
	}
	s := view(pg)

	if s.tombstones() > 0 {
		for i := uint16(0); i < s.slotCount(); i++ {
			off, length := s.slot(i)
			if length != 0 || off == 0 {
				continue
			}
			copy(pg.Data[off:], data)
			s.setSlot(i, off, n)
			s.bump(heapOffNumRowsFree, -1)
			s.bump(heapOffNumRows, 1)
			pg.IsDirty = true
			return i, nil
		}
	}

	if s.freeSpace() < int(n) {
		s.setFull(true)
		return 0, fmt.Errorf("InsertRecord: need %d bytes, only %d available", n, s.freeSpace())
	}

	slot := s.slotCount()
	off := s.u16(heapOffRecordEndPtr)
	copy(pg.Data[off:], data)
	s.put16(heapOffRecordEndPtr, off+n)
	s.bump(heapOffSlotRegionStart, -SlotSize)
	s.bump(heapOffSlotCount, 1)
	s.setSlot(slot, off, n)
	s.bump(heapOffNumRows, 1)
	s.setFull(s.freeSpace() < int(n))

	pg.IsDirty = true
	return slot, nil
}

// GetRecord returns a copy of the record in slot i.
func GetRecord(pg *page.Page, i uint16) ([]byte, error) {
	s := view(pg)
	if i >= s.slotCount() {
		return nil, fmt.Errorf("GetRecord: slot %d out of range (count=%d)", i, s.slotCount())
	}
	off, length := s.slot(i)
	if length == 0 {
		return nil, fmt.Errorf("GetRecord: slot %d is a tombstone", i)
	}
	return append([]byte(nil), pg.Data[off:off+length]...), nil
}

// DeleteRecord turns slot i into a tombstone that keeps its offset.
func DeleteRecord(pg *page.Page, i uint16) error {
	s := view(pg)
	if i >= s.slotCount() {
		return fmt.Errorf("DeleteRecord: slot %d out of range (count=%d)", i, s.slotCount())
	}
	off, length := s.slot(i)
	if length == 0 {
		return fmt.Errorf("DeleteRecord: slot %d already deleted", i)
	}
	s.setSlot(i, off, 0)
	s.bump(heapOffNumRows, -1)
	s.bump(heapOffNumRowsFree, 1)
	s.setFull(false)
	pg.IsDirty = true
	return nil
}

// HasRoom reports whether a record of recordLen bytes fits on the page.
func HasRoom(pg *page.Page, recordLen int) bool {
	s := view(pg)
	return s.tombstones() > 0 || s.freeSpace() >= recordLen
}
