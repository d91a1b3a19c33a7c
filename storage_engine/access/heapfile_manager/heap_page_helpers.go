package heapfile

import (
	page "CatalogDB/storage_engine/page"
	"encoding/binary"
)

// slotted is a view over the header and slot directory of a heap data page.
// It does no locking; callers hold the page latch.
type slotted []byte

func view(pg *page.Page) slotted { return slotted(pg.Data) }

func (s slotted) u16(off int) uint16 { return binary.LittleEndian.Uint16(s[off:]) }

func (s slotted) put16(off int, v uint16) { binary.LittleEndian.PutUint16(s[off:], v) }

// bump adds delta to the uint16 counter at off.
func (s slotted) bump(off int, delta int) {
	s.put16(off, uint16(int(s.u16(off))+delta))
}

func (s slotted) slotCount() uint16 { return s.u16(heapOffSlotCount) }

func (s slotted) tombstones() uint16 { return s.u16(heapOffNumRowsFree) }

func (s slotted) setFull(full bool) {
	var v uint16
	if full {
		v = 1
	}
	s.put16(heapOffIsPageFull, v)
}

// freeSpace is the gap between the record area and the slot directory, less
// the slot entry a new record would need.
func (s slotted) freeSpace() int {
	return max(0, int(s.u16(heapOffSlotRegionStart))-int(s.u16(heapOffRecordEndPtr))-SlotSize)
}

// Slot i sits at PageSize-(i+1)*SlotSize, growing down from the page end.
func (s slotted) slot(i uint16) (offset, length uint16) {
	base := page.PageSize - (int(i)+1)*SlotSize
	return s.u16(base), s.u16(base + 2)
}

func (s slotted) setSlot(i uint16, offset, length uint16) {
	base := page.PageSize - (int(i)+1)*SlotSize
	s.put16(base, offset)
	s.put16(base+2, length)
}

func (s slotted) live(i uint16) bool {
	if i >= s.slotCount() {
		return false
	}
	_, length := s.slot(i)
	return length != 0
}

// SlotCount is the number of slot entries on pg, live or tombstoned.
func SlotCount(pg *page.Page) uint16 { return view(pg).slotCount() }

// IsSlotLive reports whether slot i of pg holds a record.
func IsSlotLive(pg *page.Page, i uint16) bool { return view(pg).live(i) }

// FreeSpace returns the bytes available for a new record on pg.
func FreeSpace(pg *page.Page) int { return view(pg).freeSpace() }
