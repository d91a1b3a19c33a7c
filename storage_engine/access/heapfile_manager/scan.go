package heapfile

import (
	"CatalogDB/types"
)

// NewScan returns a scan positioned on the first live record. The page count
// is fixed when the scan starts or is Reset.
func (hf *HeapFile) NewScan() (*Scan, error) {
	s := &Scan{hf: hf}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset repositions the scan on the first live record.
func (s *Scan) Reset() error {
	n, err := s.hf.NumPages()
	if err != nil {
		return err
	}
	s.numPages = n
	s.pageNo = 1
	s.slot = -1
	s.end = false
	return s.advance()
}

func (s *Scan) IsEnd() bool { return s.end }

// RowPointer returns the current record's pointer. Only valid while !IsEnd().
func (s *Scan) RowPointer() types.RowPointer {
	return types.RowPointer{PageNumber: uint32(s.pageNo), SlotIndex: uint16(s.slot)}
}

// Next moves to the following live record.
func (s *Scan) Next() error {
	if s.end {
		return nil
	}
	return s.advance()
}

// Record reads the current record.
func (s *Scan) Record() ([]byte, error) {
	return s.hf.GetRecord(s.RowPointer())
}

func (s *Scan) advance() error {
	hf := s.hf
	hf.mu.RLock()
	defer hf.mu.RUnlock()

	for ; s.pageNo < s.numPages; s.pageNo, s.slot = s.pageNo+1, -1 {
		pg, err := hf.bufferPool.FetchPage(hf.pageID(uint32(s.pageNo)))
		if err != nil {
			return err
		}
		pg.RLock()
		found := false
		if pg.PageType == types.PageTypeHeapData {
			count := int(SlotCount(pg))
			for i := s.slot + 1; i < count; i++ {
				if IsSlotLive(pg, uint16(i)) {
					s.slot = i
					found = true
					break
				}
			}
		}
		pg.RUnlock()
		hf.bufferPool.UnpinPage(pg.ID, false)
		if found {
			return nil
		}
	}
	s.end = true
	return nil
}
