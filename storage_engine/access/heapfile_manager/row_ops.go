package heapfile

import (
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/storage_engine/page"
	"CatalogDB/types"
	"fmt"
)

func (hf *HeapFile) Name() string { return hf.name }
func (hf *HeapFile) RecordLen() int { return hf.recordLen }
func (hf *HeapFile) FileID() uint32 { return hf.fileID }

func (hf *HeapFile) pageID(pageNo uint32) int64 {
	return diskmanager.GlobalPageID(hf.fileID, int64(pageNo))
}

// InsertRecord stores one record and returns its row pointer.
func (hf *HeapFile) InsertRecord(data []byte) (types.RowPointer, error) {
	hf.mu.Lock()
	defer hf.mu.Unlock()

	if hf.fileID == 0 {
		return types.RowPointer{}, ErrFileClosed
	}
	if len(data) != hf.recordLen {
		return types.RowPointer{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadRecord, len(data), hf.recordLen)
	}

	pg, pageNo, err := hf.findSuitablePage()
	if err != nil {
		return types.RowPointer{}, fmt.Errorf("failed to find suitable page: %w", err)
	}

	pg.Lock()
	slotIdx, err := InsertRecord(pg, data)
	pg.Unlock()
	if err != nil {
		hf.bufferPool.UnpinPage(pg.ID, false)
		return types.RowPointer{}, fmt.Errorf("failed to insert record into page: %w", err)
	}
	if err := hf.bufferPool.UnpinPage(pg.ID, true); err != nil {
		return types.RowPointer{}, err
	}

	return types.RowPointer{PageNumber: pageNo, SlotIndex: slotIdx}, nil
}

// GetRecord returns a copy of the record at rid.
func (hf *HeapFile) GetRecord(rid types.RowPointer) ([]byte, error) {
	hf.mu.RLock()
	defer hf.mu.RUnlock()

	pg, err := hf.fetchDataPage(rid.PageNumber)
	if err != nil {
		return nil, err
	}
	defer hf.bufferPool.UnpinPage(pg.ID, false)

	pg.RLock()
	defer pg.RUnlock()

	if !IsSlotLive(pg, rid.SlotIndex) {
		return nil, fmt.Errorf("%s: %w", rid, ErrNoSuchSlot)
	}
	return GetRecord(pg, rid.SlotIndex)
}

// DeleteRecord tombstones the record at rid.
func (hf *HeapFile) DeleteRecord(rid types.RowPointer) error {
	hf.mu.Lock()
	defer hf.mu.Unlock()

	pg, err := hf.fetchDataPage(rid.PageNumber)
	if err != nil {
		return err
	}

	pg.Lock()
	if !IsSlotLive(pg, rid.SlotIndex) {
		pg.Unlock()
		hf.bufferPool.UnpinPage(pg.ID, false)
		return fmt.Errorf("%s: %w", rid, ErrNoSuchSlot)
	}
	err = DeleteRecord(pg, rid.SlotIndex)
	pg.Unlock()
	if uerr := hf.bufferPool.UnpinPage(pg.ID, err == nil); err == nil {
		err = uerr
	}
	if err == nil && int64(rid.PageNumber) < hf.freeHint {
		hf.freeHint = int64(rid.PageNumber)
	}
	return err
}

// NumPages returns the number of pages including the header page.
func (hf *HeapFile) NumPages() (int64, error) {
	return hf.diskManager.NumPages(hf.fileID)
}

// fetchDataPage pins data page pageNo. Caller must unpin.
func (hf *HeapFile) fetchDataPage(pageNo uint32) (*page.Page, error) {
	if hf.fileID == 0 {
		return nil, ErrFileClosed
	}
	if pageNo == 0 {
		return nil, fmt.Errorf("page 0 holds the file header: %w", ErrNoSuchSlot)
	}
	pg, err := hf.bufferPool.FetchPage(hf.pageID(pageNo))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", pageNo, err)
	}
	if pg.PageType != types.PageTypeHeapData {
		hf.bufferPool.UnpinPage(pg.ID, false)
		return nil, fmt.Errorf("page %d is not a heap page: %w", pageNo, ErrNoSuchSlot)
	}
	return pg, nil
}

// findSuitablePage returns a pinned data page with room for one record,
// allocating a new page when every existing one is full.
func (hf *HeapFile) findSuitablePage() (*page.Page, uint32, error) {
	totalPages, err := hf.diskManager.NumPages(hf.fileID)
	if err != nil {
		return nil, 0, err
	}

	for pageNo := hf.freeHint; pageNo < totalPages; pageNo++ {
		pg, err := hf.bufferPool.FetchPage(hf.pageID(uint32(pageNo)))
		if err != nil {
			return nil, 0, err
		}
		pg.RLock()
		room := pg.PageType == types.PageTypeHeapData && HasRoom(pg, hf.recordLen)
		pg.RUnlock()
		if room {
			hf.freeHint = pageNo
			return pg, uint32(pageNo), nil
		}
		hf.bufferPool.UnpinPage(pg.ID, false)
	}

	pg, err := hf.bufferPool.NewPage(hf.fileID, types.PageTypeHeapData)
	if err != nil {
		return nil, 0, err
	}
	pageNo := uint32(diskmanager.LocalPageOf(pg.ID))
	InitHeapPage(pg, pageNo)
	hf.freeHint = int64(pageNo)

	return pg, pageNo, nil
}
