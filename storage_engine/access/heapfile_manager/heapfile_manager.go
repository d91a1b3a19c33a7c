package heapfile

import (
	"CatalogDB/logging"
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/types"
	"encoding/binary"
	"errors"
	"fmt"
)

/*
This file is the start of the heapfile manager.
It creates record files (page 0 = record length), opens them into HeapFile
handles and closes or destroys them.

Chain of command for a new data page:
 1. BufferPool.NewPage    → allocates a page ID (RAM only, dirty)
 2. InitHeapPage          → writes header fields into the in-RAM buffer
 3. BufferPool.UnpinPage  → caller is done; pool may flush when it needs space
 4. (later) flush         → DiskManager.WritePage → bytes hit disk
*/

var (
	ErrFileExists  = errors.New("heap file already exists")
	ErrFileOpen    = errors.New("heap file is open")
	ErrBadRecord   = errors.New("record length does not match file")
	ErrNoSuchSlot  = errors.New("no record at row pointer")
	ErrFileClosed  = errors.New("heap file is closed")
)

// recordMetaSize is the header payload of page 0: the record length.
const recordMetaSize = 4

// NewHeapFileManager creates a new heap file manager
func NewHeapFileManager(diskManager *diskmanager.DiskManager, bufferPool *bufferpool.BufferPool) *HeapFileManager {
	return &HeapFileManager{
		files:       make(map[string]*HeapFile),
		diskManager: diskManager,
		bufferPool:  bufferPool,
	}
}

// FileName returns the on-disk name of a table's record file.
func FileName(table string) string {
	return table + FileExt
}

// FileExists reports whether the record file of table exists.
func (hfm *HeapFileManager) FileExists(table string) bool {
	return hfm.diskManager.FileExists(FileName(table))
}

// CreateFile creates the record file for table with the given record length.
// The file is left closed.
func (hfm *HeapFileManager) CreateFile(table string, recordLen int) error {
	if recordLen <= 0 || recordLen > types.MaxRecordLen {
		return fmt.Errorf("record length %d out of range 1..%d", recordLen, types.MaxRecordLen)
	}
	path := FileName(table)
	if hfm.diskManager.FileExists(path) {
		return fmt.Errorf("%s: %w", path, ErrFileExists)
	}
	if err := hfm.diskManager.CreateFile(path); err != nil {
		return err
	}

	fileID, err := hfm.diskManager.OpenFile(path)
	if err != nil {
		_ = hfm.diskManager.DestroyFile(path)
		return err
	}
	meta := make([]byte, recordMetaSize)
	binary.LittleEndian.PutUint32(meta, uint32(recordLen))
	werr := hfm.diskManager.WriteMetadata(fileID, meta)
	cerr := hfm.diskManager.CloseFile(fileID)
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = hfm.diskManager.DestroyFile(path)
		return fmt.Errorf("failed to initialise %s: %w", path, werr)
	}

	logging.GetLogger().Debug("heap file created", "file", path, "record_len", recordLen)
	return nil
}

// OpenFile opens the record file of table.
func (hfm *HeapFileManager) OpenFile(table string) (*HeapFile, error) {
	hfm.mu.Lock()
	defer hfm.mu.Unlock()

	if hf, ok := hfm.files[table]; ok {
		return hf, nil
	}

	path := FileName(table)
	fileID, err := hfm.diskManager.OpenFile(path)
	if err != nil {
		return nil, err
	}
	meta, err := hfm.diskManager.ReadMetadata(fileID)
	if err != nil {
		_ = hfm.diskManager.CloseFile(fileID)
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	recordLen := int(binary.LittleEndian.Uint32(meta))
	if recordLen <= 0 || recordLen > types.MaxRecordLen {
		_ = hfm.diskManager.CloseFile(fileID)
		return nil, fmt.Errorf("%s: corrupt record length %d", path, recordLen)
	}

	hf := &HeapFile{
		fileID:      fileID,
		name:        table,
		recordLen:   recordLen,
		freeHint:    1,
		diskManager: hfm.diskManager,
		bufferPool:  hfm.bufferPool,
	}
	hfm.files[table] = hf
	return hf, nil
}

// CloseFile writes the file's dirty pages, drops its frames and closes it.
func (hfm *HeapFileManager) CloseFile(hf *HeapFile) error {
	hfm.mu.Lock()
	defer hfm.mu.Unlock()

	hf.mu.Lock()
	defer hf.mu.Unlock()

	if hf.fileID == 0 {
		return ErrFileClosed
	}
	delete(hfm.files, hf.name)

	fileID := hf.fileID
	hf.fileID = 0
	if err := hfm.bufferPool.FlushFile(fileID); err != nil {
		_ = hfm.diskManager.CloseFile(fileID)
		return err
	}
	if err := hfm.bufferPool.DiscardFile(fileID); err != nil {
		_ = hfm.diskManager.CloseFile(fileID)
		return err
	}
	return hfm.diskManager.CloseFile(fileID)
}

// DestroyFile removes the record file of a closed table.
func (hfm *HeapFileManager) DestroyFile(table string) error {
	hfm.mu.RLock()
	_, open := hfm.files[table]
	hfm.mu.RUnlock()
	if open {
		return fmt.Errorf("%s: %w", table, ErrFileOpen)
	}
	return hfm.diskManager.DestroyFile(FileName(table))
}

// OpenFiles returns the number of open record files.
func (hfm *HeapFileManager) OpenFiles() int {
	hfm.mu.RLock()
	defer hfm.mu.RUnlock()
	return len(hfm.files)
}
