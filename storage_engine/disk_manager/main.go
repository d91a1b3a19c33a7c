package diskmanager

import (
	"CatalogDB/storage_engine/page"
	"CatalogDB/types"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

/*
This is main file for disk manager
It owns:
File handles (afero.File)
Reading/writing raw bytes at specific offsets (ReadAt, WriteAt)
Page allocation (tracking NextPageID per file)
The plain file primitives used by the catalog (exists, create, destroy, directories)

Page ID encoding:
globalPageID = int64(fileID) << 32 | localPageNum
The owning file is recovered from the upper 32 bits, so no lookup table is needed.

File IDs are handed out per session by OpenFile and are never reused, so a
frame left behind in the buffer pool for a closed file can never alias a page
of a file opened later.
*/

// ErrFileNotOpen is returned for page I/O on a file id that is not open.
var ErrFileNotOpen = errors.New("file not open")

func NewDiskManager(fs afero.Fs) *DiskManager {
	return &DiskManager{
		fs:         fs,
		files:      make(map[uint32]*FileDescriptor),
		byPath:     make(map[string]uint32),
		nextFileID: 1,
	}
}

func NewPage(pageID int64, fileID uint32, pageType types.PageType) *page.Page {
	return &page.Page{
		ID:       pageID,
		FileID:   fileID,
		Data:     make([]byte, page.PageSize),
		IsDirty:  false,
		PinCount: 0,
		PageType: pageType,
	}
}

// Fs exposes the scoped file system, used by callers that need raw access.
func (dm *DiskManager) Fs() afero.Fs {
	return dm.fs
}

// ─────────────────────────────────────────────────────────────────────────────
// File primitives
// ─────────────────────────────────────────────────────────────────────────────

// FileExists reports whether a regular file exists at path.
func (dm *DiskManager) FileExists(path string) bool {
	info, err := dm.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDir reports whether path is a directory.
func (dm *DiskManager) IsDir(path string) bool {
	ok, err := afero.IsDir(dm.fs, path)
	return err == nil && ok
}

// CreateFile creates an empty file. It fails if the file already exists.
func (dm *DiskManager) CreateFile(path string) error {
	f, err := dm.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync file %s: %w", path, err)
	}
	return f.Close()
}

// CreateDir creates a directory and any missing parents.
func (dm *DiskManager) CreateDir(path string) error {
	if err := dm.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemoveAll removes a directory tree. No file under it may be open.
func (dm *DiskManager) RemoveAll(path string) error {
	if err := dm.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ListDirs returns the names of the directories directly under path.
func (dm *DiskManager) ListDirs(path string) ([]string, error) {
	entries, err := afero.ReadDir(dm.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// FileSize returns the size in bytes of a file.
func (dm *DiskManager) FileSize(path string) (int64, error) {
	info, err := dm.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// DestroyFile removes a file from disk. Open files cannot be destroyed.
func (dm *DiskManager) DestroyFile(path string) error {
	dm.mu.RLock()
	_, open := dm.byPath[path]
	dm.mu.RUnlock()
	if open {
		return fmt.Errorf("cannot destroy open file %s", path)
	}
	if err := dm.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Open / close
// ─────────────────────────────────────────────────────────────────────────────

// OpenFile opens an existing file and returns its session file ID.
// Opening an already open path returns the same ID.
func (dm *DiskManager) OpenFile(path string) (uint32, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if id, ok := dm.byPath[path]; ok {
		return id, nil
	}

	file, err := dm.fs.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	fileID := dm.nextFileID
	dm.nextFileID++

	dm.files[fileID] = &FileDescriptor{
		FileID:     fileID,
		FilePath:   path,
		File:       file,
		NextPageID: stat.Size() / int64(page.PageSize),
	}
	dm.byPath[path] = fileID

	return fileID, nil
}

// CloseFile syncs and closes a specific file
func (dm *DiskManager) CloseFile(fileID uint32) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	fd, exists := dm.files[fileID]
	if !exists {
		return fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()

	delete(dm.files, fileID)
	delete(dm.byPath, fd.FilePath)

	if fd.File == nil {
		return nil
	}
	syncErr := fd.File.Sync()
	closeErr := fd.File.Close()
	fd.File = nil
	if syncErr != nil {
		return fmt.Errorf("failed to sync before close: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	return nil
}

// CloseAll closes all open files
func (dm *DiskManager) CloseAll() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var lastErr error
	for fileID, fd := range dm.files {
		fd.mu.Lock()
		if fd.File != nil {
			if err := fd.File.Sync(); err != nil {
				lastErr = err
			}
			if err := fd.File.Close(); err != nil {
				lastErr = err
			}
			fd.File = nil
		}
		fd.mu.Unlock()
		delete(dm.files, fileID)
		delete(dm.byPath, fd.FilePath)
	}

	return lastErr
}

// OpenFileCount returns how many files are currently open.
func (dm *DiskManager) OpenFileCount() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.files)
}

// ─────────────────────────────────────────────────────────────────────────────
// Page I/O
// ─────────────────────────────────────────────────────────────────────────────

func (dm *DiskManager) descriptor(fileID uint32) (*FileDescriptor, error) {
	dm.mu.RLock()
	fd, exists := dm.files[fileID]
	dm.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}
	return fd, nil
}

// ReadPage reads a page from disk
func (dm *DiskManager) ReadPage(globalPageID int64) (*page.Page, error) {
	fileID := FileIDOf(globalPageID)
	fd, err := dm.descriptor(fileID)
	if err != nil {
		return nil, err
	}

	fd.mu.RLock()
	defer fd.mu.RUnlock()

	if fd.File == nil {
		return nil, fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}

	localPageID := LocalPageOf(globalPageID)
	if localPageID >= fd.NextPageID {
		return nil, fmt.Errorf("page %d beyond end of file %d (%d pages)", localPageID, fileID, fd.NextPageID)
	}

	pg := NewPage(globalPageID, fileID, types.PageTypeUnknown)
	// An allocated page that was never flushed reads short; the rest stays zero.
	if _, err := fd.File.ReadAt(pg.Data, localPageID*int64(page.PageSize)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read page %d from file %d: %w", localPageID, fileID, err)
	}

	pg.PageType = types.PageType(pg.Data[page.TypeOffset])
	return pg, nil
}

// WritePage writes a page to disk
func (dm *DiskManager) WritePage(pg *page.Page) error {
	fd, err := dm.descriptor(pg.FileID)
	if err != nil {
		return err
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()

	if fd.File == nil {
		return fmt.Errorf("file %d: %w", pg.FileID, ErrFileNotOpen)
	}

	if len(pg.Data) != page.PageSize {
		return fmt.Errorf("page data size %d does not match page size %d", len(pg.Data), page.PageSize)
	}

	pg.Data[page.TypeOffset] = byte(pg.PageType)

	localPageID := LocalPageOf(pg.ID)
	if _, err := fd.File.WriteAt(pg.Data, localPageID*int64(page.PageSize)); err != nil {
		return fmt.Errorf("failed to write page %d to file %d: %w", localPageID, pg.FileID, err)
	}

	if localPageID >= fd.NextPageID {
		fd.NextPageID = localPageID + 1
	}

	pg.IsDirty = false
	return nil
}

// AllocatePage reserves the next available page ID for a file. Nothing is
// written; the buffer pool writes the page when it flushes the frame.
func (dm *DiskManager) AllocatePage(fileID uint32) (int64, error) {
	fd, err := dm.descriptor(fileID)
	if err != nil {
		return 0, err
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()

	if fd.File == nil {
		return 0, fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}

	localPageNum := fd.NextPageID
	fd.NextPageID++

	return GlobalPageID(fileID, localPageNum), nil
}

// NumPages returns the number of allocated pages of an open file.
func (dm *DiskManager) NumPages(fileID uint32) (int64, error) {
	fd, err := dm.descriptor(fileID)
	if err != nil {
		return 0, err
	}
	fd.mu.RLock()
	defer fd.mu.RUnlock()
	return fd.NextPageID, nil
}

func GlobalPageID(fileID uint32, localPageNum int64) int64 {
	return int64(fileID)<<32 | localPageNum
}

func FileIDOf(globalPageID int64) uint32 {
	return uint32(globalPageID >> 32)
}

func LocalPageOf(globalPageID int64) int64 {
	return globalPageID & 0xFFFFFFFF
}

// Sync flushes all file buffers to disk
func (dm *DiskManager) Sync() error {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, fd := range dm.files {
		fd.mu.Lock()
		if fd.File != nil {
			if err := fd.File.Sync(); err != nil {
				fd.mu.Unlock()
				return fmt.Errorf("failed to sync file %d: %w", fd.FileID, err)
			}
		}
		fd.mu.Unlock()
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Metadata page
// ─────────────────────────────────────────────────────────────────────────────

// metadataOffset is where the caller's bytes start inside page 0; the bytes
// before it hold the reserved LSN slot and the page type stamp.
const metadataOffset = page.TypeOffset + 1

// MaxMetadataLen is the largest payload WriteMetadata accepts.
const MaxMetadataLen = page.PageSize - metadataOffset

// WriteMetadata writes metadata to page 0 of a file, bypassing the buffer
// pool. Page 0 is reserved by the file's creator for this purpose.
func (dm *DiskManager) WriteMetadata(fileID uint32, metadata []byte) error {
	if len(metadata) > MaxMetadataLen {
		return fmt.Errorf("metadata too large: %d bytes (max %d)", len(metadata), MaxMetadataLen)
	}
	fd, err := dm.descriptor(fileID)
	if err != nil {
		return err
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()

	if fd.File == nil {
		return fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}

	metaPage := make([]byte, page.PageSize)
	metaPage[page.TypeOffset] = byte(types.PageTypeMetadata)
	copy(metaPage[metadataOffset:], metadata)

	if _, err := fd.File.WriteAt(metaPage, 0); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if fd.NextPageID == 0 {
		fd.NextPageID = 1
	}
	return nil
}

// ReadMetadata reads metadata from page 0 of a file
func (dm *DiskManager) ReadMetadata(fileID uint32) ([]byte, error) {
	fd, err := dm.descriptor(fileID)
	if err != nil {
		return nil, err
	}

	fd.mu.RLock()
	defer fd.mu.RUnlock()

	if fd.File == nil {
		return nil, fmt.Errorf("file %d: %w", fileID, ErrFileNotOpen)
	}

	metaPage := make([]byte, page.PageSize)
	if _, err := fd.File.ReadAt(metaPage, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	if types.PageType(metaPage[page.TypeOffset]) != types.PageTypeMetadata {
		return nil, fmt.Errorf("file %d has no metadata page", fileID)
	}

	return metaPage[metadataOffset:], nil
}
