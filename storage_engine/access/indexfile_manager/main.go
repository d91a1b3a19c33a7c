package indexfile

import (
	"CatalogDB/logging"
	bplus "CatalogDB/storage_engine/access/indexfile_manager/bplustree"
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/types"
	"errors"
	"fmt"
	"strings"
)

/*
This file is the main file for Index File Manager that deals with the Index pages
Similar to HeapFileManager this also have access to disk manager and buffer pool

Every index lives in its own file named after its identity
(table-col1-col2.idx). Page 0 holds the tree root and key layout; every
other page is a B+ tree node.
*/

var (
	ErrIndexExists = errors.New("index file already exists")
	ErrIndexOpen   = errors.New("index is open")
	ErrKeyLength   = errors.New("key length does not match index")
)

func NewIndexFileManager(diskManager *diskmanager.DiskManager, bufferPool *bufferpool.BufferPool) *IndexFileManager {
	return &IndexFileManager{
		indexes:     make(map[string]*IndexHandle),
		bufferPool:  bufferPool,
		diskManager: diskManager,
	}
}

// IndexName is the identity of the index on table over cols, in order.
func IndexName(table string, cols []string) string {
	return table + "-" + strings.Join(cols, "-")
}

// FileName returns the on-disk name of an index file.
func FileName(table string, cols []string) string {
	return IndexName(table, cols) + FileExt
}

func columnNames(cols []KeyColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// IndexExists reports whether the index file exists.
func (ifm *IndexFileManager) IndexExists(table string, cols []string) bool {
	return ifm.diskManager.FileExists(FileName(table, cols))
}

// CreateIndex creates an empty index file for the key layout cols.
// The file is left closed.
func (ifm *IndexFileManager) CreateIndex(table string, cols []KeyColumn) error {
	if len(cols) == 0 {
		return fmt.Errorf("index on %s needs at least one column", table)
	}
	path := FileName(table, columnNames(cols))
	if ifm.diskManager.FileExists(path) {
		return fmt.Errorf("%s: %w", path, ErrIndexExists)
	}
	if err := ifm.diskManager.CreateFile(path); err != nil {
		return err
	}

	fileID, err := ifm.diskManager.OpenFile(path)
	if err != nil {
		_ = ifm.diskManager.DestroyFile(path)
		return err
	}
	_, err = bplus.Create(fileID, KeyLen(cols), encodeLayout(cols), ifm.bufferPool, ifm.diskManager)
	if cerr := ifm.closeFile(fileID); err == nil {
		err = cerr
	}
	if err != nil {
		_ = ifm.diskManager.DestroyFile(path)
		return fmt.Errorf("failed to initialise %s: %w", path, err)
	}

	logging.GetLogger().Debug("index file created", "file", path, "key_len", KeyLen(cols))
	return nil
}

// OpenIndex opens the index on table over cols.
func (ifm *IndexFileManager) OpenIndex(table string, cols []string) (*IndexHandle, error) {
	name := IndexName(table, cols)

	ifm.mu.Lock()
	defer ifm.mu.Unlock()

	if h, ok := ifm.indexes[name]; ok {
		return h, nil
	}

	fileID, err := ifm.diskManager.OpenFile(name + FileExt)
	if err != nil {
		return nil, err
	}
	tree, err := bplus.Open(fileID, ifm.bufferPool, ifm.diskManager)
	if err != nil {
		_ = ifm.closeFile(fileID)
		return nil, fmt.Errorf("failed to open index %s: %w", name, err)
	}
	layout, err := decodeLayout(tree.Header())
	if err != nil {
		_ = ifm.closeFile(fileID)
		return nil, fmt.Errorf("index %s: %w", name, err)
	}
	if KeyLen(layout) != tree.KeyLen() {
		_ = ifm.closeFile(fileID)
		return nil, fmt.Errorf("index %s: layout width %d disagrees with key length %d", name, KeyLen(layout), tree.KeyLen())
	}
	tree.SetComparator(Comparator(layout))

	h := &IndexHandle{
		name:    name,
		table:   table,
		columns: layout,
		keyLen:  tree.KeyLen(),
		fileID:  fileID,
		tree:    tree,
	}
	ifm.indexes[name] = h
	return h, nil
}

// CloseIndex writes the index's pages, drops its frames and closes the file.
func (ifm *IndexFileManager) CloseIndex(h *IndexHandle) error {
	ifm.mu.Lock()
	defer ifm.mu.Unlock()

	if _, ok := ifm.indexes[h.name]; !ok {
		return fmt.Errorf("index %s is not open", h.name)
	}
	delete(ifm.indexes, h.name)
	return ifm.closeFile(h.fileID)
}

func (ifm *IndexFileManager) closeFile(fileID uint32) error {
	if err := ifm.bufferPool.FlushFile(fileID); err != nil {
		_ = ifm.diskManager.CloseFile(fileID)
		return err
	}
	if err := ifm.bufferPool.DiscardFile(fileID); err != nil {
		_ = ifm.diskManager.CloseFile(fileID)
		return err
	}
	return ifm.diskManager.CloseFile(fileID)
}

// DestroyIndex removes the file of a closed index.
func (ifm *IndexFileManager) DestroyIndex(table string, cols []string) error {
	name := IndexName(table, cols)
	ifm.mu.RLock()
	_, open := ifm.indexes[name]
	ifm.mu.RUnlock()
	if open {
		return fmt.Errorf("%s: %w", name, ErrIndexOpen)
	}
	return ifm.diskManager.DestroyFile(name + FileExt)
}

// OpenIndexes returns the number of open indexes.
func (ifm *IndexFileManager) OpenIndexes() int {
	ifm.mu.RLock()
	defer ifm.mu.RUnlock()
	return len(ifm.indexes)
}

// ─────────────────────────────────────────────────────────────────────────────
// IndexHandle
// ─────────────────────────────────────────────────────────────────────────────

func (h *IndexHandle) Name() string { return h.name }
func (h *IndexHandle) Table() string { return h.table }
func (h *IndexHandle) Columns() []KeyColumn { return h.columns }
func (h *IndexHandle) KeyLen() int { return h.keyLen }

// Insert adds key → rid. A key already present yields bplus.ErrDuplicateKey.
func (h *IndexHandle) Insert(key []byte, rid types.RowPointer) error {
	if len(key) != h.keyLen {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrKeyLength, len(key), h.keyLen)
	}
	return h.tree.Insertion(key, rid.Encode())
}

// Lookup returns the row pointer stored under key.
func (h *IndexHandle) Lookup(key []byte) (types.RowPointer, bool, error) {
	if len(key) != h.keyLen {
		return types.RowPointer{}, false, fmt.Errorf("%w: got %d bytes, want %d", ErrKeyLength, len(key), h.keyLen)
	}
	v, ok, err := h.tree.Search(key)
	if err != nil || !ok {
		return types.RowPointer{}, false, err
	}
	rid, err := types.DecodeRowPointer(v)
	return rid, err == nil, err
}

// Entries returns every entry in key order.
func (h *IndexHandle) Entries() ([]Entry, error) {
	var out []Entry
	err := h.Walk(func(key []byte, rid types.RowPointer) error {
		out = append(out, Entry{Key: append([]byte(nil), key...), RID: rid})
		return nil
	})
	return out, err
}

// Len counts the entries of the index.
func (h *IndexHandle) Len() (int, error) {
	n := 0
	err := h.Walk(func([]byte, types.RowPointer) error {
		n++
		return nil
	})
	return n, err
}

// Walk calls fn for every entry in key order, stopping at the first error.
func (h *IndexHandle) Walk(fn func(key []byte, rid types.RowPointer) error) error {
	it := h.tree.First()
	defer it.Close()
	for ; it.Valid(); it.Next() {
		rid, err := types.DecodeRowPointer(it.Value())
		if err != nil {
			return err
		}
		if err := fn(it.Key(), rid); err != nil {
			return err
		}
	}
	return it.Err()
}
