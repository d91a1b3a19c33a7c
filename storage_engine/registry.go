package storageengine

import (
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"fmt"
	"sort"
)

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{
		tables:  make(map[string]*heapfile.HeapFile),
		indexes: make(map[string]*indexfile.IndexHandle),
	}
}

func (r *handleRegistry) table(name string) (*heapfile.HeapFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hf, ok := r.tables[name]
	return hf, ok
}

func (r *handleRegistry) putTable(name string, hf *heapfile.HeapFile) {
	r.mu.Lock()
	r.tables[name] = hf
	r.mu.Unlock()
}

func (r *handleRegistry) removeTable(name string) {
	r.mu.Lock()
	delete(r.tables, name)
	r.mu.Unlock()
}

func (r *handleRegistry) index(name string) (*indexfile.IndexHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.indexes[name]
	return h, ok
}

func (r *handleRegistry) putIndex(name string, h *indexfile.IndexHandle) {
	r.mu.Lock()
	r.indexes[name] = h
	r.mu.Unlock()
}

func (r *handleRegistry) removeIndex(name string) {
	r.mu.Lock()
	delete(r.indexes, name)
	r.mu.Unlock()
}

func (r *handleRegistry) counts() (tables, indexes int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables), len(r.indexes)
}

// checkRegistry reports a mismatch between the catalog and the open handles.
// Every table and index in the catalog must have exactly one handle and
// nothing else may be registered.
func (se *StorageEngine) checkRegistry() error {
	if se.catalog == nil {
		if se.handles != nil {
			if t, i := se.handles.counts(); t+i > 0 {
				return fmt.Errorf("no database open but %d table and %d index handles registered", t, i)
			}
		}
		return nil
	}

	wantTables := 0
	wantIndexes := 0
	var missing []string
	for _, t := range se.catalog.Tables() {
		wantTables++
		if _, ok := se.handles.table(t.Name); !ok {
			missing = append(missing, "table "+t.Name)
		}
		for _, idx := range t.Indexes {
			wantIndexes++
			name := indexfile.IndexName(t.Name, idx.ColumnNames())
			if _, ok := se.handles.index(name); !ok {
				missing = append(missing, "index "+name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("catalog entries without handles: %v", missing)
	}
	if t, i := se.handles.counts(); t != wantTables || i != wantIndexes {
		return fmt.Errorf("registry holds %d tables and %d indexes, catalog has %d and %d", t, i, wantTables, wantIndexes)
	}
	return nil
}
