package storageengine

import (
	"CatalogDB/dberr"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"CatalogDB/storage_engine/catalog"
	"CatalogDB/types"
)

/*
Read paths over table and index contents:

	ScanRows    full forward scan of a record file
	IndexLookup point lookup through an index, key given as column values
	IndexEntries every (key, rid) pair of an index in key order
*/

// ScanRows calls fn for every live row of table in file order. A non-nil
// error from fn stops the scan and is returned. fn must not call back into
// the engine.
func (se *StorageEngine) ScanRows(table string, fn func(rid types.RowPointer, values []any) error) error {
	const op = "ScanRows"
	se.mu.Lock()
	defer se.mu.Unlock()

	meta, hf, err := se.tableHandle(op, table)
	if err != nil {
		return err
	}
	scan, err := hf.NewScan()
	if err != nil {
		return dberr.Environment(op, err).WithTable(table)
	}
	for !scan.IsEnd() {
		rec, err := scan.Record()
		if err != nil {
			return dberr.Environment(op, err).WithTable(table)
		}
		values, err := DecodeRow(meta, rec)
		if err != nil {
			return dberr.Environment(op, err).WithTable(table)
		}
		if err := fn(scan.RowPointer(), values); err != nil {
			return err
		}
		if err := scan.Next(); err != nil {
			return dberr.Environment(op, err).WithTable(table)
		}
	}
	return nil
}

func (se *StorageEngine) indexHandle(op, table string, cols []string) (catalog.IndexMeta, *indexfile.IndexHandle, error) {
	if err := se.requireDatabase(op); err != nil {
		return catalog.IndexMeta{}, nil, err
	}
	meta, ok := se.catalog.TableCopy(table)
	if !ok {
		return catalog.IndexMeta{}, nil, dberr.New(dberr.KindTableNotFound, op).WithDatabase(se.currDb).WithTable(table)
	}
	pos := meta.IndexPos(cols)
	if pos < 0 {
		return catalog.IndexMeta{}, nil, dberr.New(dberr.KindIndexNotFound, op).WithTable(table).WithColumns(cols)
	}
	h, ok := se.handles.index(indexfile.IndexName(table, cols))
	if !ok {
		return catalog.IndexMeta{}, nil, dberr.New(dberr.KindEnvironmentFailure, op).WithTable(table).WithColumns(cols).
			WithDetail("index has no open handle")
	}
	return meta.Indexes[pos], h, nil
}

// IndexLookup finds the row whose indexed columns equal values.
func (se *StorageEngine) IndexLookup(table string, cols []string, values []any) (types.RowPointer, bool, error) {
	const op = "IndexLookup"
	se.mu.Lock()
	defer se.mu.Unlock()

	idx, h, err := se.indexHandle(op, table, cols)
	if err != nil {
		return types.RowPointer{}, false, err
	}
	key, err := EncodeKey(idx.Columns, values)
	if err != nil {
		return types.RowPointer{}, false, dberr.New(dberr.KindInvalidDefinition, op).WithTable(table).WithColumns(cols).WithCause(err)
	}
	rid, found, err := h.Lookup(key)
	if err != nil {
		return types.RowPointer{}, false, dberr.Environment(op, err).WithTable(table).WithColumns(cols)
	}
	return rid, found, nil
}

// IndexEntries returns every entry of an index in key order.
func (se *StorageEngine) IndexEntries(table string, cols []string) ([]indexfile.Entry, error) {
	const op = "IndexEntries"
	se.mu.Lock()
	defer se.mu.Unlock()

	_, h, err := se.indexHandle(op, table, cols)
	if err != nil {
		return nil, err
	}
	entries, err := h.Entries()
	if err != nil {
		return nil, dberr.Environment(op, err).WithTable(table).WithColumns(cols)
	}
	return entries, nil
}
