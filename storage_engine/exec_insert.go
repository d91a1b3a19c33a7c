package storageengine

import (
	"CatalogDB/dberr"
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	"CatalogDB/storage_engine/catalog"
	"CatalogDB/types"
)

/*
This file contains the row operations used by the tools and tests to put data
into tables before an index is built over them.

	StorageEngine.InsertRow("mytable", [5, "x"])
	     ├── catalog lookup ("mytable")
	     ├── EncodeRow → fixed-length record
	     └── HeapFile.InsertRecord → RowPointer{page=1, slot=0}

Secondary indexes are not maintained here; an index reflects the rows that
existed when it was built.
*/

func (se *StorageEngine) tableHandle(op, table string) (catalog.TableMeta, *heapfile.HeapFile, error) {
	if err := se.requireDatabase(op); err != nil {
		return catalog.TableMeta{}, nil, err
	}
	meta, ok := se.catalog.TableCopy(table)
	if !ok {
		return catalog.TableMeta{}, nil, dberr.New(dberr.KindTableNotFound, op).WithDatabase(se.currDb).WithTable(table)
	}
	hf, ok := se.handles.table(table)
	if !ok {
		return catalog.TableMeta{}, nil, dberr.New(dberr.KindEnvironmentFailure, op).WithTable(table).
			WithDetail("table has no open record file")
	}
	return meta, hf, nil
}

func (se *StorageEngine) InsertRow(table string, values []any) (types.RowPointer, error) {
	const op = "InsertRow"
	se.mu.Lock()
	defer se.mu.Unlock()

	meta, hf, err := se.tableHandle(op, table)
	if err != nil {
		return types.RowPointer{}, err
	}
	rec, err := EncodeRow(meta, values)
	if err != nil {
		return types.RowPointer{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(table).WithCause(err)
	}
	rid, err := hf.InsertRecord(rec)
	if err != nil {
		return types.RowPointer{}, dberr.Environment(op, err).WithTable(table)
	}
	return rid, nil
}

func (se *StorageEngine) GetRow(table string, rid types.RowPointer) ([]any, error) {
	const op = "GetRow"
	se.mu.Lock()
	defer se.mu.Unlock()

	meta, hf, err := se.tableHandle(op, table)
	if err != nil {
		return nil, err
	}
	rec, err := hf.GetRecord(rid)
	if err != nil {
		return nil, dberr.Environment(op, err).WithTable(table).WithDetail("row %s", rid)
	}
	return DecodeRow(meta, rec)
}

func (se *StorageEngine) DeleteRow(table string, rid types.RowPointer) error {
	const op = "DeleteRow"
	se.mu.Lock()
	defer se.mu.Unlock()

	_, hf, err := se.tableHandle(op, table)
	if err != nil {
		return err
	}
	if err := hf.DeleteRecord(rid); err != nil {
		return dberr.Environment(op, err).WithTable(table).WithDetail("row %s", rid)
	}
	return nil
}
