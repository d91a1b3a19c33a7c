package storageengine

import (
	"CatalogDB/dberr"
	"CatalogDB/logging"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	bplus "CatalogDB/storage_engine/access/indexfile_manager/bplustree"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	lockmanager "CatalogDB/storage_engine/lock_manager"
	"CatalogDB/types"
	"context"
	"errors"
	"fmt"
)

/*
CreateIndex builds a B+tree over existing rows with one forward scan of the
table. Keys must be unique: the first repeated key aborts the build, and the
partial index file is destroyed so that catalog, registry and disk look
exactly as before the call.
*/

func (se *StorageEngine) CreateIndex(ctx context.Context, table string, cols []string) error {
	const op = "CreateIndex"
	release, err := se.lockThenEnter(ctx, op, table, lockmanager.Shared)
	if err != nil {
		return err
	}
	defer release()

	if err := se.requireDatabase(op); err != nil {
		return err
	}
	newErr := func(k dberr.Kind) *dberr.Error {
		return dberr.New(k, op).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}

	if !se.catalog.TableExists(table) {
		return newErr(dberr.KindTableNotFound)
	}
	if len(cols) == 0 {
		return newErr(dberr.KindInvalidDefinition).WithDetail("an index needs at least one column")
	}
	meta, _ := se.catalog.Table(table)
	if meta.IndexPos(cols) >= 0 || se.IndexManager.IndexExists(table, cols) {
		return newErr(dberr.KindIndexExists)
	}

	colMetas := make([]catalog.ColumnMeta, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	keyLen := 0
	for _, name := range cols {
		if seen[name] {
			return newErr(dberr.KindInvalidDefinition).WithDetail("column %q repeated", name)
		}
		seen[name] = true
		col, err := se.columns.Resolve(se.catalog, table, name)
		if err != nil {
			return newErr(dberr.KindColumnNotFound).WithDetail("unknown column %q", name)
		}
		colMetas = append(colMetas, col)
		keyLen += col.Len
	}
	if keyLen > bplus.MaxKeyLen {
		return newErr(dberr.KindInvalidDefinition).WithDetail("key length %d exceeds %d", keyLen, bplus.MaxKeyLen)
	}

	log := logging.WithIndex(indexfile.IndexName(table, cols))
	log.Debug("building index", "key_len", keyLen)

	keyCols := make([]indexfile.KeyColumn, len(colMetas))
	for i, c := range colMetas {
		keyCols[i] = indexfile.KeyColumn{Name: c.Name, Type: c.Type, Len: c.Len}
	}
	if err := se.IndexManager.CreateIndex(table, keyCols); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}
	h, err := se.IndexManager.OpenIndex(table, cols)
	if err != nil {
		if derr := se.IndexManager.DestroyIndex(table, cols); derr != nil {
			log.Error("failed to remove index file after open failure", "error", derr)
		}
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}

	n, dup, err := se.populateIndex(h, table, colMetas)
	if err != nil {
		if cerr := se.IndexManager.CloseIndex(h); cerr != nil {
			log.Error("failed to close partial index", "error", cerr)
		}
		if derr := se.IndexManager.DestroyIndex(table, cols); derr != nil {
			log.Error("failed to remove partial index", "error", derr)
		}
		if errors.Is(err, bplus.ErrDuplicateKey) {
			log.Warn("index build rolled back on duplicate key", "rid", dup.String(), "rows_indexed", n)
			return newErr(dberr.KindDuplicateKey).WithDetail("row %s repeats an indexed key", dup)
		}
		log.Warn("index build rolled back", "error", err)
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}

	if err := se.catalog.AddIndex(catalog.NewIndexMeta(table, colMetas)); err != nil {
		_ = se.IndexManager.CloseIndex(h)
		_ = se.IndexManager.DestroyIndex(table, cols)
		return err
	}
	se.handles.putIndex(h.Name(), h)

	if err := se.flushMeta(); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}
	if err := se.journalDDL(op, ddllog.OpCreateIndex, table, cols); err != nil {
		return err
	}
	log.Info("index created", "entries", n)
	return nil
}

// populateIndex inserts one entry per live row of table. On failure it
// returns the number of rows indexed so far and the row being inserted.
func (se *StorageEngine) populateIndex(h *indexfile.IndexHandle, table string, cols []catalog.ColumnMeta) (int, types.RowPointer, error) {
	hf, ok := se.handles.table(table)
	if !ok {
		return 0, types.RowPointer{}, fmt.Errorf("table %s has no open record file", table)
	}
	scan, err := hf.NewScan()
	if err != nil {
		return 0, types.RowPointer{}, err
	}

	key := make([]byte, h.KeyLen())
	n := 0
	for !scan.IsEnd() {
		rid := scan.RowPointer()
		rec, err := scan.Record()
		if err != nil {
			return n, rid, err
		}
		off := 0
		for _, c := range cols {
			off += copy(key[off:], rec[c.Offset:c.Offset+c.Len])
		}
		if err := h.Insert(key, rid); err != nil {
			return n, rid, err
		}
		n++
		if err := scan.Next(); err != nil {
			return n, rid, err
		}
	}
	return n, types.RowPointer{}, nil
}

// DropIndex removes the index of table over cols.
func (se *StorageEngine) DropIndex(ctx context.Context, table string, cols []string) error {
	const op = "DropIndex"
	release, err := se.lockThenEnter(ctx, op, table, lockmanager.Shared)
	if err != nil {
		return err
	}
	defer release()

	if err := se.requireDatabase(op); err != nil {
		return err
	}
	if !se.catalog.TableExists(table) {
		return dberr.New(dberr.KindTableNotFound, op).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}
	if len(cols) == 0 || !se.IndexManager.IndexExists(table, cols) {
		return dberr.New(dberr.KindIndexNotFound, op).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}

	log := logging.WithIndex(indexfile.IndexName(table, cols))
	if err := se.destroyIndex(table, cols); err != nil {
		log.Error("drop index failed", "error", err)
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}
	// a file without a catalog entry is removed all the same
	if err := se.catalog.RemoveIndex(table, cols); err != nil && !errors.Is(err, dberr.ErrIndexNotFound) {
		return err
	}
	if err := se.flushMeta(); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).WithColumns(cols)
	}
	if err := se.journalDDL(op, ddllog.OpDropIndex, table, cols); err != nil {
		return err
	}
	log.Info("index dropped")
	return nil
}

// DropIndexByColumns is DropIndex for callers holding column metas. Every
// meta must have been resolved against table.
func (se *StorageEngine) DropIndexByColumns(ctx context.Context, table string, cols []catalog.ColumnMeta) error {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	for _, c := range cols {
		if c.Table != table {
			return dberr.New(dberr.KindInvalidDefinition, "DropIndex").WithTable(table).WithColumns(names).
				WithDetail("column %q belongs to table %q", c.Name, c.Table)
		}
	}
	return se.DropIndex(ctx, table, names)
}

// destroyIndex closes the index handle if registered and removes the file.
func (se *StorageEngine) destroyIndex(table string, cols []string) error {
	name := indexfile.IndexName(table, cols)
	if h, ok := se.handles.index(name); ok {
		if err := se.IndexManager.CloseIndex(h); err != nil {
			return err
		}
		se.handles.removeIndex(name)
	}
	return se.IndexManager.DestroyIndex(table, cols)
}
