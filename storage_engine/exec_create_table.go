package storageengine

import (
	"CatalogDB/dberr"
	"CatalogDB/logging"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	lockmanager "CatalogDB/storage_engine/lock_manager"
	"CatalogDB/types"
	"context"
	"errors"
)

/*
CreateTable validates the definition against the catalog before it touches
the disk: a failed validation never leaves a file behind and a failed file
step never leaves a catalog entry behind.
*/

func (se *StorageEngine) CreateTable(name string, defs []types.ColumnDef) error {
	const op = "CreateTable"
	se.mu.Lock()
	defer se.mu.Unlock()

	if err := se.requireDatabase(op); err != nil {
		return err
	}
	if se.catalog.TableExists(name) {
		return dberr.New(dberr.KindTableExists, op).WithDatabase(se.currDb).WithTable(name)
	}
	meta, err := catalog.NewTableMeta(name, defs)
	if err != nil {
		var de *dberr.Error
		if errors.As(err, &de) {
			de.Database = se.currDb
		}
		return err
	}
	if se.HeapManager.FileExists(name) {
		return dberr.New(dberr.KindTableExists, op).WithDatabase(se.currDb).WithTable(name).
			WithDetail("a record file for the table already exists")
	}

	log := logging.WithTable(name)
	log.Debug("creating table", "columns", len(meta.Columns), "row_len", meta.RowLen())

	if err := se.HeapManager.CreateFile(name, meta.RowLen()); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(name)
	}
	hf, err := se.HeapManager.OpenFile(name)
	if err != nil {
		if derr := se.HeapManager.DestroyFile(name); derr != nil {
			log.Error("failed to remove record file after open failure", "error", derr)
		}
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(name)
	}

	if err := se.catalog.AddTable(meta); err != nil {
		_ = se.HeapManager.CloseFile(hf)
		_ = se.HeapManager.DestroyFile(name)
		return err
	}
	se.handles.putTable(name, hf)

	if err := se.flushMeta(); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(name)
	}
	if err := se.journalDDL(op, ddllog.OpCreateTable, name, meta.ColumnNames()); err != nil {
		return err
	}
	log.Info("table created", "row_len", meta.RowLen())
	return nil
}

// DropTable destroys a table's indexes, then its record file, then its meta.
func (se *StorageEngine) DropTable(ctx context.Context, name string) error {
	const op = "DropTable"
	release, err := se.lockThenEnter(ctx, op, name, lockmanager.Exclusive)
	if err != nil {
		return err
	}
	defer release()

	if err := se.requireDatabase(op); err != nil {
		return err
	}
	meta, ok := se.catalog.TableCopy(name)
	if !ok {
		return dberr.New(dberr.KindTableNotFound, op).WithDatabase(se.currDb).WithTable(name)
	}

	log := logging.WithTable(name)
	fail := func(err error) error {
		log.Error("drop table failed", "error", err)
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(name)
	}

	for _, idx := range meta.Indexes {
		cols := idx.ColumnNames()
		if err := se.destroyIndex(name, cols); err != nil {
			return fail(err)
		}
		if err := se.catalog.RemoveIndex(name, cols); err != nil {
			return fail(err)
		}
	}

	if hf, ok := se.handles.table(name); ok {
		if err := se.HeapManager.CloseFile(hf); err != nil {
			return fail(err)
		}
		se.handles.removeTable(name)
	}
	if err := se.HeapManager.DestroyFile(name); err != nil {
		return fail(err)
	}
	if err := se.catalog.RemoveTable(name); err != nil {
		return fail(err)
	}
	if err := se.flushMeta(); err != nil {
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(name)
	}

	if err := se.journalDDL(op, ddllog.OpDropTable, name, nil); err != nil {
		return err
	}
	log.Info("table dropped", "indexes", len(meta.Indexes))
	return nil
}
