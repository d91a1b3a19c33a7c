package storageengine

import (
	"CatalogDB/config"
	"CatalogDB/dberr"
	"CatalogDB/logging"
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	"CatalogDB/storage_engine/bufferpool"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	lockmanager "CatalogDB/storage_engine/lock_manager"
	"context"
	"fmt"

	"github.com/spf13/afero"
)

/*
The main file of storage engine. It initializes the engine on a file system
rooted at cfg.DbRoot; OpenDatabase does the actual disk loading afterwards.

Every exported operation takes se.mu, so DDL on one engine never interleaves.
DDL that needs a table lock takes it before se.mu; a wait on a table held by
an outside locker never holds up the rest of the engine.
*/

// WithTableLocker replaces the default in-process table lock manager.
func WithTableLocker(l TableLocker) Option {
	return func(se *StorageEngine) { se.locker = l }
}

// NewStorageEngine creates cfg.DbRoot on fs if needed and returns an engine
// with no database open.
func NewStorageEngine(cfg config.Config, fs afero.Fs, opts ...Option) (*StorageEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := fs.MkdirAll(cfg.DbRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db root: %w", err)
	}
	columns, err := catalog.NewColumnCache(int(cfg.ColumnCacheEntries))
	if err != nil {
		return nil, err
	}

	se := &StorageEngine{
		DbRoot:  cfg.DbRoot,
		cfg:     cfg,
		root:    diskmanager.NewDiskManager(afero.NewBasePathFs(fs, cfg.DbRoot)),
		columns: columns,
		locker:  lockmanager.NewTableLockManager(),
		log:     logging.WithComponent("storage_engine"),
	}
	for _, opt := range opts {
		opt(se)
	}
	return se, nil
}

// Shutdown closes the open database, if any, and releases the column cache.
func (se *StorageEngine) Shutdown() error {
	var err error
	if se.CurrentDatabase() != "" {
		err = se.CloseDatabase()
	}
	se.columns.Close()
	return err
}

// lockThenEnter locks table in mode and then takes se.mu. The returned func
// releases both.
func (se *StorageEngine) lockThenEnter(ctx context.Context, op, table string, mode lockmanager.Mode) (func(), error) {
	if err := se.locker.LockTable(ctx, table, mode); err != nil {
		return nil, dberr.Environment(op, err).WithTable(table)
	}
	se.mu.Lock()
	return func() {
		se.mu.Unlock()
		se.locker.UnlockTable(table, mode)
	}, nil
}

func (se *StorageEngine) requireDatabase(op string) error {
	if se.currDb == "" || se.catalog == nil {
		return dberr.New(dberr.KindNoDatabaseOpen, op)
	}
	return nil
}

// CurrentDatabase returns the name of the open database or "".
func (se *StorageEngine) CurrentDatabase() string {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.currDb
}

// ListTables returns the tables of the open database in creation order.
func (se *StorageEngine) ListTables() ([]string, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("ListTables"); err != nil {
		return nil, err
	}
	return se.catalog.TableNames(), nil
}

// DescribeTable returns a copy of a table's meta.
func (se *StorageEngine) DescribeTable(name string) (catalog.TableMeta, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("DescribeTable"); err != nil {
		return catalog.TableMeta{}, err
	}
	meta, ok := se.catalog.TableCopy(name)
	if !ok {
		return catalog.TableMeta{}, dberr.New(dberr.KindTableNotFound, "DescribeTable").
			WithDatabase(se.currDb).WithTable(name)
	}
	return meta, nil
}

// ResolveColumn looks up table.column through the column cache.
func (se *StorageEngine) ResolveColumn(table, column string) (catalog.ColumnMeta, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("ResolveColumn"); err != nil {
		return catalog.ColumnMeta{}, err
	}
	return se.columns.Resolve(se.catalog, table, column)
}

// Catalog returns a snapshot of the open database's catalog.
func (se *StorageEngine) Catalog() (*catalog.DatabaseCatalog, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("Catalog"); err != nil {
		return nil, err
	}
	return se.catalog.Clone(), nil
}

// TableFileSize returns the size on disk of a table's heap file.
func (se *StorageEngine) TableFileSize(table string) (int64, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("TableFileSize"); err != nil {
		return 0, err
	}
	if !se.catalog.TableExists(table) {
		return 0, dberr.New(dberr.KindTableNotFound, "TableFileSize").WithDatabase(se.currDb).WithTable(table)
	}
	// dirty frames count too
	if hf, ok := se.handles.table(table); ok {
		if err := se.BufferPool.FlushFile(hf.FileID()); err != nil {
			return 0, dberr.Environment("TableFileSize", err).WithTable(table)
		}
	}
	return se.DiskManager.FileSize(heapfile.FileName(table))
}

// BufferPoolStats reports the buffer pool counters of the open database.
func (se *StorageEngine) BufferPoolStats() (bufferpool.BufferPoolStats, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("BufferPoolStats"); err != nil {
		return bufferpool.BufferPoolStats{}, err
	}
	return se.BufferPool.GetStats(), nil
}

// DDLHistory returns the journal of the open database, oldest first.
func (se *StorageEngine) DDLHistory() ([]ddllog.Record, error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.requireDatabase("DDLHistory"); err != nil {
		return nil, err
	}
	recs, err := se.journal.Records()
	if err != nil {
		return nil, dberr.Environment("DDLHistory", err).WithDatabase(se.currDb)
	}
	return recs, nil
}

// ColumnCacheStats returns hits and misses of the column cache.
func (se *StorageEngine) ColumnCacheStats() (hits, misses uint64) {
	return se.columns.Stats()
}
