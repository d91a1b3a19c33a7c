package storageengine

import (
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"CatalogDB/storage_engine/bufferpool"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	lockmanager "CatalogDB/storage_engine/lock_manager"
	"CatalogDB/config"
	"context"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
)

// TableLocker grants table level locks to DDL that reads or destroys a
// table's files. The engine waits for the lock before taking its own mutex.
type TableLocker interface {
	LockTable(ctx context.Context, table string, mode lockmanager.Mode) error
	UnlockTable(table string, mode lockmanager.Mode)
}

type StorageEngine struct {
	BufferPool   *bufferpool.BufferPool
	DiskManager  *diskmanager.DiskManager
	IndexManager *indexfile.IndexFileManager
	HeapManager  *heapfile.HeapFileManager

	DbRoot string
	cfg    config.Config

	// root sees DbRoot as "/", one directory per database
	root *diskmanager.DiskManager

	currDb  string
	scope   *dirScope
	catalog *catalog.DatabaseCatalog
	handles *handleRegistry
	journal *ddllog.DDLLog

	columns *catalog.ColumnCache
	locker  TableLocker

	// serialises DDL and open/close
	mu  sync.Mutex
	log *slog.Logger
}

// dirScope confines file access to one database directory while it is open.
type dirScope struct {
	name string
	fs   afero.Fs
}

// handleRegistry holds the open table and index handles of the current database.
type handleRegistry struct {
	mu      sync.RWMutex
	tables  map[string]*heapfile.HeapFile
	indexes map[string]*indexfile.IndexHandle
}

// Option customises a StorageEngine.
type Option func(*StorageEngine)
