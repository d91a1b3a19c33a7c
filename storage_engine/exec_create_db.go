package storageengine

import (
	"CatalogDB/dberr"
	"CatalogDB/logging"
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"CatalogDB/storage_engine/bufferpool"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/types"
	"errors"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

/*
This file contains Database related commands.
CreateDatabase lays out an empty database directory: db.meta holding an empty
catalog and db.log, the DDL journal, holding its first record.
OpenDatabase is where the disk manager, buffer pool, heap file manager and
index file manager are built on a file system scoped to the database
directory, and where every table and index of the catalog gets its handle.
CloseDatabase undoes all of that after one final metadata flush.
*/

func (se *StorageEngine) CreateDatabase(name string) error {
	const op = "CreateDatabase"
	se.mu.Lock()
	defer se.mu.Unlock()

	if !types.ValidIdentifier(name) {
		return dberr.New(dberr.KindInvalidDefinition, op).WithDatabase(name).WithDetail("invalid database name")
	}
	if se.root.IsDir(name) || se.root.FileExists(name) {
		return dberr.New(dberr.KindDatabaseExists, op).WithDatabase(name)
	}
	if err := se.root.CreateDir(name); err != nil {
		return dberr.Environment(op, err).WithDatabase(name)
	}

	scope, err := se.enterDir(name)
	if err != nil {
		return dberr.Environment(op, err).WithDatabase(name)
	}
	defer scope.release()

	cat := catalog.NewDatabaseCatalog(name)
	err = writeMeta(scope.fs, cat)
	if err == nil {
		err = startJournal(scope.fs)
	}
	if err != nil {
		if rerr := se.root.RemoveAll(name); rerr != nil {
			se.log.Error("failed to remove partial database", "db", name, "error", rerr)
		}
		return dberr.Environment(op, err).WithDatabase(name)
	}

	logging.WithDatabase(name, cat.ID).Info("database created")
	return nil
}

func startJournal(fs afero.Fs) error {
	journal, err := ddllog.Open(fs, catalog.LogFile)
	if err != nil {
		return err
	}
	if _, err := journal.Append(ddllog.Record{Op: ddllog.OpCreateDatabase}); err != nil {
		journal.Close()
		return err
	}
	return journal.Close()
}

// ShowDatabases lists the database directories under the root, sorted.
func (se *StorageEngine) ShowDatabases() ([]string, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	names, err := se.root.ListDirs(".")
	if err != nil {
		return nil, dberr.Environment("ShowDatabases", err)
	}
	slices.Sort(names)
	return names, nil
}

func (se *StorageEngine) OpenDatabase(name string) error {
	const op = "OpenDatabase"
	se.mu.Lock()
	defer se.mu.Unlock()

	if !types.ValidIdentifier(name) || !se.root.IsDir(name) {
		return dberr.New(dberr.KindDatabaseNotFound, op).WithDatabase(name)
	}
	if se.currDb != "" {
		return dberr.New(dberr.KindDatabaseExists, op).WithDatabase(name).
			WithDetail("database %s is already open", se.currDb)
	}

	scope, err := se.enterDir(name)
	if err != nil {
		return dberr.Environment(op, err).WithDatabase(name)
	}
	cat, err := readMeta(scope.fs)
	if err != nil {
		scope.release()
		return dberr.Environment(op, err).WithDatabase(name)
	}

	dm := diskmanager.NewDiskManager(scope.fs)
	bp := bufferpool.NewBufferPool(se.cfg.BufferPoolPages, dm)
	hfm := heapfile.NewHeapFileManager(dm, bp)
	ifm := indexfile.NewIndexFileManager(dm, bp)
	reg := newHandleRegistry()

	err = openHandles(cat, hfm, ifm, reg)
	var journal *ddllog.DDLLog
	if err == nil {
		journal, err = ddllog.Open(scope.fs, catalog.LogFile)
	}
	if err != nil {
		if cerr := closeHandles(reg, hfm, ifm); cerr != nil {
			se.log.Error("failed to close handles after open failure", "db", name, "error", cerr)
		}
		_ = dm.CloseAll()
		scope.release()
		return dberr.Environment(op, err).WithDatabase(name)
	}

	se.currDb = name
	se.scope = scope
	se.catalog = cat
	se.handles = reg
	se.journal = journal
	se.DiskManager = dm
	se.BufferPool = bp
	se.HeapManager = hfm
	se.IndexManager = ifm

	tables, indexes := reg.counts()
	logging.WithDatabase(name, cat.ID).Info("database opened", "tables", tables, "indexes", indexes)
	return nil
}

func openHandles(cat *catalog.DatabaseCatalog, hfm *heapfile.HeapFileManager, ifm *indexfile.IndexFileManager, reg *handleRegistry) error {
	for _, t := range cat.Tables() {
		hf, err := hfm.OpenFile(t.Name)
		if err != nil {
			return err
		}
		reg.putTable(t.Name, hf)
		if hf.RecordLen() != t.RowLen() {
			return errors.New("record length of " + heapfile.FileName(t.Name) + " disagrees with the catalog")
		}

		for _, idx := range t.Indexes {
			h, err := ifm.OpenIndex(t.Name, idx.ColumnNames())
			if err != nil {
				return err
			}
			reg.putIndex(h.Name(), h)
		}
	}
	return nil
}

// closeHandles closes every registered handle, a table's indexes before the
// table itself. Tables are closed concurrently. The registry is emptied even
// when some close fails; the first error is returned.
func closeHandles(reg *handleRegistry, hfm *heapfile.HeapFileManager, ifm *indexfile.IndexFileManager) error {
	reg.mu.Lock()
	byTable := make(map[string][]*indexfile.IndexHandle)
	for _, h := range reg.indexes {
		byTable[h.Table()] = append(byTable[h.Table()], h)
	}
	tables := make(map[string]*heapfile.HeapFile, len(reg.tables))
	for name, hf := range reg.tables {
		tables[name] = hf
	}
	for name := range byTable {
		if _, ok := tables[name]; !ok {
			tables[name] = nil
		}
	}
	reg.tables = make(map[string]*heapfile.HeapFile)
	reg.indexes = make(map[string]*indexfile.IndexHandle)
	reg.mu.Unlock()

	var g errgroup.Group
	for name, hf := range tables {
		hf := hf
		indexes := byTable[name]
		g.Go(func() error {
			var first error
			for _, h := range indexes {
				if err := ifm.CloseIndex(h); err != nil && first == nil {
					first = err
				}
			}
			if hf != nil {
				if err := hfm.CloseFile(hf); err != nil && first == nil {
					first = err
				}
			}
			return first
		})
	}
	return g.Wait()
}

// CloseDatabase flushes the catalog once, closes every handle and forgets the
// database. The slot is cleared even when something fails along the way.
func (se *StorageEngine) CloseDatabase() error {
	const op = "CloseDatabase"
	se.mu.Lock()
	defer se.mu.Unlock()

	if err := se.requireDatabase(op); err != nil {
		return err
	}
	name := se.currDb
	log := logging.WithDatabase(name, se.catalog.ID)

	errs := []error{se.flushMeta()}
	errs = append(errs, closeHandles(se.handles, se.HeapManager, se.IndexManager))
	errs = append(errs, se.DiskManager.CloseAll())
	errs = append(errs, se.journal.Close())

	se.columns.Clear()
	se.scope.release()
	se.currDb = ""
	se.scope = nil
	se.catalog = nil
	se.handles = nil
	se.journal = nil
	se.DiskManager = nil
	se.BufferPool = nil
	se.HeapManager = nil
	se.IndexManager = nil

	if err := errors.Join(errs...); err != nil {
		log.Error("database closed with errors", "error", err)
		return dberr.Environment(op, err).WithDatabase(name)
	}
	log.Info("database closed")
	return nil
}

func (se *StorageEngine) DropDatabase(name string) error {
	const op = "DropDatabase"
	se.mu.Lock()
	defer se.mu.Unlock()

	if !types.ValidIdentifier(name) || !se.root.IsDir(name) {
		return dberr.New(dberr.KindDatabaseNotFound, op).WithDatabase(name)
	}
	if name == se.currDb {
		return dberr.New(dberr.KindDatabaseInUse, op).WithDatabase(name)
	}
	if err := se.root.RemoveAll(name); err != nil {
		se.log.Error("failed to drop database", "db", name, "error", err)
		return dberr.Environment(op, err).WithDatabase(name)
	}
	se.log.Info("database dropped", "db", name)
	return nil
}
