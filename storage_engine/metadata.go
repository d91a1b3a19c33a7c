package storageengine

import (
	"CatalogDB/dberr"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	"fmt"

	"github.com/spf13/afero"
)

// enterDir scopes file access to the database directory name.
func (se *StorageEngine) enterDir(name string) (*dirScope, error) {
	if !se.root.IsDir(name) {
		return nil, fmt.Errorf("database directory %s does not exist", name)
	}
	return &dirScope{name: name, fs: afero.NewBasePathFs(se.root.Fs(), name)}, nil
}

func (s *dirScope) release() {
	s.fs = nil
}

// writeMeta replaces db.meta. The new contents go to a temporary file first
// so a failed write leaves the previous catalog in place.
func writeMeta(fs afero.Fs, cat *catalog.DatabaseCatalog) error {
	data, err := catalog.Encode(cat)
	if err != nil {
		return err
	}
	tmp := catalog.MetaFile + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, catalog.MetaFile); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", catalog.MetaFile, err)
	}
	return nil
}

func readMeta(fs afero.Fs) (*catalog.DatabaseCatalog, error) {
	data, err := afero.ReadFile(fs, catalog.MetaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", catalog.MetaFile, err)
	}
	return catalog.Decode(data)
}

// flushMeta persists the catalog of the open database.
func (se *StorageEngine) flushMeta() error {
	if err := writeMeta(se.scope.fs, se.catalog); err != nil {
		se.log.Error("metadata flush failed", "db", se.currDb, "error", err)
		return err
	}
	se.log.Debug("metadata flushed", "db", se.currDb, "tables", len(se.catalog.TableNames()))
	return nil
}

// journalDDL appends a committed DDL statement to db.log. The catalog change
// is already durable when this fails.
func (se *StorageEngine) journalDDL(op string, kind ddllog.OpType, table string, cols []string) error {
	lsn, err := se.journal.Append(ddllog.Record{Op: kind, Table: table, Columns: cols})
	if err != nil {
		se.log.Error("journal append failed", "db", se.currDb, "op", kind, "table", table, "error", err)
		return dberr.Environment(op, err).WithDatabase(se.currDb).WithTable(table).
			WithDetail("catalog updated but db.log append failed")
	}
	se.log.Debug("journal appended", "db", se.currDb, "lsn", lsn, "op", kind)
	return nil
}
