package executor

import (
	"CatalogDB/display"
	"CatalogDB/query_parser/parser"
	heapfile "CatalogDB/storage_engine/access/heapfile_manager"
	"CatalogDB/storage_engine/catalog"
	"CatalogDB/types"
	"errors"
	"fmt"
)

/*
SELECT uses an index when the WHERE clause pins every column of one index
with equality; otherwise it scans the record file and filters.
*/

func (e *Executor) ExecuteSelect(s *parser.SelectStmt) error {
	se := e.storageEngine
	meta, err := se.DescribeTable(s.Table)
	if err != nil {
		return err
	}
	pred, err := buildPredicate(meta, s.Where)
	if err != nil {
		return err
	}

	var rows [][]any
	if idx, ok := coveringIndex(meta, pred); ok {
		rows, err = e.selectWithIndex(meta, idx, pred)
	} else {
		rows, err = e.selectFullScan(meta, pred)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, display.Rows(meta, rows))
	return nil
}

// coveringIndex finds an index whose columns are exactly the predicate's.
func coveringIndex(meta catalog.TableMeta, pred predicate) (catalog.IndexMeta, bool) {
	if len(pred) == 0 {
		return catalog.IndexMeta{}, false
	}
	for _, idx := range meta.Indexes {
		if len(idx.Columns) != len(pred) {
			continue
		}
		covered := true
		for _, c := range idx.Columns {
			pos := columnPos(meta, c.Name)
			if _, ok := pred[pos]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return idx, true
		}
	}
	return catalog.IndexMeta{}, false
}

func columnPos(meta catalog.TableMeta, name string) int {
	for i, c := range meta.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (e *Executor) selectWithIndex(meta catalog.TableMeta, idx catalog.IndexMeta, pred predicate) ([][]any, error) {
	cols := idx.ColumnNames()
	key := make([]any, len(cols))
	for i, name := range cols {
		key[i] = pred[columnPos(meta, name)]
	}
	e.log.Debug("index lookup", "table", meta.Name, "index", idx.String())

	rid, found, err := e.storageEngine.IndexLookup(meta.Name, cols, key)
	if err != nil || !found {
		return nil, err
	}
	row, err := e.storageEngine.GetRow(meta.Name, rid)
	if errors.Is(err, heapfile.ErrNoSuchSlot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// the row may have been deleted or rewritten since the index was built
	if !pred.matches(row) {
		return nil, nil
	}
	return [][]any{row}, nil
}

func (e *Executor) selectFullScan(meta catalog.TableMeta, pred predicate) ([][]any, error) {
	var rows [][]any
	err := e.storageEngine.ScanRows(meta.Name, func(_ types.RowPointer, values []any) error {
		if pred.matches(values) {
			rows = append(rows, values)
		}
		return nil
	})
	return rows, err
}
