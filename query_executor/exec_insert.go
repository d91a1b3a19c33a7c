package executor

import (
	"CatalogDB/display"
	"CatalogDB/query_parser/parser"
	"CatalogDB/types"
	"fmt"
)

/*
INSERT and DELETE only touch the record file. Indexes reflect the rows that
existed when they were built; rebuild one with DROP INDEX / CREATE INDEX.
*/

func (e *Executor) ExecuteInsert(s *parser.InsertStmt) error {
	meta, err := e.storageEngine.DescribeTable(s.Table)
	if err != nil {
		return err
	}
	values, err := rowValues(meta, s.Values)
	if err != nil {
		return err
	}
	rid, err := e.storageEngine.InsertRow(s.Table, values)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Inserted row %s\n", rid)
	return nil
}

func (e *Executor) ExecuteDelete(s *parser.DeleteStmt) error {
	se := e.storageEngine
	meta, err := se.DescribeTable(s.Table)
	if err != nil {
		return err
	}
	pred, err := buildPredicate(meta, s.Where)
	if err != nil {
		return err
	}

	// collect first; ScanRows holds the engine while it runs
	var doomed []types.RowPointer
	err = se.ScanRows(s.Table, func(rid types.RowPointer, values []any) error {
		if pred.matches(values) {
			doomed = append(doomed, rid)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, rid := range doomed {
		if err := se.DeleteRow(s.Table, rid); err != nil {
			return err
		}
	}
	fmt.Fprintln(e.out, display.Count(len(doomed), "row deleted", "rows deleted"))
	return nil
}
