package executor

import (
	"CatalogDB/display"
	"CatalogDB/query_parser/parser"
	"CatalogDB/types"
	"context"
	"fmt"
	"strings"
)

func (e *Executor) ExecuteCreateTable(s *parser.CreateTableStmt) error {
	defs := make([]types.ColumnDef, len(s.Columns))
	for i, c := range s.Columns {
		typ, err := types.ParseColumnType(c.Type)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
		defs[i] = types.ColumnDef{Name: c.Name, Type: typ, Len: c.Len}
	}
	if err := e.storageEngine.CreateTable(s.TableName, defs); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Table %s created\n", s.TableName)
	return nil
}

func (e *Executor) ExecuteDropTable(ctx context.Context, s *parser.DropTableStmt) error {
	if err := e.storageEngine.DropTable(ctx, s.Table); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Table %s dropped\n", s.Table)
	return nil
}

func (e *Executor) ExecuteShowTables() error {
	se := e.storageEngine
	names, err := se.ListTables()
	if err != nil {
		return err
	}
	summaries := make([]display.TableSummary, 0, len(names))
	for _, name := range names {
		meta, err := se.DescribeTable(name)
		if err != nil {
			return err
		}
		size, err := se.TableFileSize(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, display.TableSummary{
			Name:    name,
			Columns: len(meta.Columns),
			RowLen:  meta.RowLen(),
			Indexes: len(meta.Indexes),
			Size:    size,
		})
	}
	fmt.Fprintln(e.out, display.Tables(se.CurrentDatabase(), summaries))
	return nil
}

func (e *Executor) ExecuteShowHistory() error {
	recs, err := e.storageEngine.DDLHistory()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, display.History(e.storageEngine.CurrentDatabase(), recs))
	return nil
}

func (e *Executor) ExecuteDescribeTable(s *parser.DescribeTableStmt) error {
	meta, err := e.storageEngine.DescribeTable(s.Table)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, display.Describe(meta))
	return nil
}

func (e *Executor) ExecuteCreateIndex(ctx context.Context, s *parser.CreateIndexStmt) error {
	if err := e.storageEngine.CreateIndex(ctx, s.Table, s.Columns); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Index on %s(%s) created\n", s.Table, strings.Join(s.Columns, ", "))
	return nil
}

func (e *Executor) ExecuteDropIndex(ctx context.Context, s *parser.DropIndexStmt) error {
	if err := e.storageEngine.DropIndex(ctx, s.Table, s.Columns); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Index on %s(%s) dropped\n", s.Table, strings.Join(s.Columns, ", "))
	return nil
}
