package executor

/*
this file executes the parser output: one statement at a time, dispatched on
its type to the storage engine.

 Executor - turns statements into engine calls, does NOT write to disk
     ↓
     StorageEngine
         ├─→ catalog      (db.meta)
         ├─→ HeapFileManager  (<table>.heap)
         └─→ IndexFileManager (<table>-<cols>.idx)
*/

import (
	"CatalogDB/logging"
	"CatalogDB/query_parser/parser"
	storageengine "CatalogDB/storage_engine"
	"context"
	"fmt"
	"io"
)

func NewExecutor(se *storageengine.StorageEngine, out io.Writer) *Executor {
	return &Executor{
		storageEngine: se,
		out:           out,
		log:           logging.WithComponent("executor"),
	}
}

// Run parses and executes one statement.
func (e *Executor) Run(ctx context.Context, input string) error {
	stmt, err := parser.Parse(input)
	if err != nil {
		return err
	}
	return e.Execute(ctx, stmt)
}

func (e *Executor) Execute(ctx context.Context, stmt parser.Statement) error {
	e.log.Debug("executing", "statement", fmt.Sprintf("%T", stmt))

	switch s := stmt.(type) {
	case *parser.CreateDatabaseStmt:
		return e.ExecuteCreateDatabase(s)
	case *parser.DropDatabaseStmt:
		return e.ExecuteDropDatabase(s)
	case *parser.UseDatabaseStmt:
		return e.ExecuteUseDatabase(s)
	case *parser.CloseDatabaseStmt:
		return e.ExecuteCloseDatabase()
	case *parser.ShowDatabasesStmt:
		return e.ExecuteShowDatabases()
	case *parser.ShowTablesStmt:
		return e.ExecuteShowTables()
	case *parser.ShowHistoryStmt:
		return e.ExecuteShowHistory()
	case *parser.DescribeTableStmt:
		return e.ExecuteDescribeTable(s)
	case *parser.CreateTableStmt:
		return e.ExecuteCreateTable(s)
	case *parser.DropTableStmt:
		return e.ExecuteDropTable(ctx, s)
	case *parser.CreateIndexStmt:
		return e.ExecuteCreateIndex(ctx, s)
	case *parser.DropIndexStmt:
		return e.ExecuteDropIndex(ctx, s)
	case *parser.InsertStmt:
		return e.ExecuteInsert(s)
	case *parser.SelectStmt:
		return e.ExecuteSelect(s)
	case *parser.DeleteStmt:
		return e.ExecuteDelete(s)
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}
