package executor

import (
	"CatalogDB/display"
	"CatalogDB/query_parser/parser"
	"fmt"
)

func (e *Executor) ExecuteCreateDatabase(s *parser.CreateDatabaseStmt) error {
	if err := e.storageEngine.CreateDatabase(s.DbName); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Database %s created\n", s.DbName)
	return nil
}

func (e *Executor) ExecuteDropDatabase(s *parser.DropDatabaseStmt) error {
	if err := e.storageEngine.DropDatabase(s.DbName); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Database %s dropped\n", s.DbName)
	return nil
}

// ExecuteUseDatabase closes the open database, if any, before opening s.DbName.
func (e *Executor) ExecuteUseDatabase(s *parser.UseDatabaseStmt) error {
	se := e.storageEngine
	if cur := se.CurrentDatabase(); cur != "" {
		if cur == s.DbName {
			fmt.Fprintf(e.out, "Already using %s\n", cur)
			return nil
		}
		if err := se.CloseDatabase(); err != nil {
			return err
		}
	}
	if err := se.OpenDatabase(s.DbName); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Using database %s\n", s.DbName)
	return nil
}

func (e *Executor) ExecuteCloseDatabase() error {
	name := e.storageEngine.CurrentDatabase()
	if err := e.storageEngine.CloseDatabase(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Database %s closed\n", name)
	return nil
}

func (e *Executor) ExecuteShowDatabases() error {
	databases, err := e.storageEngine.ShowDatabases()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, display.Databases(databases, e.storageEngine.CurrentDatabase()))
	return nil
}
