package parser

import lex "CatalogDB/query_parser/lexer"

// Statement is a generic interface for all statements
type Statement interface{}

type CreateDatabaseStmt struct {
	DbName string
}

type DropDatabaseStmt struct {
	DbName string
}

type UseDatabaseStmt struct {
	DbName string
}

type CloseDatabaseStmt struct{}

type ShowDatabasesStmt struct{}

type ShowTablesStmt struct{}

// ShowHistoryStmt lists the DDL journal of the open database.
type ShowHistoryStmt struct{}

type DescribeTableStmt struct {
	Table string
}

// CREATE TABLE statement
type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

// ColumnDef is a column as written: Len is 0 unless a length was given,
// as in CHAR(20).
type ColumnDef struct {
	Name string
	Type string
	Len  int
}

type DropTableStmt struct {
	Table string
}

// CREATE INDEX t (a, b)
type CreateIndexStmt struct {
	Table   string
	Columns []string
}

// DROP INDEX t (a, b)
type DropIndexStmt struct {
	Table   string
	Columns []string
}

// Literal is a constant from the statement text.
type Literal struct {
	Kind  lex.TokenKind // INT, FLOAT or STRING
	Value string
}

// Condition is col = literal; a WHERE clause is a conjunction of them.
type Condition struct {
	Column string
	Value  Literal
}

// INSERT statement
type InsertStmt struct {
	Table  string
	Values []Literal
}

// SELECT * FROM t [WHERE ...]
type SelectStmt struct {
	Table string
	Where []Condition
}

// DELETE FROM t [WHERE ...]
type DeleteStmt struct {
	Table string
	Where []Condition
}
