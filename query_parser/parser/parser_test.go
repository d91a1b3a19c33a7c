package parser

import (
	lex "CatalogDB/query_parser/lexer"
	"errors"
	"reflect"
	"testing"
)

// TestParseStatement_InvalidInput_ReturnsError ensures invalid input returns an error instead of panicking.
func TestParseStatement_InvalidInput_ReturnsError(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing FROM", "SELECT * students"},
		{"USE with number", "USE 123"},
		{"INSERT missing VALUES", `INSERT INTO students ("S001", "Alice")`},
		{"INSERT missing parens", `INSERT INTO students VALUES "S001", "Alice"`},
		{"CREATE TABLE missing paren", "CREATE TABLE students id int"},
		{"WHERE without value", "SELECT * FROM students WHERE id"},
		{"CREATE INDEX without columns", "CREATE INDEX students"},
		{"DROP INDEX empty list", "DROP INDEX students ()"},
		{"unterminated string", `INSERT INTO t VALUES ("abc)`},
		{"trailing garbage", "SHOW TABLES now"},
		{"CREATE what", "CREATE VIEW v"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err == nil {
				t.Errorf("Parse(%q) expected error, got stmt %#v", tt.input, stmt)
			}
		})
	}
}

func TestParseStatement_Empty(t *testing.T) {
	if _, err := Parse("   "); !errors.Is(err, ErrEmptyStatement) {
		t.Fatalf("expected ErrEmptyStatement, got %v", err)
	}
}

func TestParseStatement_ValidInput(t *testing.T) {
	tests := []struct {
		input string
		want  Statement
	}{
		{"SHOW DATABASES", &ShowDatabasesStmt{}},
		{"show tables;", &ShowTablesStmt{}},
		{"SHOW HISTORY", &ShowHistoryStmt{}},
		{"USE demo", &UseDatabaseStmt{DbName: "demo"}},
		{"CLOSE DATABASE", &CloseDatabaseStmt{}},
		{"close", &CloseDatabaseStmt{}},
		{"CREATE DATABASE test_db1", &CreateDatabaseStmt{DbName: "test_db1"}},
		{"DROP DATABASE test_db1", &DropDatabaseStmt{DbName: "test_db1"}},
		{"DESC students", &DescribeTableStmt{Table: "students"}},
		{"describe table students", &DescribeTableStmt{Table: "students"}},
		{
			"CREATE TABLE students (id INT, name CHAR(20), gpa FLOAT)",
			&CreateTableStmt{TableName: "students", Columns: []ColumnDef{
				{Name: "id", Type: "INT"},
				{Name: "name", Type: "CHAR", Len: 20},
				{Name: "gpa", Type: "FLOAT"},
			}},
		},
		{"DROP TABLE students", &DropTableStmt{Table: "students"}},
		{"CREATE INDEX students (id, name)", &CreateIndexStmt{Table: "students", Columns: []string{"id", "name"}}},
		{"DROP INDEX students (name)", &DropIndexStmt{Table: "students", Columns: []string{"name"}}},
		{
			`INSERT INTO students VALUES (-7, "Alice", 3.5)`,
			&InsertStmt{Table: "students", Values: []Literal{
				{Kind: lex.INT, Value: "-7"},
				{Kind: lex.STRING, Value: "Alice"},
				{Kind: lex.FLOAT, Value: "3.5"},
			}},
		},
		{"SELECT * FROM students", &SelectStmt{Table: "students"}},
		{
			`SELECT * FROM students WHERE id = 1 AND name = 'Bob'`,
			&SelectStmt{Table: "students", Where: []Condition{
				{Column: "id", Value: Literal{Kind: lex.INT, Value: "1"}},
				{Column: "name", Value: Literal{Kind: lex.STRING, Value: "Bob"}},
			}},
		},
		{
			"DELETE FROM students WHERE id = 3",
			&DeleteStmt{Table: "students", Where: []Condition{
				{Column: "id", Value: Literal{Kind: lex.INT, Value: "3"}},
			}},
		},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}
