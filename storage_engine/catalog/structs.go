package catalog

import (
	types "CatalogDB/types"
)

// DatabaseCatalog is the in-memory catalog of one database.
// Table lookup is by case-sensitive name; order keeps creation order for display.
type DatabaseCatalog struct {
	ID     string
	Name   string
	tables map[string]*TableMeta
	order  []string
	gens   map[string]uint64 // table -> generation, see ColumnCache
}

// TableMeta describes one table: its columns in order and its indexes.
type TableMeta struct {
	Name    string       `json:"name"`
	Columns []ColumnMeta `json:"columns"`
	Indexes []IndexMeta  `json:"indexes"`
}

// ColumnMeta is a column as stored: Offset is the byte offset inside the
// fixed-length record and Indexed is set when some index covers the column.
type ColumnMeta struct {
	Table   string           `json:"table"`
	Name    string           `json:"name"`
	Type    types.ColumnType `json:"type"`
	Len     int              `json:"len"`
	Offset  int              `json:"offset"`
	Indexed bool             `json:"indexed"`
}

// IndexMeta describes one index. Two indexes are the same index when table
// and ordered column names match.
type IndexMeta struct {
	Table    string       `json:"table"`
	Columns  []ColumnMeta `json:"columns"`
	KeyLen   int          `json:"key_len"`
	ColCount int          `json:"col_count"`
}

// file names inside a database directory
const (
	MetaFile = "db.meta"
	LogFile  = "db.log"
)
