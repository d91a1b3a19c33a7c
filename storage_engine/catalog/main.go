package catalog

import (
	"CatalogDB/dberr"
	types "CatalogDB/types"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
)

/*
This file is the main access of the Catalog Model.
The catalog holds the schema of every table of the open database and the
indexes defined on them. The storage engine mutates it during DDL and
persists it through Encode after every change.
*/

// generation numbers are process wide so a recreated table never reuses one
var nextGen atomic.Uint64

// NewDatabaseCatalog returns an empty catalog with a fresh identity.
func NewDatabaseCatalog(name string) *DatabaseCatalog {
	return &DatabaseCatalog{
		ID:     uuid.NewString(),
		Name:   name,
		tables: make(map[string]*TableMeta),
		gens:   make(map[string]uint64),
	}
}

// NewTableMeta validates defs and lays the columns out back to back.
func NewTableMeta(name string, defs []types.ColumnDef) (TableMeta, error) {
	const op = "CreateTable"
	if !types.ValidIdentifier(name) {
		return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).
			WithDetail("invalid table name")
	}
	if len(defs) == 0 {
		return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).
			WithDetail("a table needs at least one column")
	}

	meta := TableMeta{Name: name, Columns: make([]ColumnMeta, 0, len(defs))}
	seen := make(map[string]bool, len(defs))
	offset := 0
	for _, d := range defs {
		if !types.ValidIdentifier(d.Name) {
			return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).
				WithDetail("invalid column name %q", d.Name)
		}
		if seen[d.Name] {
			return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).
				WithDetail("duplicate column %q", d.Name)
		}
		seen[d.Name] = true

		n, err := d.ResolvedLen()
		if err != nil {
			return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).WithCause(err)
		}
		meta.Columns = append(meta.Columns, ColumnMeta{
			Table:  name,
			Name:   d.Name,
			Type:   d.Type,
			Len:    n,
			Offset: offset,
		})
		offset += n
	}
	if offset > types.MaxRecordLen {
		return TableMeta{}, dberr.New(dberr.KindInvalidDefinition, op).WithTable(name).
			WithDetail("row length %d exceeds %d", offset, types.MaxRecordLen)
	}
	return meta, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DatabaseCatalog
// ─────────────────────────────────────────────────────────────────────────────

func (c *DatabaseCatalog) TableExists(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// Table returns the live meta of a table. Callers outside the storage engine
// should use TableCopy.
func (c *DatabaseCatalog) Table(name string) (*TableMeta, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// TableCopy returns a deep copy of a table's meta.
func (c *DatabaseCatalog) TableCopy(name string) (TableMeta, bool) {
	t, ok := c.tables[name]
	if !ok {
		return TableMeta{}, false
	}
	return t.Clone(), true
}

// TableNames returns the table names in creation order.
func (c *DatabaseCatalog) TableNames() []string {
	return slices.Clone(c.order)
}

// Tables returns deep copies of every table in creation order.
func (c *DatabaseCatalog) Tables() []TableMeta {
	out := make([]TableMeta, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tables[name].Clone())
	}
	return out
}

// Clone returns a deep copy of c that shares nothing with it.
func (c *DatabaseCatalog) Clone() *DatabaseCatalog {
	out := &DatabaseCatalog{
		ID:     c.ID,
		Name:   c.Name,
		tables: make(map[string]*TableMeta, len(c.tables)),
		order:  slices.Clone(c.order),
		gens:   make(map[string]uint64, len(c.gens)),
	}
	for name, t := range c.tables {
		cp := t.Clone()
		out.tables[name] = &cp
	}
	for name, g := range c.gens {
		out.gens[name] = g
	}
	return out
}

// AddTable inserts meta. The name must not be in use.
func (c *DatabaseCatalog) AddTable(meta TableMeta) error {
	if c.TableExists(meta.Name) {
		return dberr.New(dberr.KindTableExists, "AddTable").WithDatabase(c.Name).WithTable(meta.Name)
	}
	t := meta.Clone()
	t.refreshIndexed()
	c.tables[t.Name] = &t
	c.order = append(c.order, t.Name)
	c.touch(t.Name)
	return nil
}

// RemoveTable drops a table's meta.
func (c *DatabaseCatalog) RemoveTable(name string) error {
	if !c.TableExists(name) {
		return dberr.New(dberr.KindTableNotFound, "RemoveTable").WithDatabase(c.Name).WithTable(name)
	}
	delete(c.tables, name)
	delete(c.gens, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	return nil
}

// AddIndex appends idx to its table and refreshes the Indexed flags.
func (c *DatabaseCatalog) AddIndex(idx IndexMeta) error {
	t, ok := c.tables[idx.Table]
	if !ok {
		return dberr.New(dberr.KindTableNotFound, "AddIndex").WithDatabase(c.Name).WithTable(idx.Table)
	}
	if t.IndexPos(idx.ColumnNames()) >= 0 {
		return dberr.New(dberr.KindIndexExists, "AddIndex").WithTable(idx.Table).WithColumns(idx.ColumnNames())
	}
	t.Indexes = append(t.Indexes, idx.Clone())
	t.refreshIndexed()
	c.touch(t.Name)
	return nil
}

// RemoveIndex removes the index of table over cols and refreshes the Indexed flags.
func (c *DatabaseCatalog) RemoveIndex(table string, cols []string) error {
	t, ok := c.tables[table]
	if !ok {
		return dberr.New(dberr.KindTableNotFound, "RemoveIndex").WithDatabase(c.Name).WithTable(table)
	}
	i := t.IndexPos(cols)
	if i < 0 {
		return dberr.New(dberr.KindIndexNotFound, "RemoveIndex").WithTable(table).WithColumns(cols)
	}
	t.Indexes = slices.Delete(t.Indexes, i, i+1)
	t.refreshIndexed()
	c.touch(t.Name)
	return nil
}

// Generation returns the current generation of a table, 0 if unknown.
func (c *DatabaseCatalog) Generation(table string) uint64 {
	return c.gens[table]
}

// touch gives a table a new generation; cached lookups under the old one
// become unreachable.
func (c *DatabaseCatalog) touch(table string) {
	c.gens[table] = nextGen.Add(1)
}

// ─────────────────────────────────────────────────────────────────────────────
// TableMeta / IndexMeta
// ─────────────────────────────────────────────────────────────────────────────

// RowLen is the fixed record length of the table.
func (t *TableMeta) RowLen() int {
	n := 0
	for _, c := range t.Columns {
		n += c.Len
	}
	return n
}

// Column looks a column up by name.
func (t *TableMeta) Column(name string) (ColumnMeta, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

func (t *TableMeta) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// IndexPos returns the position of the index over cols, or -1.
func (t *TableMeta) IndexPos(cols []string) int {
	for i, idx := range t.Indexes {
		if slices.Equal(idx.ColumnNames(), cols) {
			return i
		}
	}
	return -1
}

func (t *TableMeta) refreshIndexed() {
	covered := make(map[string]bool)
	for _, idx := range t.Indexes {
		for _, c := range idx.Columns {
			covered[c.Name] = true
		}
	}
	for i := range t.Columns {
		t.Columns[i].Indexed = covered[t.Columns[i].Name]
	}
}

func (t TableMeta) Clone() TableMeta {
	out := TableMeta{Name: t.Name, Columns: slices.Clone(t.Columns)}
	if t.Indexes != nil {
		out.Indexes = make([]IndexMeta, len(t.Indexes))
		for i, idx := range t.Indexes {
			out.Indexes[i] = idx.Clone()
		}
	}
	return out
}

// NewIndexMeta builds the meta of an index over cols of table.
func NewIndexMeta(table string, cols []ColumnMeta) IndexMeta {
	idx := IndexMeta{Table: table, Columns: slices.Clone(cols), ColCount: len(cols)}
	for _, c := range cols {
		idx.KeyLen += c.Len
	}
	return idx
}

func (idx IndexMeta) ColumnNames() []string {
	names := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		names[i] = c.Name
	}
	return names
}

func (idx IndexMeta) Clone() IndexMeta {
	idx.Columns = slices.Clone(idx.Columns)
	return idx
}

// Equal reports whether two metas describe the same index.
func (idx IndexMeta) Equal(o IndexMeta) bool {
	return idx.Table == o.Table && slices.Equal(idx.ColumnNames(), o.ColumnNames())
}

func (idx IndexMeta) String() string {
	return fmt.Sprintf("%s(%v)", idx.Table, idx.ColumnNames())
}
