package catalog

import (
	"CatalogDB/dberr"
	"CatalogDB/types"
	"errors"
	"reflect"
	"testing"
)

func mustTable(t *testing.T, name string, defs ...types.ColumnDef) TableMeta {
	t.Helper()
	meta, err := NewTableMeta(name, defs)
	if err != nil {
		t.Fatalf("NewTableMeta(%s): %v", name, err)
	}
	return meta
}

func TestNewTableMetaOffsets(t *testing.T) {
	meta := mustTable(t, "t",
		types.ColumnDef{Name: "a", Type: types.TypeInt},
		types.ColumnDef{Name: "b", Type: types.TypeString, Len: 4},
	)
	if meta.Columns[0].Offset != 0 || meta.Columns[1].Offset != 4 {
		t.Fatalf("offsets = %d,%d want 0,4", meta.Columns[0].Offset, meta.Columns[1].Offset)
	}
	if meta.RowLen() != 8 {
		t.Fatalf("RowLen = %d, want 8", meta.RowLen())
	}
	for _, c := range meta.Columns {
		if c.Table != "t" || c.Indexed {
			t.Fatalf("column %+v", c)
		}
	}
}

func TestNewTableMetaRejects(t *testing.T) {
	cases := []struct {
		name string
		tbl  string
		defs []types.ColumnDef
	}{
		{"no columns", "t", nil},
		{"bad table name", "my-table", []types.ColumnDef{{Name: "a", Type: types.TypeInt}}},
		{"bad column name", "t", []types.ColumnDef{{Name: "1a", Type: types.TypeInt}}},
		{"duplicate column", "t", []types.ColumnDef{{Name: "a", Type: types.TypeInt}, {Name: "a", Type: types.TypeFloat}}},
		{"wrong int width", "t", []types.ColumnDef{{Name: "a", Type: types.TypeInt, Len: 2}}},
		{"zero string", "t", []types.ColumnDef{{Name: "s", Type: types.TypeString}}},
		{"invalid type", "t", []types.ColumnDef{{Name: "a"}}},
		{"row too long", "t", []types.ColumnDef{
			{Name: "a", Type: types.TypeString, Len: 255}, {Name: "b", Type: types.TypeString, Len: 255},
			{Name: "c", Type: types.TypeString, Len: 255}, {Name: "d", Type: types.TypeString, Len: 255},
			{Name: "e", Type: types.TypeString, Len: 255}, {Name: "f", Type: types.TypeString, Len: 255},
			{Name: "g", Type: types.TypeString, Len: 255}, {Name: "h", Type: types.TypeString, Len: 255},
			{Name: "i", Type: types.TypeString, Len: 255}, {Name: "j", Type: types.TypeString, Len: 255},
			{Name: "k", Type: types.TypeString, Len: 255}, {Name: "l", Type: types.TypeString, Len: 255},
			{Name: "m", Type: types.TypeString, Len: 255}, {Name: "n", Type: types.TypeString, Len: 255},
			{Name: "o", Type: types.TypeString, Len: 255}, {Name: "p", Type: types.TypeString, Len: 255},
			{Name: "q", Type: types.TypeString, Len: 255},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTableMeta(tc.tbl, tc.defs)
			if !errors.Is(err, dberr.ErrInvalidDefinition) {
				t.Fatalf("expected InvalidDefinition, got %v", err)
			}
		})
	}
}

func TestAddRemoveTableKeepsOrder(t *testing.T) {
	c := NewDatabaseCatalog("db")
	for _, n := range []string{"c", "a", "b"} {
		if err := c.AddTable(mustTable(t, n, types.ColumnDef{Name: "x", Type: types.TypeInt})); err != nil {
			t.Fatalf("AddTable(%s): %v", n, err)
		}
	}
	err := c.AddTable(mustTable(t, "a", types.ColumnDef{Name: "x", Type: types.TypeInt}))
	if !errors.Is(err, dberr.ErrTableExists) {
		t.Fatalf("expected TableExists, got %v", err)
	}
	if got := c.TableNames(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("TableNames = %v", got)
	}
	if err := c.RemoveTable("a"); err != nil {
		t.Fatalf("RemoveTable: %v", err)
	}
	if got := c.TableNames(); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("TableNames after remove = %v", got)
	}
	if err := c.RemoveTable("a"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}
}

func TestIndexedFlagFollowsIndexes(t *testing.T) {
	c := NewDatabaseCatalog("db")
	c.AddTable(mustTable(t, "t",
		types.ColumnDef{Name: "a", Type: types.TypeInt},
		types.ColumnDef{Name: "b", Type: types.TypeInt},
		types.ColumnDef{Name: "c", Type: types.TypeInt},
	))
	tbl, _ := c.Table("t")

	ab := NewIndexMeta("t", []ColumnMeta{tbl.Columns[0], tbl.Columns[1]})
	bc := NewIndexMeta("t", []ColumnMeta{tbl.Columns[1], tbl.Columns[2]})
	if ab.KeyLen != 8 || ab.ColCount != 2 {
		t.Fatalf("index meta %+v", ab)
	}
	if err := c.AddIndex(ab); err != nil {
		t.Fatalf("AddIndex: %v", err)
	}
	if err := c.AddIndex(ab); !errors.Is(err, dberr.ErrIndexExists) {
		t.Fatalf("expected IndexExists, got %v", err)
	}
	c.AddIndex(bc)

	flags := func() []bool {
		tbl, _ := c.TableCopy("t")
		return []bool{tbl.Columns[0].Indexed, tbl.Columns[1].Indexed, tbl.Columns[2].Indexed}
	}
	if got := flags(); !reflect.DeepEqual(got, []bool{true, true, true}) {
		t.Fatalf("flags = %v", got)
	}
	if err := c.RemoveIndex("t", []string{"a", "b"}); err != nil {
		t.Fatalf("RemoveIndex: %v", err)
	}
	if got := flags(); !reflect.DeepEqual(got, []bool{false, true, true}) {
		t.Fatalf("flags after drop = %v", got)
	}
	if err := c.RemoveIndex("t", []string{"b", "a"}); !errors.Is(err, dberr.ErrIndexNotFound) {
		t.Fatalf("expected IndexNotFound, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := NewDatabaseCatalog("shop")
	c.AddTable(mustTable(t, "orders",
		types.ColumnDef{Name: "id", Type: types.TypeBigInt},
		types.ColumnDef{Name: "price", Type: types.TypeFloat},
		types.ColumnDef{Name: "sku", Type: types.TypeString, Len: 12},
	))
	c.AddTable(mustTable(t, "items", types.ColumnDef{Name: "n", Type: types.TypeInt}))
	orders, _ := c.Table("orders")
	c.AddIndex(NewIndexMeta("orders", []ColumnMeta{orders.Columns[2], orders.Columns[0]}))

	data, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != c.ID || got.Name != c.Name {
		t.Fatalf("identity changed: %s/%s -> %s/%s", c.ID, c.Name, got.ID, got.Name)
	}
	if !reflect.DeepEqual(got.Tables(), c.Tables()) {
		t.Fatalf("tables differ after round trip:\n%+v\n%+v", got.Tables(), c.Tables())
	}
}

func TestDecodeRejectsInconsistentMeta(t *testing.T) {
	bad := []string{
		`not json`,
		`{"id":"x","tables":[]}`,
		`{"name":"db","tables":[{"name":"t","columns":[{"table":"t","name":"a","type":"INT","len":4,"offset":2}]}]}`,
		`{"name":"db","tables":[{"name":"t","columns":[{"table":"t","name":"a","type":"INT","len":4,"offset":0}],
		  "indexes":[{"table":"t","columns":[{"table":"t","name":"zz","type":"INT","len":4,"offset":0}],"key_len":4,"col_count":1}]}]}`,
	}
	for i, s := range bad {
		if _, err := Decode([]byte(s)); err == nil {
			t.Fatalf("case %d: expected decode error", i)
		}
	}
}

func TestColumnCacheGenerations(t *testing.T) {
	cc, err := NewColumnCache(128)
	if err != nil {
		t.Fatalf("NewColumnCache: %v", err)
	}
	defer cc.Close()

	c := NewDatabaseCatalog("db")
	c.AddTable(mustTable(t, "t", types.ColumnDef{Name: "a", Type: types.TypeInt}))

	col, err := cc.Resolve(c, "t", "a")
	if err != nil || col.Type != types.TypeInt {
		t.Fatalf("Resolve = %+v, %v", col, err)
	}
	cc.Wait()
	if _, err := cc.Resolve(c, "t", "a"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if hits, _ := cc.Stats(); hits == 0 {
		t.Fatalf("second lookup should hit the cache")
	}

	if _, err := cc.Resolve(c, "t", "nope"); !errors.Is(err, dberr.ErrColumnNotFound) {
		t.Fatalf("expected ColumnNotFound, got %v", err)
	}
	if _, err := cc.Resolve(c, "missing", "a"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}

	// recreate t with a different type under the same column name
	c.RemoveTable("t")
	c.AddTable(mustTable(t, "t", types.ColumnDef{Name: "a", Type: types.TypeString, Len: 3}))
	col, err = cc.Resolve(c, "t", "a")
	if err != nil || col.Type != types.TypeString {
		t.Fatalf("stale column after recreate: %+v, %v", col, err)
	}
}
