package display

import (
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	"CatalogDB/types"
	"strings"
	"testing"
	"time"
)

func TestDatabasesMarksCurrent(t *testing.T) {
	out := Databases([]string{"alpha", "beta"}, "beta")
	for _, want := range []string{"Database", "alpha", "beta", "*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
	if !strings.Contains(Databases(nil, ""), "no databases") {
		t.Fatalf("empty listing not reported")
	}
}

func TestTablesHumanizesSizes(t *testing.T) {
	out := Tables("shop", []TableSummary{{Name: "orders", Columns: 3, RowLen: 1200, Indexes: 1, Size: 3 * 4096}})
	for _, want := range []string{"Tables in shop", "orders", "1,200", "12 KiB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}

func TestDescribeShowsColumnsAndIndexes(t *testing.T) {
	meta, err := catalog.NewTableMeta("t", []types.ColumnDef{
		{Name: "id", Type: types.TypeInt},
		{Name: "name", Type: types.TypeString, Len: 10},
	})
	if err != nil {
		t.Fatalf("NewTableMeta: %v", err)
	}
	meta.Indexes = []catalog.IndexMeta{catalog.NewIndexMeta("t", meta.Columns[:1])}
	meta.Columns[0].Indexed = true

	out := Describe(meta)
	for _, want := range []string{"Table t", "14 B", "id", "INT", "STRING", "yes", "Index columns"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}

func TestRowsAndFormatting(t *testing.T) {
	meta, _ := catalog.NewTableMeta("t", []types.ColumnDef{
		{Name: "a", Type: types.TypeInt},
		{Name: "f", Type: types.TypeFloat},
	})
	out := Rows(meta, [][]any{{int32(1), float32(2.5)}, {int32(2), nil}})
	for _, want := range []string{"a", "f", "2.5", "NULL", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
	if got := Count(1, "entry", "entries"); !strings.Contains(got, "1 entry") {
		t.Fatalf("Count = %q", got)
	}
	if got := Count(12000, "entry", "entries"); !strings.Contains(got, "12,000 entries") {
		t.Fatalf("Count = %q", got)
	}
}

func TestIndexDecodesKeys(t *testing.T) {
	cols := []indexfile.KeyColumn{{Name: "id", Type: types.TypeInt, Len: 4}}
	key, err := types.EncodeValue(types.TypeInt, 4, int32(42))
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	d := &indexfile.Dump{
		Name:     "t-id",
		Table:    "t",
		Columns:  cols,
		KeyLen:   4,
		FileSize: 8192,
		Entries:  []indexfile.Entry{{Key: key, RID: types.RowPointer{PageNumber: 3, SlotIndex: 7}}},
	}
	out := Index(d)
	for _, want := range []string{"Index t-id on t", "8.0 KiB", "id", "RID", "42", "(3,7)", "1 entry"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}

func TestHistoryShowsOperations(t *testing.T) {
	out := History("shop", []ddllog.Record{
		{LSN: 1, Op: ddllog.OpCreateDatabase, At: time.Now().Add(-2 * time.Hour)},
		{LSN: 2, Op: ddllog.OpCreateIndex, Table: "items", Columns: []string{"id", "name"}, At: time.Now()},
	})
	for _, want := range []string{"DDL history of shop", "CREATE_DATABASE", "CREATE_INDEX", "id, name", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}
