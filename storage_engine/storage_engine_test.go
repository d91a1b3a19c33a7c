package storageengine

import (
	"CatalogDB/config"
	"CatalogDB/dberr"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	lockmanager "CatalogDB/storage_engine/lock_manager"
	"CatalogDB/types"
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newEngine(t *testing.T, opts ...Option) (*StorageEngine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.BufferPoolPages = 16
	se, err := NewStorageEngine(cfg, fs, opts...)
	if err != nil {
		t.Fatalf("NewStorageEngine: %v", err)
	}
	t.Cleanup(func() { _ = se.Shutdown() })
	return se, fs
}

// openFresh creates and opens database db.
func openFresh(t *testing.T, se *StorageEngine, db string) {
	t.Helper()
	if err := se.CreateDatabase(db); err != nil {
		t.Fatalf("CreateDatabase(%s): %v", db, err)
	}
	if err := se.OpenDatabase(db); err != nil {
		t.Fatalf("OpenDatabase(%s): %v", db, err)
	}
}

func exists(t *testing.T, fs afero.Fs, parts ...string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path.Join(append([]string{"databases"}, parts...)...))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	return ok
}

func mustKind(t *testing.T, err error, want *dberr.Error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %s, got %v", want.Kind, err)
	}
}

var twoInts = []types.ColumnDef{
	{Name: "a", Type: types.TypeInt},
	{Name: "b", Type: types.TypeInt},
}

func TestCreateOpenGivesEmptyCatalog(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "shop")

	cat, err := se.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if cat.Name != "shop" || cat.ID == "" || len(cat.TableNames()) != 0 {
		t.Fatalf("unexpected catalog: name=%q id=%q tables=%v", cat.Name, cat.ID, cat.TableNames())
	}
	if se.CurrentDatabase() != "shop" {
		t.Fatalf("current database = %q", se.CurrentDatabase())
	}
	if !exists(t, fs, "shop", catalog.MetaFile) || !exists(t, fs, "shop", catalog.LogFile) {
		t.Fatalf("database files missing")
	}
	mustKind(t, se.CreateDatabase("shop"), dberr.ErrDatabaseExists)
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry: %v", err)
	}
}

func TestDatabaseLifecycleErrors(t *testing.T) {
	se, _ := newEngine(t)

	mustKind(t, se.OpenDatabase("nope"), dberr.ErrDatabaseNotFound)
	mustKind(t, se.DropDatabase("nope"), dberr.ErrDatabaseNotFound)
	mustKind(t, se.CloseDatabase(), dberr.ErrNoDatabaseOpen)
	mustKind(t, se.CreateTable("t", twoInts), dberr.ErrNoDatabaseOpen)
	mustKind(t, se.CreateDatabase("bad-name"), dberr.ErrInvalidDefinition)

	openFresh(t, se, "one")
	if err := se.CreateDatabase("two"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	mustKind(t, se.OpenDatabase("two"), dberr.ErrDatabaseExists)
	mustKind(t, se.DropDatabase("one"), dberr.ErrDatabaseInUse)

	if err := se.CloseDatabase(); err != nil {
		t.Fatalf("CloseDatabase: %v", err)
	}
	if err := se.DropDatabase("one"); err != nil {
		t.Fatalf("DropDatabase: %v", err)
	}
	dbs, err := se.ShowDatabases()
	if err != nil {
		t.Fatalf("ShowDatabases: %v", err)
	}
	if len(dbs) != 1 || dbs[0] != "two" {
		t.Fatalf("databases = %v", dbs)
	}
}

func TestCreateTableLaysOutColumns(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")

	defs := []types.ColumnDef{{Name: "a", Type: types.TypeInt}, {Name: "b", Type: types.TypeFloat}}
	if err := se.CreateTable("t", defs); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	meta, err := se.DescribeTable("t")
	if err != nil {
		t.Fatalf("DescribeTable: %v", err)
	}
	if meta.Columns[0].Offset != 0 || meta.Columns[1].Offset != 4 || meta.RowLen() != 8 {
		t.Fatalf("bad layout: %+v", meta.Columns)
	}
	col, err := se.ResolveColumn("t", "b")
	if err != nil || col.Offset != 4 || col.Type != types.TypeFloat {
		t.Fatalf("ResolveColumn = %+v, %v", col, err)
	}
	_, err = se.ResolveColumn("t", "zz")
	mustKind(t, err, dberr.ErrColumnNotFound)
	if !exists(t, fs, "db", "t.heap") {
		t.Fatalf("record file missing")
	}
}

func TestDuplicateTableRejected(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	mustKind(t, se.CreateTable("t", twoInts), dberr.ErrTableExists)
	names, _ := se.ListTables()
	if len(names) != 1 {
		t.Fatalf("tables = %v", names)
	}
}

func TestInvalidTableLeavesNoFile(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")

	defs := []types.ColumnDef{{Name: "a", Type: types.TypeInt}, {Name: "a", Type: types.TypeInt}}
	mustKind(t, se.CreateTable("t", defs), dberr.ErrInvalidDefinition)
	if exists(t, fs, "db", "t.heap") {
		t.Fatalf("record file created for rejected table")
	}
	if names, _ := se.ListTables(); len(names) != 0 {
		t.Fatalf("tables = %v", names)
	}
}

func insertInts(t *testing.T, se *StorageEngine, table string, rows ...[2]int) []types.RowPointer {
	t.Helper()
	rids := make([]types.RowPointer, len(rows))
	for i, r := range rows {
		rid, err := se.InsertRow(table, []any{r[0], r[1]})
		if err != nil {
			t.Fatalf("InsertRow(%v): %v", r, err)
		}
		rids[i] = rid
	}
	return rids
}

func TestDuplicateKeyBuildRollsBack(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	rids := insertInts(t, se, "t", [2]int{1, 10}, [2]int{2, 20}, [2]int{1, 30})

	before, _ := se.Catalog()
	beforeBytes, _ := catalog.Encode(before)

	mustKind(t, se.CreateIndex(ctx, "t", []string{"a"}), dberr.ErrDuplicateKey)
	if exists(t, fs, "db", "t-a.idx") {
		t.Fatalf("partial index left on disk")
	}
	after, _ := se.Catalog()
	afterBytes, _ := catalog.Encode(after)
	if !bytes.Equal(beforeBytes, afterBytes) {
		t.Fatalf("catalog changed by failed build:\n%s\n%s", beforeBytes, afterBytes)
	}
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry: %v", err)
	}

	if err := se.DeleteRow("t", rids[2]); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if err := se.CreateIndex(ctx, "t", []string{"a"}); err != nil {
		t.Fatalf("CreateIndex after removing duplicate: %v", err)
	}
	entries, err := se.IndexEntries("t", []string{"a"})
	if err != nil || len(entries) != 2 {
		t.Fatalf("entries = %d, %v", len(entries), err)
	}
	col, _ := se.ResolveColumn("t", "a")
	if !col.Indexed {
		t.Fatalf("column a not marked indexed")
	}
}

func TestIndexBuildMapsEveryRow(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	const n = 500
	keys := rand.New(rand.NewSource(7)).Perm(n)
	want := make(map[int]types.RowPointer, n)
	for _, k := range keys {
		rid, err := se.InsertRow("t", []any{k, k * 2})
		if err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
		want[k] = rid
	}

	if err := se.CreateIndex(context.Background(), "t", []string{"a"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	entries, err := se.IndexEntries("t", []string{"a"})
	if err != nil {
		t.Fatalf("IndexEntries: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("index has %d entries, want %d", len(entries), n)
	}
	for k, rid := range want {
		got, found, err := se.IndexLookup("t", []string{"a"}, []any{k})
		if err != nil || !found || got != rid {
			t.Fatalf("lookup %d = %v %v %v, want %v", k, got, found, err, rid)
		}
	}
	if _, found, _ := se.IndexLookup("t", []string{"a"}, []any{n + 1}); found {
		t.Fatalf("found a key that was never inserted")
	}
	stats, _ := se.BufferPoolStats()
	if stats.PinnedPages != 0 {
		t.Fatalf("%d pages left pinned", stats.PinnedPages)
	}
}

func TestCreateIndexRejects(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	defs := []types.ColumnDef{
		{Name: "a", Type: types.TypeInt},
		{Name: "s", Type: types.TypeString, Len: 200},
		{Name: "u", Type: types.TypeString, Len: 200},
	}
	if err := se.CreateTable("t", defs); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if err := se.CreateIndex(ctx, "t", []string{"a"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	cases := []struct {
		name  string
		table string
		cols  []string
		want  *dberr.Error
	}{
		{"unknown table", "nope", []string{"a"}, dberr.ErrTableNotFound},
		{"no columns", "t", nil, dberr.ErrInvalidDefinition},
		{"unknown column", "t", []string{"zz"}, dberr.ErrColumnNotFound},
		{"repeated column", "t", []string{"a", "a"}, dberr.ErrInvalidDefinition},
		{"key too wide", "t", []string{"s", "u"}, dberr.ErrInvalidDefinition},
		{"exists", "t", []string{"a"}, dberr.ErrIndexExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustKind(t, se.CreateIndex(ctx, tc.table, tc.cols), tc.want)
		})
	}
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry: %v", err)
	}
}

func TestIndexIdentityIsOrderSensitive(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	insertInts(t, se, "t", [2]int{1, 2}, [2]int{2, 1})
	if err := se.CreateIndex(ctx, "t", []string{"a", "b"}); err != nil {
		t.Fatalf("CreateIndex(a,b): %v", err)
	}
	if err := se.CreateIndex(ctx, "t", []string{"b", "a"}); err != nil {
		t.Fatalf("CreateIndex(b,a): %v", err)
	}
	if !exists(t, fs, "db", "t-a-b.idx") || !exists(t, fs, "db", "t-b-a.idx") {
		t.Fatalf("index files missing")
	}
	meta, _ := se.DescribeTable("t")
	if len(meta.Indexes) != 2 {
		t.Fatalf("indexes = %v", meta.Indexes)
	}
}

func TestDropIndex(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if err := se.CreateIndex(ctx, "t", []string{"b"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if err := se.CreateTable("u", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	foreign, _ := se.ResolveColumn("u", "b")
	mustKind(t, se.DropIndexByColumns(ctx, "t", []catalog.ColumnMeta{foreign}), dberr.ErrInvalidDefinition)
	if !exists(t, fs, "db", "t-b.idx") {
		t.Fatalf("index dropped through a column of another table")
	}

	col, _ := se.ResolveColumn("t", "b")
	if err := se.DropIndexByColumns(ctx, "t", []catalog.ColumnMeta{col}); err != nil {
		t.Fatalf("DropIndexByColumns: %v", err)
	}
	if exists(t, fs, "db", "t-b.idx") {
		t.Fatalf("index file still present")
	}
	col, _ = se.ResolveColumn("t", "b")
	if col.Indexed {
		t.Fatalf("column b still marked indexed")
	}
	mustKind(t, se.DropIndex(ctx, "t", []string{"b"}), dberr.ErrIndexNotFound)
	mustKind(t, se.DropIndex(ctx, "nope", []string{"b"}), dberr.ErrTableNotFound)
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry: %v", err)
	}
}

func TestDropTableRemovesFilesAndAllowsRecreate(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	insertInts(t, se, "t", [2]int{1, 1}, [2]int{2, 2})
	for _, cols := range [][]string{{"a"}, {"b", "a"}} {
		if err := se.CreateIndex(ctx, "t", cols); err != nil {
			t.Fatalf("CreateIndex(%v): %v", cols, err)
		}
	}
	if _, err := se.ResolveColumn("t", "b"); err != nil {
		t.Fatalf("ResolveColumn: %v", err)
	}

	if err := se.DropTable(ctx, "t"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	for _, f := range []string{"t.heap", "t-a.idx", "t-b-a.idx"} {
		if exists(t, fs, "db", f) {
			t.Fatalf("%s still present", f)
		}
	}
	mustKind(t, se.DropTable(ctx, "t"), dberr.ErrTableNotFound)

	defs := []types.ColumnDef{{Name: "b", Type: types.TypeString, Len: 12}}
	if err := se.CreateTable("t", defs); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	col, err := se.ResolveColumn("t", "b")
	if err != nil || col.Type != types.TypeString || col.Len != 12 {
		t.Fatalf("stale column resolved: %+v, %v", col, err)
	}
	var rows int
	if err := se.ScanRows("t", func(types.RowPointer, []any) error { rows++; return nil }); err != nil || rows != 0 {
		t.Fatalf("recreated table has %d rows, %v", rows, err)
	}
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry: %v", err)
	}
}

func TestDropTableHonoursLock(t *testing.T) {
	lm := lockmanager.NewTableLockManager()
	se, _ := newEngine(t, WithTableLocker(lm))
	openFresh(t, se, "db")

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if !lm.TryLockTable("t", lockmanager.Shared) {
		t.Fatalf("could not take shared lock")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	mustKind(t, se.DropTable(ctx, "t"), dberr.ErrEnvironmentFailure)
	if names, _ := se.ListTables(); len(names) != 1 {
		t.Fatalf("table dropped while locked")
	}

	lm.UnlockTable("t", lockmanager.Shared)
	if err := se.DropTable(context.Background(), "t"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
}

func TestCloseOpenRoundTrip(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	defs := []types.ColumnDef{{Name: "id", Type: types.TypeBigInt}, {Name: "name", Type: types.TypeString, Len: 16}}
	if err := se.CreateTable("people", defs); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	for i := 0; i < 50; i++ {
		if _, err := se.InsertRow("people", []any{int64(i), "p"}); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
	}
	if err := se.CreateIndex(ctx, "people", []string{"id"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	before, _ := se.Catalog()
	beforeBytes, _ := catalog.Encode(before)
	if err := se.CloseDatabase(); err != nil {
		t.Fatalf("CloseDatabase: %v", err)
	}
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry after close: %v", err)
	}
	if err := se.OpenDatabase("db"); err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	after, _ := se.Catalog()
	afterBytes, _ := catalog.Encode(after)
	if !bytes.Equal(beforeBytes, afterBytes) {
		t.Fatalf("catalog differs after reopen:\n%s\n%s", beforeBytes, afterBytes)
	}
	if err := se.checkRegistry(); err != nil {
		t.Fatalf("registry after reopen: %v", err)
	}

	rid, found, err := se.IndexLookup("people", []string{"id"}, []any{int64(42)})
	if err != nil || !found {
		t.Fatalf("lookup after reopen: %v %v", found, err)
	}
	row, err := se.GetRow("people", rid)
	if err != nil || row[0].(int64) != 42 || row[1].(string) != "p" {
		t.Fatalf("row = %v, %v", row, err)
	}
}

func TestTableFileSizeIncludesDirtyPages(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	insertInts(t, se, "t", [2]int{1, 1})
	size, err := se.TableFileSize("t")
	if err != nil {
		t.Fatalf("TableFileSize: %v", err)
	}
	if size < 2*types.PageSize {
		t.Fatalf("size = %d, want at least two pages", size)
	}
}

func TestJournalRecordsCommittedDDL(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "shop")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	for _, v := range [][]any{{int32(1), int32(5)}, {int32(2), int32(5)}} {
		if _, err := se.InsertRow("t", v); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
	}
	if err := se.CreateIndex(ctx, "t", []string{"a"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	// rejected statements leave no trace
	mustKind(t, se.CreateIndex(ctx, "t", []string{"b"}), dberr.ErrDuplicateKey)
	mustKind(t, se.CreateTable("t", twoInts), dberr.ErrTableExists)
	if err := se.DropIndex(ctx, "t", []string{"a"}); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}
	if err := se.CloseDatabase(); err != nil {
		t.Fatalf("CloseDatabase: %v", err)
	}
	if err := se.OpenDatabase("shop"); err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	if err := se.DropTable(ctx, "t"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}

	recs, err := se.DDLHistory()
	if err != nil {
		t.Fatalf("DDLHistory: %v", err)
	}
	want := []ddllog.OpType{
		ddllog.OpCreateDatabase, ddllog.OpCreateTable, ddllog.OpCreateIndex,
		ddllog.OpDropIndex, ddllog.OpDropTable,
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records: %+v", len(recs), recs)
	}
	for i, r := range recs {
		if r.Op != want[i] || r.LSN != uint64(i+1) {
			t.Fatalf("record %d = %+v, want op %s", i, r, want[i])
		}
	}
	if recs[2].Table != "t" || len(recs[2].Columns) != 1 || recs[2].Columns[0] != "a" {
		t.Fatalf("index record = %+v", recs[2])
	}
}

func TestFloatIndexKeepsNaNDistinct(t *testing.T) {
	se, _ := newEngine(t)
	openFresh(t, se, "db")
	ctx := context.Background()

	if err := se.CreateTable("f", []types.ColumnDef{{Name: "x", Type: types.TypeFloat}}); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	for _, v := range []float64{1, math.NaN(), 2} {
		if _, err := se.InsertRow("f", []any{v}); err != nil {
			t.Fatalf("InsertRow(%v): %v", v, err)
		}
	}
	if err := se.CreateIndex(ctx, "f", []string{"x"}); err != nil {
		t.Fatalf("CreateIndex over distinct floats: %v", err)
	}
	for _, v := range []float64{1, 2, math.NaN()} {
		if _, found, err := se.IndexLookup("f", []string{"x"}, []any{v}); err != nil || !found {
			t.Fatalf("lookup %v: found=%v err=%v", v, found, err)
		}
	}

	if _, err := se.InsertRow("f", []any{math.NaN()}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if err := se.DropIndex(ctx, "f", []string{"x"}); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}
	mustKind(t, se.CreateIndex(ctx, "f", []string{"x"}), dberr.ErrDuplicateKey)
}

func TestFailedOpenLeavesNoDatabaseOpen(t *testing.T) {
	se, fs := newEngine(t)
	openFresh(t, se, "p")
	ctx := context.Background()

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	insertInts(t, se, "t", [2]int{1, 1}, [2]int{2, 2})
	if err := se.CreateIndex(ctx, "t", []string{"a"}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if err := se.CloseDatabase(); err != nil {
		t.Fatalf("CloseDatabase: %v", err)
	}
	if err := se.CreateDatabase("q"); err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	if err := fs.Remove(path.Join("databases", "p", "t-a.idx")); err != nil {
		t.Fatalf("remove index file: %v", err)
	}

	// the record file opens before the missing index fails the load
	for i := 0; i < 2; i++ {
		mustKind(t, se.OpenDatabase("p"), dberr.ErrEnvironmentFailure)
		if cur := se.CurrentDatabase(); cur != "" {
			t.Fatalf("current database after failed open = %q", cur)
		}
		if err := se.checkRegistry(); err != nil {
			t.Fatalf("registry after failed open: %v", err)
		}
	}

	if err := se.OpenDatabase("q"); err != nil {
		t.Fatalf("OpenDatabase(q): %v", err)
	}
	if cur := se.CurrentDatabase(); cur != "q" {
		t.Fatalf("current database = %q", cur)
	}
}

func TestTableLockWaitLeavesEngineUsable(t *testing.T) {
	lm := lockmanager.NewTableLockManager()
	se, _ := newEngine(t, WithTableLocker(lm))
	openFresh(t, se, "db")

	if err := se.CreateTable("t", twoInts); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	insertInts(t, se, "t", [2]int{1, 1}, [2]int{2, 2})
	if !lm.TryLockTable("t", lockmanager.Exclusive) {
		t.Fatalf("could not take exclusive lock")
	}

	built := make(chan error, 1)
	go func() { built <- se.CreateIndex(context.Background(), "t", []string{"a"}) }()
	time.Sleep(20 * time.Millisecond)

	listed := make(chan error, 1)
	go func() {
		_, err := se.ListTables()
		listed <- err
	}()
	select {
	case err := <-listed:
		if err != nil {
			t.Fatalf("ListTables: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ListTables waited behind a table lock")
	}
	select {
	case err := <-built:
		t.Fatalf("index built while the table was locked: %v", err)
	default:
	}

	lm.UnlockTable("t", lockmanager.Exclusive)
	if err := <-built; err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
}
