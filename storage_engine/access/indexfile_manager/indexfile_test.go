package indexfile

import (
	bplus "CatalogDB/storage_engine/access/indexfile_manager/bplustree"
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"CatalogDB/types"
	"errors"
	"math"
	"testing"

	"github.com/spf13/afero"
)

func newManager(t *testing.T) (*IndexFileManager, *diskmanager.DiskManager) {
	t.Helper()
	dm := diskmanager.NewDiskManager(afero.NewMemMapFs())
	return NewIndexFileManager(dm, bufferpool.NewBufferPool(32, dm)), dm
}

func mustKey(t *testing.T, cols []KeyColumn, vals ...any) []byte {
	t.Helper()
	var key []byte
	for i, c := range cols {
		b, err := types.EncodeValue(c.Type, c.Len, vals[i])
		if err != nil {
			t.Fatalf("EncodeValue: %v", err)
		}
		key = append(key, b...)
	}
	return key
}

func TestIndexNameIsOrderSensitive(t *testing.T) {
	ab := IndexName("t", []string{"a", "b"})
	ba := IndexName("t", []string{"b", "a"})
	if ab == ba {
		t.Fatalf("IndexName ignores column order: %s", ab)
	}
	if ab != "t-a-b" {
		t.Fatalf("IndexName = %s, want t-a-b", ab)
	}
	if IndexName("t", []string{"a", "b"}) != ab {
		t.Fatalf("IndexName is not stable")
	}
}

func TestCreateOpenInsertLookup(t *testing.T) {
	ifm, dm := newManager(t)
	cols := []KeyColumn{{Name: "id", Type: types.TypeInt, Len: 4}, {Name: "name", Type: types.TypeString, Len: 8}}

	if err := ifm.CreateIndex("users", cols); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if !ifm.IndexExists("users", []string{"id", "name"}) {
		t.Fatalf("index file missing after create")
	}
	if err := ifm.CreateIndex("users", cols); !errors.Is(err, ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}

	h, err := ifm.OpenIndex("users", []string{"id", "name"})
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	if h.KeyLen() != 12 || len(h.Columns()) != 2 || h.Columns()[1].Name != "name" {
		t.Fatalf("layout not restored: keyLen=%d cols=%v", h.KeyLen(), h.Columns())
	}

	rid := types.RowPointer{PageNumber: 3, SlotIndex: 9}
	if err := h.Insert(mustKey(t, cols, 7, "bob"), rid); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := h.Insert(mustKey(t, cols, 7, "bob"), rid); !errors.Is(err, bplus.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if err := h.Insert([]byte{1}, rid); !errors.Is(err, ErrKeyLength) {
		t.Fatalf("expected ErrKeyLength, got %v", err)
	}

	got, ok, err := h.Lookup(mustKey(t, cols, 7, "bob"))
	if err != nil || !ok || got != rid {
		t.Fatalf("Lookup = %s ok=%v err=%v", got, ok, err)
	}

	if err := ifm.DestroyIndex("users", []string{"id", "name"}); !errors.Is(err, ErrIndexOpen) {
		t.Fatalf("expected ErrIndexOpen, got %v", err)
	}
	if err := ifm.CloseIndex(h); err != nil {
		t.Fatalf("CloseIndex: %v", err)
	}
	if dm.OpenFileCount() != 0 {
		t.Fatalf("%d files left open", dm.OpenFileCount())
	}

	h, err = ifm.OpenIndex("users", []string{"id", "name"})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n, _ := h.Len(); n != 1 {
		t.Fatalf("Len after reopen = %d, want 1", n)
	}
	ifm.CloseIndex(h)

	if err := ifm.DestroyIndex("users", []string{"id", "name"}); err != nil {
		t.Fatalf("DestroyIndex: %v", err)
	}
	if ifm.IndexExists("users", []string{"id", "name"}) {
		t.Fatalf("index file still present after destroy")
	}
}

func TestComparatorIsNumeric(t *testing.T) {
	cols := []KeyColumn{{Name: "v", Type: types.TypeInt, Len: 4}}
	cmp := Comparator(cols)
	if cmp(mustKey(t, cols, -1), mustKey(t, cols, 1)) >= 0 {
		t.Fatalf("-1 should sort before 1")
	}
	if cmp(mustKey(t, cols, 256), mustKey(t, cols, 2)) <= 0 {
		t.Fatalf("256 should sort after 2")
	}

	fcols := []KeyColumn{{Name: "f", Type: types.TypeFloat, Len: 4}}
	fcmp := Comparator(fcols)
	if fcmp(mustKey(t, fcols, -2.5), mustKey(t, fcols, 0.5)) >= 0 {
		t.Fatalf("-2.5 should sort before 0.5")
	}

	nan := mustKey(t, fcols, math.NaN())
	if fcmp(nan, mustKey(t, fcols, 1.0)) == 0 || fcmp(mustKey(t, fcols, 1.0), nan) == 0 {
		t.Fatalf("NaN must not equal 1.0")
	}
	if fcmp(nan, mustKey(t, fcols, math.Inf(-1))) >= 0 {
		t.Fatalf("NaN should sort before -Inf")
	}
	if fcmp(nan, mustKey(t, fcols, math.NaN())) != 0 {
		t.Fatalf("NaN should equal NaN")
	}

	composite := []KeyColumn{{Name: "a", Type: types.TypeBigInt, Len: 8}, {Name: "s", Type: types.TypeString, Len: 4}}
	ccmp := Comparator(composite)
	if ccmp(mustKey(t, composite, int64(1), "zz"), mustKey(t, composite, int64(2), "aa")) >= 0 {
		t.Fatalf("first column must dominate")
	}
	if ccmp(mustKey(t, composite, int64(1), "ab"), mustKey(t, composite, int64(1), "b")) >= 0 {
		t.Fatalf("second column breaks ties bytewise")
	}
}

func TestEntriesInKeyOrder(t *testing.T) {
	ifm, _ := newManager(t)
	cols := []KeyColumn{{Name: "v", Type: types.TypeInt, Len: 4}}
	ifm.CreateIndex("t", cols)
	h, err := ifm.OpenIndex("t", []string{"v"})
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	for i := 100; i >= -100; i-- {
		if err := h.Insert(mustKey(t, cols, i), types.RowPointer{PageNumber: 1, SlotIndex: uint16(i + 100)}); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	entries, err := h.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 201 {
		t.Fatalf("got %d entries, want 201", len(entries))
	}
	for i, e := range entries {
		v, _ := types.DecodeValue(types.TypeInt, e.Key)
		if v.(int32) != int32(i-100) {
			t.Fatalf("entry %d has key %v", i, v)
		}
		if e.RID.SlotIndex != uint16(i) {
			t.Fatalf("entry %d has rid %s", i, e.RID)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	cols := []KeyColumn{{Name: "a", Type: types.TypeInt, Len: 4}, {Name: "long_name", Type: types.TypeString, Len: 200}}
	got, err := decodeLayout(encodeLayout(cols))
	if err != nil {
		t.Fatalf("decodeLayout: %v", err)
	}
	if len(got) != 2 || got[0] != cols[0] || got[1] != cols[1] {
		t.Fatalf("layout round trip = %v", got)
	}
	if _, err := decodeLayout([]byte{2, 1}); err == nil {
		t.Fatalf("expected error for truncated layout")
	}
}

func TestDumpFileReadsClosedIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("db", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dm := diskmanager.NewDiskManager(afero.NewBasePathFs(fs, "db"))
	ifm := NewIndexFileManager(dm, bufferpool.NewBufferPool(16, dm))
	cols := []KeyColumn{{Name: "a", Type: types.TypeBigInt, Len: 8}, {Name: "s", Type: types.TypeString, Len: 4}}
	if err := ifm.CreateIndex("t", cols); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	h, err := ifm.OpenIndex("t", []string{"a", "s"})
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	for i := 0; i < 40; i++ {
		if err := h.Insert(mustKey(t, cols, int64(40-i), "k"), types.RowPointer{PageNumber: 1, SlotIndex: uint16(i)}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := ifm.CloseIndex(h); err != nil {
		t.Fatalf("CloseIndex: %v", err)
	}

	d, err := DumpFile(fs, "db/t-a-s.idx")
	if err != nil {
		t.Fatalf("DumpFile: %v", err)
	}
	if d.Table != "t" || d.KeyLen != 12 || len(d.Entries) != 40 || d.FileSize == 0 {
		t.Fatalf("unexpected dump: table=%s keyLen=%d entries=%d size=%d", d.Table, d.KeyLen, len(d.Entries), d.FileSize)
	}
	first, err := DecodeKey(d.Columns, d.Entries[0].Key)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	if first[0].(int64) != 1 || first[1].(string) != "k" {
		t.Fatalf("first key = %v", first)
	}

	if _, _, err := ParseFileName("db/t.heap"); err == nil {
		t.Fatalf("heap file accepted as index")
	}
}
