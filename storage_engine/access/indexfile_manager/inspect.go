package indexfile

import (
	"CatalogDB/storage_engine/bufferpool"
	diskmanager "CatalogDB/storage_engine/disk_manager"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Dump is the full content of one index file, for inspection tools.
type Dump struct {
	Name     string
	Table    string
	Columns  []KeyColumn
	KeyLen   int
	FileSize int64
	Entries  []Entry
}

// ParseFileName splits "<table>-<c1>-<c2>.idx" into table and columns.
func ParseFileName(file string) (string, []string, error) {
	base := path.Base(file)
	if !strings.HasSuffix(base, FileExt) {
		return "", nil, fmt.Errorf("%s is not an index file", file)
	}
	parts := strings.Split(strings.TrimSuffix(base, FileExt), "-")
	if len(parts) < 2 {
		return "", nil, fmt.Errorf("%s does not name a table and columns", file)
	}
	return parts[0], parts[1:], nil
}

// DumpFile reads the index file at file on fs without a database being open.
func DumpFile(fs afero.Fs, file string) (*Dump, error) {
	table, cols, err := ParseFileName(file)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(file)
	dm := diskmanager.NewDiskManager(afero.NewBasePathFs(fs, dir))
	defer dm.CloseAll()
	ifm := NewIndexFileManager(dm, bufferpool.NewBufferPool(16, dm))

	h, err := ifm.OpenIndex(table, cols)
	if err != nil {
		return nil, err
	}
	defer ifm.CloseIndex(h)

	entries, err := h.Entries()
	if err != nil {
		return nil, err
	}
	size, err := dm.FileSize(FileName(table, cols))
	if err != nil {
		return nil, err
	}
	return &Dump{
		Name:     h.Name(),
		Table:    table,
		Columns:  h.Columns(),
		KeyLen:   h.KeyLen(),
		FileSize: size,
		Entries:  entries,
	}, nil
}
