package catalog

import (
	"CatalogDB/dberr"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
)

// ColumnCache memoises (table, column) → ColumnMeta lookups. Keys carry the
// table's generation, so anything cached before a table was dropped, recreated
// or had its indexes changed is never returned again.
type ColumnCache struct {
	cache  *ristretto.Cache[string, ColumnMeta]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewColumnCache sizes the cache for roughly entries columns.
func NewColumnCache(entries int) (*ColumnCache, error) {
	if entries <= 0 {
		return nil, fmt.Errorf("column cache needs a positive size, got %d", entries)
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, ColumnMeta]{
		NumCounters: int64(entries) * 10,
		MaxCost:     int64(entries),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create column cache: %w", err)
	}
	return &ColumnCache{cache: c}, nil
}

func cacheKey(gen uint64, table, column string) string {
	return fmt.Sprintf("%d/%s/%s", gen, table, column)
}

// Resolve returns the meta of table.column, consulting cat on a miss.
func (cc *ColumnCache) Resolve(cat *DatabaseCatalog, table, column string) (ColumnMeta, error) {
	gen := cat.Generation(table)
	if gen == 0 {
		return ColumnMeta{}, dberr.New(dberr.KindTableNotFound, "ResolveColumn").WithDatabase(cat.Name).WithTable(table)
	}
	key := cacheKey(gen, table, column)
	if col, ok := cc.cache.Get(key); ok {
		cc.hits.Add(1)
		return col, nil
	}
	cc.misses.Add(1)

	t, _ := cat.Table(table)
	col, ok := t.Column(column)
	if !ok {
		return ColumnMeta{}, dberr.New(dberr.KindColumnNotFound, "ResolveColumn").
			WithTable(table).WithColumns([]string{column})
	}
	cc.cache.Set(key, col, 1)
	return col, nil
}

// Wait blocks until buffered writes are visible.
func (cc *ColumnCache) Wait() { cc.cache.Wait() }

// Stats returns hit and miss counts.
func (cc *ColumnCache) Stats() (hits, misses uint64) {
	return cc.hits.Load(), cc.misses.Load()
}

func (cc *ColumnCache) Clear() { cc.cache.Clear() }

func (cc *ColumnCache) Close() { cc.cache.Close() }
