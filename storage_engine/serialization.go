package storageengine

import (
	"CatalogDB/storage_engine/catalog"
	"CatalogDB/types"
	"fmt"
)

// EncodeRow lays values out as the fixed-length record of meta.
// values must be in column order.
func EncodeRow(meta catalog.TableMeta, values []any) ([]byte, error) {
	if len(values) != len(meta.Columns) {
		return nil, fmt.Errorf("table %s: column count (%d) != value count (%d)", meta.Name, len(meta.Columns), len(values))
	}
	rec := make([]byte, meta.RowLen())
	for i, col := range meta.Columns {
		b, err := types.EncodeValue(col.Type, col.Len, values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		copy(rec[col.Offset:], b)
	}
	return rec, nil
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(meta catalog.TableMeta, rec []byte) ([]any, error) {
	if len(rec) != meta.RowLen() {
		return nil, fmt.Errorf("table %s: record is %d bytes, want %d", meta.Name, len(rec), meta.RowLen())
	}
	values := make([]any, len(meta.Columns))
	for i, col := range meta.Columns {
		v, err := types.DecodeValue(col.Type, rec[col.Offset:col.Offset+col.Len])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// EncodeKey builds the index key of cols from one value per column.
func EncodeKey(cols []catalog.ColumnMeta, values []any) ([]byte, error) {
	if len(values) != len(cols) {
		return nil, fmt.Errorf("key has %d columns, got %d values", len(cols), len(values))
	}
	n := 0
	for _, c := range cols {
		n += c.Len
	}
	key := make([]byte, 0, n)
	for i, c := range cols {
		b, err := types.EncodeValue(c.Type, c.Len, values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		key = append(key, b...)
	}
	return key, nil
}
