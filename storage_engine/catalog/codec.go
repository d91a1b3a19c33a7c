package catalog

import (
	"CatalogDB/types"
	"fmt"

	json "github.com/goccy/go-json"
)

/*
The metadata file is indented JSON:

	{
	  "id": "<uuid>",
	  "name": "<db>",
	  "tables": [ { "name": ..., "columns": [...], "indexes": [...] }, ... ]
	}

Tables are an array so the display order survives a round trip.
*/

type wireCatalog struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Tables []TableMeta `json:"tables"`
}

// Encode serializes a catalog.
func Encode(c *DatabaseCatalog) ([]byte, error) {
	w := wireCatalog{ID: c.ID, Name: c.Name, Tables: c.Tables()}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog %s: %w", c.Name, err)
	}
	return data, nil
}

// Decode parses a catalog written by Encode and checks that column offsets,
// row lengths and index layouts are consistent.
func Decode(data []byte) (*DatabaseCatalog, error) {
	var w wireCatalog
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if w.Name == "" {
		return nil, fmt.Errorf("catalog has no database name")
	}

	c := NewDatabaseCatalog(w.Name)
	if w.ID != "" {
		c.ID = w.ID
	}
	for _, t := range w.Tables {
		if err := checkTable(t); err != nil {
			return nil, err
		}
		if err := c.AddTable(t); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", w.Name, err)
		}
	}
	return c, nil
}

func checkTable(t TableMeta) error {
	if !types.ValidIdentifier(t.Name) {
		return fmt.Errorf("catalog: invalid table name %q", t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("catalog: table %s has no columns", t.Name)
	}
	offset := 0
	for _, c := range t.Columns {
		if c.Table != t.Name || c.Offset != offset || c.Len <= 0 || !c.Type.Valid() {
			return fmt.Errorf("catalog: table %s column %s is inconsistent", t.Name, c.Name)
		}
		offset += c.Len
	}
	for _, idx := range t.Indexes {
		if idx.Table != t.Name || idx.ColCount != len(idx.Columns) || len(idx.Columns) == 0 {
			return fmt.Errorf("catalog: index %s is inconsistent", idx)
		}
		keyLen := 0
		for _, ic := range idx.Columns {
			if c, ok := t.Column(ic.Name); !ok || c.Offset != ic.Offset || c.Len != ic.Len {
				return fmt.Errorf("catalog: index %s names unknown column %s", idx, ic.Name)
			}
			keyLen += ic.Len
		}
		if keyLen != idx.KeyLen {
			return fmt.Errorf("catalog: index %s key length %d, columns sum to %d", idx, idx.KeyLen, keyLen)
		}
	}
	return nil
}
