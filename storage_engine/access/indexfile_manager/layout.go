package indexfile

import (
	"CatalogDB/types"
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
)

/*
Key layout stored as the B+ tree header on page 0:

	ncols  uint8
	ncols × [ type uint8 | len uint16 | nameLen uint8 | name ]

A key is the concatenation of the column values in the order given, each
encoded as types.EncodeValue does.
*/

func encodeLayout(cols []KeyColumn) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(len(cols)))
	for _, c := range cols {
		buf.WriteByte(byte(c.Type))
		binary.Write(&buf, binary.LittleEndian, uint16(c.Len))
		buf.WriteByte(byte(len(c.Name)))
		buf.WriteString(c.Name)
	}
	return buf.Bytes()
}

func decodeLayout(b []byte) ([]KeyColumn, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("empty key layout")
	}
	n := int(b[0])
	off := 1
	cols := make([]KeyColumn, 0, n)
	for i := 0; i < n; i++ {
		if off+4 > len(b) {
			return nil, fmt.Errorf("key layout truncated at column %d", i)
		}
		typ := types.ColumnType(b[off])
		l := int(binary.LittleEndian.Uint16(b[off+1:]))
		nameLen := int(b[off+3])
		off += 4
		if off+nameLen > len(b) {
			return nil, fmt.Errorf("key layout truncated in column %d name", i)
		}
		cols = append(cols, KeyColumn{Name: string(b[off : off+nameLen]), Type: typ, Len: l})
		off += nameLen
		if !typ.Valid() || l <= 0 {
			return nil, fmt.Errorf("key layout column %d has type %d length %d", i, typ, l)
		}
	}
	return cols, nil
}

// KeyLen is the total key width of a layout.
func KeyLen(cols []KeyColumn) int {
	n := 0
	for _, c := range cols {
		n += c.Len
	}
	return n
}

// Comparator orders keys column by column: integers and floats numerically,
// strings bytewise over their padded width. Floats use cmp.Compare, so NaN
// sorts first and equals only NaN.
func Comparator(cols []KeyColumn) func(a, b []byte) int {
	return func(a, b []byte) int {
		off := 0
		for _, c := range cols {
			if r := compareColumn(c.Type, a[off:off+c.Len], b[off:off+c.Len]); r != 0 {
				return r
			}
			off += c.Len
		}
		return 0
	}
}

func compareColumn(t types.ColumnType, a, b []byte) int {
	switch t {
	case types.TypeInt:
		return cmp.Compare(int32(binary.LittleEndian.Uint32(a)), int32(binary.LittleEndian.Uint32(b)))
	case types.TypeBigInt:
		return cmp.Compare(int64(binary.LittleEndian.Uint64(a)), int64(binary.LittleEndian.Uint64(b)))
	case types.TypeFloat:
		fa := math.Float32frombits(binary.LittleEndian.Uint32(a))
		fb := math.Float32frombits(binary.LittleEndian.Uint32(b))
		return cmp.Compare(fa, fb)
	default:
		return bytes.Compare(a, b)
	}
}

// DecodeKey splits key into one value per column.
func DecodeKey(cols []KeyColumn, key []byte) ([]any, error) {
	if len(key) != KeyLen(cols) {
		return nil, fmt.Errorf("key is %d bytes, layout wants %d", len(key), KeyLen(cols))
	}
	values := make([]any, len(cols))
	off := 0
	for i, c := range cols {
		v, err := types.DecodeValue(c.Type, key[off:off+c.Len])
		if err != nil {
			return nil, fmt.Errorf("key column %s: %w", c.Name, err)
		}
		values[i] = v
		off += c.Len
	}
	return values, nil
}
