package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ColumnType is the logical type of a fixed-width column.
type ColumnType uint8

const (
	TypeInvalid ColumnType = iota
	TypeInt
	TypeBigInt
	TypeFloat
	TypeString
)

// MaxStringLen bounds the declared length of a STRING column.
const MaxStringLen = 255

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeBigInt:
		return "BIGINT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	default:
		return "INVALID"
	}
}

// NaturalLen is the byte width of fixed-size types and 0 for STRING.
func (t ColumnType) NaturalLen() int {
	switch t {
	case TypeInt, TypeFloat:
		return 4
	case TypeBigInt:
		return 8
	default:
		return 0
	}
}

func (t ColumnType) Valid() bool {
	return t >= TypeInt && t <= TypeString
}

func (t ColumnType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid column type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *ColumnType) UnmarshalText(b []byte) error {
	parsed, err := ParseColumnType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseColumnType accepts the canonical names plus the usual SQL aliases.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER":
		return TypeInt, nil
	case "BIGINT":
		return TypeBigInt, nil
	case "FLOAT", "REAL":
		return TypeFloat, nil
	case "STRING", "CHAR", "VARCHAR":
		return TypeString, nil
	}
	return TypeInvalid, fmt.Errorf("unknown column type %q", s)
}

// ColumnDef is a caller-supplied column definition for CREATE TABLE.
type ColumnDef struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
	Len  int        `json:"len"`
}

// ResolvedLen returns the storage width of the column, or an error if the
// declared length does not fit the type.
func (d ColumnDef) ResolvedLen() (int, error) {
	if !d.Type.Valid() {
		return 0, fmt.Errorf("column %q: invalid type", d.Name)
	}
	if n := d.Type.NaturalLen(); n > 0 {
		if d.Len != 0 && d.Len != n {
			return 0, fmt.Errorf("column %q: %s is %d bytes, got length %d", d.Name, d.Type, n, d.Len)
		}
		return n, nil
	}
	if d.Len < 1 || d.Len > MaxStringLen {
		return 0, fmt.Errorf("column %q: string length must be in [1,%d], got %d", d.Name, MaxStringLen, d.Len)
	}
	return d.Len, nil
}

// EncodeValue writes v into a buffer of width n according to t.
// Strings are zero padded and truncated values are rejected.
func EncodeValue(t ColumnType, n int, v any) ([]byte, error) {
	buf := make([]byte, n)
	switch t {
	case TypeInt:
		i, ok := toInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("value %v is not an INT", v)
		}
		binary.LittleEndian.PutUint32(buf, uint32(int32(i)))
	case TypeBigInt:
		i, ok := toInt64(v)
		if !ok {
			return nil, fmt.Errorf("value %v is not a BIGINT", v)
		}
		binary.LittleEndian.PutUint64(buf, uint64(i))
	case TypeFloat:
		var f float64
		switch x := v.(type) {
		case float32:
			f = float64(x)
		case float64:
			f = x
		default:
			i, ok := toInt64(v)
			if !ok {
				return nil, fmt.Errorf("value %v is not a FLOAT", v)
			}
			f = float64(i)
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value %v is not a STRING", v)
		}
		if len(s) > n {
			return nil, fmt.Errorf("string %q longer than column length %d", s, n)
		}
		copy(buf, s)
	default:
		return nil, fmt.Errorf("invalid column type %d", uint8(t))
	}
	return buf, nil
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(t ColumnType, b []byte) (any, error) {
	switch t {
	case TypeInt:
		if len(b) < 4 {
			return nil, fmt.Errorf("INT needs 4 bytes, got %d", len(b))
		}
		return int32(binary.LittleEndian.Uint32(b)), nil
	case TypeBigInt:
		if len(b) < 8 {
			return nil, fmt.Errorf("BIGINT needs 8 bytes, got %d", len(b))
		}
		return int64(binary.LittleEndian.Uint64(b)), nil
	case TypeFloat:
		if len(b) < 4 {
			return nil, fmt.Errorf("FLOAT needs 4 bytes, got %d", len(b))
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case TypeString:
		return strings.TrimRight(string(b), "\x00"), nil
	}
	return nil, fmt.Errorf("invalid column type %d", uint8(t))
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}
