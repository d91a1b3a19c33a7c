package executor

import (
	lex "CatalogDB/query_parser/lexer"
	"CatalogDB/query_parser/parser"
	"CatalogDB/storage_engine/catalog"
	"CatalogDB/types"
	"fmt"
	"strconv"
)

// literalValue converts lit to the Go value stored for col: int32, int64,
// float32 or string, matching what DecodeRow returns.
func literalValue(col catalog.ColumnMeta, lit parser.Literal) (any, error) {
	switch col.Type {
	case types.TypeInt:
		if lit.Kind != lex.INT {
			break
		}
		i, err := strconv.ParseInt(lit.Value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not an INT", col.Name, lit.Value)
		}
		return int32(i), nil
	case types.TypeBigInt:
		if lit.Kind != lex.INT {
			break
		}
		i, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not a BIGINT", col.Name, lit.Value)
		}
		return i, nil
	case types.TypeFloat:
		if lit.Kind != lex.INT && lit.Kind != lex.FLOAT {
			break
		}
		f, err := strconv.ParseFloat(lit.Value, 32)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not a FLOAT", col.Name, lit.Value)
		}
		return float32(f), nil
	case types.TypeString:
		if lit.Kind != lex.STRING {
			break
		}
		if len(lit.Value) > col.Len {
			return nil, fmt.Errorf("column %s: %q is longer than %d", col.Name, lit.Value, col.Len)
		}
		return lit.Value, nil
	}
	return nil, fmt.Errorf("column %s: %s literal %q does not fit type %s", col.Name, lit.Kind, lit.Value, col.Type)
}

// rowValues converts an INSERT's literals in column order.
func rowValues(meta catalog.TableMeta, lits []parser.Literal) ([]any, error) {
	if len(lits) != len(meta.Columns) {
		return nil, fmt.Errorf("column count mismatch: expected %d, got %d", len(meta.Columns), len(lits))
	}
	values := make([]any, len(lits))
	for i, col := range meta.Columns {
		v, err := literalValue(col, lits[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// predicate is a resolved WHERE clause: column position -> wanted value.
type predicate map[int]any

func buildPredicate(meta catalog.TableMeta, where []parser.Condition) (predicate, error) {
	pred := make(predicate, len(where))
	for _, cond := range where {
		pos := -1
		for i, c := range meta.Columns {
			if c.Name == cond.Column {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, fmt.Errorf("table %s has no column %s", meta.Name, cond.Column)
		}
		v, err := literalValue(meta.Columns[pos], cond.Value)
		if err != nil {
			return nil, err
		}
		if prev, ok := pred[pos]; ok && prev != v {
			return nil, fmt.Errorf("column %s compared with two different values", cond.Column)
		}
		pred[pos] = v
	}
	return pred, nil
}

func (p predicate) matches(values []any) bool {
	for pos, want := range p {
		if values[pos] != want {
			return false
		}
	}
	return true
}
