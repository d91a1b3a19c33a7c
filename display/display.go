// Package display renders catalog listings as text tables for the command
// line tools.
package display

import (
	indexfile "CatalogDB/storage_engine/access/indexfile_manager"
	"CatalogDB/storage_engine/catalog"
	ddllog "CatalogDB/storage_engine/ddl_log"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	currentStyle = lipgloss.NewStyle().Bold(true)
)

// render draws one bordered table.
func render(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// Databases lists database names, marking the open one.
func Databases(names []string, current string) string {
	if len(names) == 0 {
		return mutedStyle.Render("(no databases)")
	}
	rows := make([][]string, len(names))
	for i, n := range names {
		mark := ""
		if n == current {
			mark = currentStyle.Render("*")
		}
		rows[i] = []string{n, mark}
	}
	return render([]string{"Database", "Open"}, rows)
}

// TableSummary is one line of a table listing.
type TableSummary struct {
	Name    string
	Columns int
	RowLen  int
	Indexes int
	Size    int64
}

func Tables(db string, tables []TableSummary) string {
	if len(tables) == 0 {
		return mutedStyle.Render(fmt.Sprintf("(no tables in %s)", db))
	}
	rows := make([][]string, len(tables))
	for i, t := range tables {
		rows[i] = []string{
			t.Name,
			strconv.Itoa(t.Columns),
			humanize.Comma(int64(t.RowLen)),
			strconv.Itoa(t.Indexes),
			humanize.IBytes(uint64(t.Size)),
		}
	}
	return titleStyle.Render("Tables in "+db) + "\n" +
		render([]string{"Table", "Columns", "Row bytes", "Indexes", "Size"}, rows)
}

// Describe shows a table's columns and the indexes defined on it.
func Describe(meta catalog.TableMeta) string {
	rows := make([][]string, len(meta.Columns))
	for i, c := range meta.Columns {
		indexed := ""
		if c.Indexed {
			indexed = "yes"
		}
		rows[i] = []string{c.Name, c.Type.String(), strconv.Itoa(c.Len), strconv.Itoa(c.Offset), indexed}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Table %s (%s per row)", meta.Name, humanize.IBytes(uint64(meta.RowLen())))))
	b.WriteString("\n")
	b.WriteString(render([]string{"Field", "Type", "Len", "Offset", "Indexed"}, rows))
	if len(meta.Indexes) > 0 {
		b.WriteString("\n")
		idx := make([][]string, len(meta.Indexes))
		for i, ix := range meta.Indexes {
			idx[i] = []string{strings.Join(ix.ColumnNames(), ", "), strconv.Itoa(ix.KeyLen)}
		}
		b.WriteString(render([]string{"Index columns", "Key bytes"}, idx))
	}
	return b.String()
}

// History lists journal records with their age.
func History(db string, recs []ddllog.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			strconv.FormatUint(r.LSN, 10),
			string(r.Op),
			r.Table,
			strings.Join(r.Columns, ", "),
			humanize.Time(r.At),
		}
	}
	return titleStyle.Render("DDL history of "+db) + "\n" +
		render([]string{"LSN", "Operation", "Table", "Columns", "When"}, rows)
}

// Rows renders decoded rows under the column names of meta.
func Rows(meta catalog.TableMeta, rows [][]any) string {
	headers := make([]string, len(meta.Columns))
	for i, c := range meta.Columns {
		headers[i] = c.Name
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = make([]string, len(r))
		for j, v := range r {
			cells[i][j] = FormatValue(v)
		}
	}
	return render(headers, cells) + "\n" + Count(len(rows), "row", "rows")
}

// Index renders the content of an index file, one row per entry with the
// decoded key columns followed by the row pointer.
func Index(d *indexfile.Dump) string {
	headers := make([]string, 0, len(d.Columns)+1)
	for _, c := range d.Columns {
		headers = append(headers, c.Name)
	}
	headers = append(headers, "RID")

	rows := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		row := make([]string, 0, len(headers))
		values, err := indexfile.DecodeKey(d.Columns, e.Key)
		if err != nil {
			row = append(row, fmt.Sprintf("%x", e.Key))
			for len(row) < len(d.Columns) {
				row = append(row, "")
			}
		} else {
			for _, v := range values {
				row = append(row, FormatValue(v))
			}
		}
		rows = append(rows, append(row, e.RID.String()))
	}

	title := fmt.Sprintf("Index %s on %s (%d-byte keys, %s)",
		d.Name, d.Table, d.KeyLen, humanize.IBytes(uint64(d.FileSize)))
	return titleStyle.Render(title) + "\n" + render(headers, rows) + "\n" +
		Count(len(d.Entries), "entry", "entries")
}

// Count renders "n things" with thousands separators.
func Count(n int, one, many string) string {
	noun := many
	if n == 1 {
		noun = one
	}
	return mutedStyle.Render(humanize.Comma(int64(n)) + " " + noun)
}

// FormatValue renders a column value the way listings show it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
