package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

// Table buffers rows and prints them column-aligned under a header and a
// dash divider. A table with no rows prints nothing.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	sortCol int
}

// NewTable creates a table on stdout with the given column headers.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table writing to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{out: out, headers: headers, sortCol: -1}
}

// SortBy orders rows by the given column when flushed. Rows with equal
// values keep insertion order.
func (t *Table) SortBy(col int) *Table {
	t.sortCol = col
	return t
}

// Row adds a row.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Len returns the number of buffered rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Flush prints the buffered rows and empties the table.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}
	if t.sortCol >= 0 {
		sort.SliceStable(t.rows, func(i, j int) bool {
			return cell(t.rows[i], t.sortCol) < cell(t.rows[j], t.sortCol)
		})
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))
	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(dividers, "\t"))
	for _, r := range t.rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	w.Flush()
	t.rows = nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
