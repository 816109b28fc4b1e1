package covfile

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// maxPathWidth caps the module path column of ASCII tables.
const maxPathWidth = 40

// Kind tells a TableWriter how to lay out a column.
type Kind int

const (
	Text Kind = iota
	// Number columns are right aligned.
	Number
	// Path columns are shortened to their tail in ASCII tables.
	Path
)

// A Column is one column of a coverage listing.
type Column struct {
	Name string
	Kind Kind
}

// A TableWriter renders a coverage listing: a column set, rows, and an
// optional totals row.
type TableWriter interface {
	Columns(cols []Column)
	Row(cells []string)
	Totals(cells []string)
	Flush() error
}

// A CSVWriter writes rows as comma-separated values. Paths are kept whole
// and totals are dropped, so the output stays one record per module or
// entry.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		w: csv.NewWriter(w),
	}
}

func (c *CSVWriter) Columns(cols []Column) {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	c.w.Write(names)
}

func (c *CSVWriter) Row(cells []string) {
	c.w.Write(cells)
}

func (c *CSVWriter) Totals(cells []string) {}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// An ASCIITable pretty-prints a listing with numbers right aligned and long
// module paths cut down to their last components.
type ASCIITable struct {
	t     *tablewriter.Table
	paths []bool
}

func NewTableWriter(w io.Writer) *ASCIITable {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return &ASCIITable{t: t}
}

func (a *ASCIITable) Columns(cols []Column) {
	names := make([]string, len(cols))
	align := make([]int, len(cols))
	a.paths = make([]bool, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		align[i] = tablewriter.ALIGN_LEFT
		switch col.Kind {
		case Number:
			align[i] = tablewriter.ALIGN_RIGHT
		case Path:
			a.paths[i] = true
		}
	}
	a.t.SetHeader(names)
	a.t.SetColumnAlignment(align)
}

func (a *ASCIITable) Row(cells []string) {
	out := make([]string, len(cells))
	for i, c := range cells {
		if i < len(a.paths) && a.paths[i] {
			c = shortenPath(c, maxPathWidth)
		}
		out[i] = c
	}
	a.t.Append(out)
}

func (a *ASCIITable) Totals(cells []string) {
	a.t.SetFooter(cells)
}

func (a *ASCIITable) Flush() error {
	a.t.Render()
	return nil
}

// shortenPath keeps the longest tail of p made of whole components that
// fits in max bytes, prefixed with ".../". The base name is always kept.
func shortenPath(p string, max int) string {
	if len(p) <= max {
		return p
	}
	parts := strings.Split(p, "/")
	tail := parts[len(parts)-1]
	for i := len(parts) - 2; i > 0; i-- {
		next := parts[i] + "/" + tail
		if len(".../")+len(next) > max {
			break
		}
		tail = next
	}
	return ".../" + tail
}
