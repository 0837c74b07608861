package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	title string
	right bool
}

type textTable struct {
	cols []column
	rows [][]string
}

func newTextTable(cols ...column) *textTable {
	return &textTable{cols: cols}
}

// tableOf builds a left-aligned table from headers and rows.
func tableOf(headers []string, rows [][]string) *textTable {
	cols := make([]column, len(headers))
	for i, h := range headers {
		cols[i] = column{title: h}
	}
	t := newTextTable(cols...)
	for _, row := range rows {
		t.add(row...)
	}
	return t
}

// withRight right-aligns the columns at the given indexes.
func (t *textTable) withRight(idx ...int) *textTable {
	for _, i := range idx {
		if i >= 0 && i < len(t.cols) {
			t.cols[i].right = true
		}
	}
	return t
}

func (t *textTable) add(cells ...string) {
	row := make([]string, len(t.cols))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

// render returns the header line and one line per row, columns separated by
// a single space and sized to their widest cell.
func (t *textTable) render() (string, []string) {
	if len(t.cols) == 0 {
		return "", nil
	}
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = displayWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = maxInt(widths[i], displayWidth(cell))
		}
	}
	titles := make([]string, len(t.cols))
	for i, c := range t.cols {
		titles[i] = c.title
	}
	header := t.line(titles, widths)
	lines := make([]string, len(t.rows))
	for i, row := range t.rows {
		lines[i] = t.line(row, widths)
	}
	return header, lines
}

func (t *textTable) line(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := strings.Repeat(" ", maxInt(0, widths[i]-displayWidth(cell)))
		if t.cols[i].right {
			b.WriteString(pad + cell)
		} else {
			b.WriteString(cell + pad)
		}
	}
	return b.String()
}

// displayWidth measures terminal cells so wide topic names line up.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

func fitCell(value string, width int) string {
	if width <= 0 || displayWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
