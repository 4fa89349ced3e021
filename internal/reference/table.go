package reference

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Table is one parsed dataset. Every row holds exactly len(Header) trimmed values.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a Table from raw cells. Cells are trimmed, short rows are padded
// with empty strings, extra cells are dropped and rows with no content are skipped.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = cleanCell(h)
	}
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	for _, raw := range rows {
		row := make([]string, len(t.Header))
		blank := true
		for i := range row {
			if i < len(raw) {
				row[i] = cleanCell(raw[i])
			}
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// maxLineBytes bounds a single line of a dataset.
const maxLineBytes = 1 << 20

// Parse reads comma-delimited text. The first non-empty line is the header and
// every later non-empty line is a row. Fields are split on every comma; quotes
// carry no meaning and are kept as part of the value.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		header []string
		rows   [][]string
	)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := strings.Split(line, ",")
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read delimited text: %w", err)
	}
	if header == nil {
		return nil, ErrEmptyDataset
	}
	return NewTable(header, rows), nil
}

// ParseString is Parse over an in-memory block.
func ParseString(s string) (*Table, error) {
	return Parse(strings.NewReader(s))
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnFold returns the index of the first header equal to name under
// case-insensitive comparison, or -1.
func (t *Table) ColumnFold(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(s, "\r"))
}
