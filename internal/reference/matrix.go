package reference

import "strings"

// OutcomeColumns are the header names, compared case-insensitively, that hold
// the condition label of a row.
var OutcomeColumns = []string{"disease", "prognosis", "label", "diagnosis"}

// PresentFlag is the cell value that marks a symptom as present.
const PresentFlag = "1"

// SymptomRecord is one row of the occurrence matrix.
type SymptomRecord struct {
	outcome string
	present []bool
}

// Outcome returns the raw, trimmed outcome cell: a label or a numeric code.
func (r SymptomRecord) Outcome() string { return r.outcome }

// Present reports whether the symptom in vocabulary column col is flagged.
func (r SymptomRecord) Present(col int) bool {
	return col >= 0 && col < len(r.present) && r.present[col]
}

// Matrix is the parsed occurrence matrix. It is immutable once built.
type Matrix struct {
	outcomeColumn string
	vocabulary    []string
	columns       map[string]int
	rows          []SymptomRecord
}

// NewMatrix indexes an occurrence table. Every header except the outcome
// column becomes part of the symptom vocabulary; rows without an outcome are
// skipped.
func NewMatrix(t *Table) (*Matrix, error) {
	outcome := outcomeColumn(t)
	if outcome < 0 {
		return nil, ErrNoOutcomeColumn
	}

	m := &Matrix{
		outcomeColumn: t.Header[outcome],
		columns:       make(map[string]int, len(t.Header)),
	}
	// source column for each vocabulary entry
	var source []int
	for i, h := range t.Header {
		if i == outcome || h == "" {
			continue
		}
		if _, dup := m.columns[h]; dup {
			continue
		}
		m.columns[h] = len(m.vocabulary)
		m.vocabulary = append(m.vocabulary, h)
		source = append(source, i)
	}

	m.rows = make([]SymptomRecord, 0, t.Len())
	for _, row := range t.Rows {
		if row[outcome] == "" {
			continue
		}
		rec := SymptomRecord{outcome: row[outcome], present: make([]bool, len(source))}
		for col, i := range source {
			rec.present[col] = row[i] == PresentFlag
		}
		m.rows = append(m.rows, rec)
	}
	return m, nil
}

// outcomeColumn returns the leftmost header named like any of OutcomeColumns.
func outcomeColumn(t *Table) int {
	for i, h := range t.Header {
		for _, name := range OutcomeColumns {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

// Len returns the number of condition rows.
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Row returns row i in load order.
func (m *Matrix) Row(i int) SymptomRecord { return m.rows[i] }

// Column returns the vocabulary column of a symptom identifier.
func (m *Matrix) Column(symptom string) (int, bool) {
	if m == nil {
		return 0, false
	}
	col, ok := m.columns[symptom]
	return col, ok
}

// OutcomeColumn returns the header name holding condition labels.
func (m *Matrix) OutcomeColumn() string {
	if m == nil {
		return ""
	}
	return m.outcomeColumn
}

// Vocabulary returns the known symptom identifiers in column order.
func (m *Matrix) Vocabulary() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.vocabulary))
	copy(out, m.vocabulary)
	return out
}

// Outcomes returns the distinct raw outcome values in first-seen order.
func (m *Matrix) Outcomes() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(m.rows))
	var out []string
	for _, r := range m.rows {
		if _, ok := seen[r.outcome]; ok {
			continue
		}
		seen[r.outcome] = struct{}{}
		out = append(out, r.outcome)
	}
	return out
}

// keyColumn picks the label column of a detail table.
func keyColumn(t *Table) int {
	if i := outcomeColumn(t); i >= 0 {
		return i
	}
	return 0
}
