package core

import (
	"fmt"
	"strconv"
	"strings"

	"symptom-checker/internal/reference"
	"symptom-checker/pkg"
)

// Confidence is reported with every diagnosis.  It is a fixed placeholder and
// is not derived from the match score or the size of the matrix.
const Confidence = 75

// ReferenceData is the read-only view of the reference store the Matcher needs.
type ReferenceData interface {
	Matrix() *reference.Matrix
	ResolveCode(code int) (string, bool)
	Describe(label string) string
	PrecautionsFor(label string) []string
	MedicationsFor(label string) []string
	LoadError(d reference.Dataset) error
}

// SymptomSet is an unordered set of symptom identifiers.
type SymptomSet map[string]struct{}

// NewSymptomSet builds a set from identifiers, collapsing duplicates.
func NewSymptomSet(ids ...string) SymptomSet {
	s := make(SymptomSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s SymptomSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Match describes the winning row of a scoring pass.
type Match struct {
	Row     int    // position in load order
	Outcome string // raw outcome cell
	Label   string // resolved condition label
	Score   int    // matched symptom count
}

// Empty reports whether no symptom matched any row.  The first row still wins
// in that case.
func (m Match) Empty() bool { return m.Score == 0 }

// Matcher selects the best-matching condition for a symptom set.  It holds no
// per-call state and is safe for concurrent use.
type Matcher struct {
	ref ReferenceData
}

// NewMatcher constructs a Matcher over ref.
func NewMatcher(ref ReferenceData) *Matcher {
	return &Matcher{ref: ref}
}

// Best scores every row of the occurrence matrix and returns the one with the
// strictly highest score; ties go to the row loaded first.  Identifiers outside
// the matrix vocabulary are ignored.
func (m *Matcher) Best(set SymptomSet) (Match, error) {
	matrix := m.ref.Matrix()
	if matrix.Len() == 0 {
		return Match{}, m.noData()
	}

	cols := make([]int, 0, len(set))
	for id := range set {
		if col, ok := matrix.Column(id); ok {
			cols = append(cols, col)
		}
	}

	best := Match{Row: -1, Score: -1}
	for i := 0; i < matrix.Len(); i++ {
		row := matrix.Row(i)
		score := 0
		for _, col := range cols {
			if row.Present(col) {
				score++
			}
		}
		if score > best.Score {
			best = Match{Row: i, Outcome: row.Outcome(), Score: score}
		}
	}
	best.Label = m.resolveLabel(best.Outcome)
	return best, nil
}

// Diagnose selects the best match and enriches it from the reference store.
func (m *Matcher) Diagnose(set SymptomSet) (*pkg.DiagnosisResult, error) {
	match, err := m.Best(set)
	if err != nil {
		return nil, err
	}
	return m.enrich(match.Label), nil
}

func (m *Matcher) enrich(label string) *pkg.DiagnosisResult {
	return &pkg.DiagnosisResult{
		Disease:     label,
		Confidence:  Confidence,
		Description: m.ref.Describe(label),
		Medications: m.ref.MedicationsFor(label),
		Precautions: m.ref.PrecautionsFor(label),
	}
}

// resolveLabel maps a numeric outcome code through the condition index.  Codes
// missing from the index fall back to their own text.
func (m *Matcher) resolveLabel(outcome string) string {
	raw := strings.TrimSpace(outcome)
	code, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	if label, ok := m.ref.ResolveCode(code); ok {
		return label
	}
	return raw
}

func (m *Matcher) noData() error {
	if err := m.ref.LoadError(reference.Occurrence); err != nil {
		return fmt.Errorf("%w: %w", ErrNoReferenceData, err)
	}
	return ErrNoReferenceData
}
