package reference

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Placeholders returned when a condition has no entry in a detail dataset.
const (
	DescriptionPlaceholder = "Description not available."
	PrecautionPlaceholder  = "No precautions available."
	MedicationPlaceholder  = "No medications available."
)

// Store owns the parsed reference tables for the lifetime of the process.
// It is built once by Load and never mutated, so it is safe for concurrent readers.
type Store struct {
	matrix       *Matrix
	index        ConditionIndex
	descriptions map[string]string
	precautions  map[string][]string
	medications  map[string][]string
	loadErrs     map[Dataset]error
}

// Stats summarizes what a Store holds.
type Stats struct {
	Conditions   int
	Symptoms     int
	Descriptions int
	Precautions  int
	Medications  int
	Codes        int
	Failed       []Dataset
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Index resolves numeric outcome codes. Nil selects DefaultConditionIndex.
	Index  ConditionIndex
	Logger *zap.Logger
}

// Load reads all four datasets from src concurrently. A dataset that fails to
// load is logged and left empty; Load then returns a usable Store together with
// the joined *DataLoadError values. The returned Store is never nil.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		index:        opts.Index,
		descriptions: map[string]string{},
		precautions:  map[string][]string{},
		medications:  map[string][]string{},
		loadErrs:     map[Dataset]error{},
	}
	if s.index == nil {
		s.index = DefaultConditionIndex()
	}

	var (
		matrix                   *Matrix
		descriptions             map[string]string
		precautions, medications map[string][]string
		errs                     = make([]error, len(Datasets))
	)
	build := []func(*Table) error{
		func(t *Table) (err error) { matrix, err = NewMatrix(t); return err },
		func(t *Table) (err error) { descriptions, err = indexDescriptions(t); return err },
		func(t *Table) error { precautions = indexAuxiliary(t); return nil },
		func(t *Table) error { medications = indexAuxiliary(t); return nil },
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range Datasets {
		g.Go(func() error {
			t, err := src.ReadTable(gctx, d)
			if err == nil {
				err = build[i](t)
			}
			if err != nil {
				errs[i] = &DataLoadError{Dataset: d, Location: locate(src, d), Err: err}
				return nil
			}
			log.Debug("reference dataset loaded", zap.String("dataset", string(d)), zap.Int("rows", t.Len()))
			return nil
		})
	}
	_ = g.Wait()

	if matrix != nil {
		s.matrix = matrix
	}
	if descriptions != nil {
		s.descriptions = descriptions
	}
	if precautions != nil {
		s.precautions = precautions
	}
	if medications != nil {
		s.medications = medications
	}

	var failed []error
	for i, err := range errs {
		if err == nil {
			continue
		}
		s.loadErrs[Datasets[i]] = err
		failed = append(failed, err)
		log.Warn("reference dataset unavailable, serving placeholders",
			zap.String("dataset", string(Datasets[i])), zap.Error(err))
	}

	st := s.Stats()
	log.Info("reference store ready",
		zap.Int("conditions", st.Conditions),
		zap.Int("symptoms", st.Symptoms),
		zap.Int("failed", len(st.Failed)),
		zap.Duration("elapsed", time.Since(start)))
	return s, errors.Join(failed...)
}

func locate(src Source, d Dataset) string {
	if l, ok := src.(Locator); ok {
		return l.Location(d)
	}
	return ""
}

func indexDescriptions(t *Table) (map[string]string, error) {
	key := keyColumn(t)
	desc := t.ColumnFold("description")
	if desc < 0 {
		for i := range t.Header {
			if i != key {
				desc = i
				break
			}
		}
	}
	if desc < 0 {
		return nil, fmt.Errorf("no description column in %v", t.Header)
	}
	out := make(map[string]string, t.Len())
	for _, row := range t.Rows {
		if _, seen := out[row[key]]; seen {
			continue
		}
		out[row[key]] = row[desc]
	}
	return out, nil
}

// indexAuxiliary maps each label to its non-empty non-key values in column order.
func indexAuxiliary(t *Table) map[string][]string {
	key := keyColumn(t)
	out := make(map[string][]string, t.Len())
	for _, row := range t.Rows {
		if _, seen := out[row[key]]; seen {
			continue
		}
		values := make([]string, 0, len(row)-1)
		for i, v := range row {
			if i == key || v == "" {
				continue
			}
			values = append(values, v)
		}
		out[row[key]] = values
	}
	return out
}

// Matrix returns the occurrence matrix. It is nil when the dataset failed to load;
// Matrix methods treat a nil receiver as empty.
func (s *Store) Matrix() *Matrix { return s.matrix }

// ResolveCode looks a numeric outcome code up in the condition index.
func (s *Store) ResolveCode(code int) (string, bool) { return s.index.Lookup(code) }

// Describe returns the description for label, or DescriptionPlaceholder.
func (s *Store) Describe(label string) string {
	if d, ok := s.descriptions[label]; ok {
		return d
	}
	return DescriptionPlaceholder
}

// PrecautionsFor returns the precautions for label, or a single placeholder.
func (s *Store) PrecautionsFor(label string) []string {
	return lookupList(s.precautions, label, PrecautionPlaceholder)
}

// MedicationsFor returns the medications for label, or a single placeholder.
func (s *Store) MedicationsFor(label string) []string {
	return lookupList(s.medications, label, MedicationPlaceholder)
}

func lookupList(m map[string][]string, label, placeholder string) []string {
	values, ok := m[label]
	if !ok {
		return []string{placeholder}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Vocabulary returns the symptom identifiers of the matrix in column order.
func (s *Store) Vocabulary() []string { return s.matrix.Vocabulary() }

// Conditions returns the distinct resolved condition labels in load order.
func (s *Store) Conditions() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, o := range s.matrix.Outcomes() {
		label := o
		if code, err := strconv.Atoi(o); err == nil {
			if l, ok := s.index.Lookup(code); ok {
				label = l
			}
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// LoadError returns the load failure recorded for d, if any.
func (s *Store) LoadError(d Dataset) error { return s.loadErrs[d] }

// Stats reports table sizes and failed datasets.
func (s *Store) Stats() Stats {
	st := Stats{
		Conditions:   s.matrix.Len(),
		Symptoms:     len(s.matrix.Vocabulary()),
		Descriptions: len(s.descriptions),
		Precautions:  len(s.precautions),
		Medications:  len(s.medications),
		Codes:        len(s.index),
	}
	for _, d := range Datasets {
		if s.loadErrs[d] != nil {
			st.Failed = append(st.Failed, d)
		}
	}
	return st
}
