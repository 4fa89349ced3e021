package reference

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset indicates a dataset without a header row.
	ErrEmptyDataset = errors.New("dataset has no header row")
	// ErrDatasetMissing indicates a source that does not provide a dataset at all.
	ErrDatasetMissing = errors.New("dataset not provided by source")
	// ErrNoOutcomeColumn indicates an occurrence matrix without a condition column.
	ErrNoOutcomeColumn = errors.New("no outcome column")
)

// DataLoadError reports a dataset that could not be read or parsed at startup.
// The Store keeps running with that dataset empty.
type DataLoadError struct {
	Dataset  Dataset
	Location string
	Err      error
}

func (e *DataLoadError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("cannot load %s dataset: %v", e.Dataset, e.Err)
	}
	return fmt.Sprintf("cannot load %s dataset from %s: %v", e.Dataset, e.Location, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
