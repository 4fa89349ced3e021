package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset names one of the four reference tables.
type Dataset string

const (
	Occurrence   Dataset = "training"
	Descriptions Dataset = "description"
	Precautions  Dataset = "precautions"
	Medications  Dataset = "medications"
)

// Datasets lists every dataset in load order.
var Datasets = []Dataset{Occurrence, Descriptions, Precautions, Medications}

// DefaultFiles are the file names used by a DirSource when none are configured.
var DefaultFiles = map[Dataset]string{
	Occurrence:   "Training_data.csv",
	Descriptions: "description.csv",
	Precautions:  "precautions_df.csv",
	Medications:  "medications.csv",
}

// Source provides raw reference tables. Implementations must release any handle
// they acquire before ReadTable returns.
type Source interface {
	ReadTable(ctx context.Context, d Dataset) (*Table, error)
}

// Locator is implemented by sources that can name where a dataset lives.
type Locator interface {
	Location(d Dataset) string
}

// DirSource reads each dataset from a CSV file in Dir.
type DirSource struct {
	Dir   string
	Files map[Dataset]string
}

// NewDirSource returns a DirSource, filling unset file names from DefaultFiles.
func NewDirSource(dir string, files map[Dataset]string) *DirSource {
	merged := make(map[Dataset]string, len(DefaultFiles))
	for d, name := range DefaultFiles {
		merged[d] = name
	}
	for d, name := range files {
		if name != "" {
			merged[d] = name
		}
	}
	return &DirSource{Dir: dir, Files: merged}
}

// Location implements Locator.
func (s *DirSource) Location(d Dataset) string { return s.Path(d) }

// Path returns the file backing dataset d.
func (s *DirSource) Path(d Dataset) string {
	return filepath.Join(s.Dir, s.Files[d])
}

func (s *DirSource) ReadTable(ctx context.Context, d Dataset) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Files[d] == "" {
		return nil, fmt.Errorf("%w: %s", ErrDatasetMissing, d)
	}
	return ReadFile(s.Path(d))
}

// ReadFile parses one CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Blocks serves datasets from in-memory delimited text.
type Blocks map[Dataset]string

func (b Blocks) ReadTable(ctx context.Context, d Dataset) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, ok := b[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetMissing, d)
	}
	return ParseString(text)
}
