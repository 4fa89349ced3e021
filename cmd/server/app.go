package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"symptom-checker/internal/config"
	"symptom-checker/internal/core"
	"symptom-checker/internal/db"
	"symptom-checker/internal/reference"
)

// openSource returns the configured reference source and a release func.
func openSource(ctx context.Context, c *config.Config) (reference.Source, func(), error) {
	switch c.Data.Source {
	case config.SourcePostgres:
		conn, err := db.Open(ctx, c.Data.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRepository(conn), func() { _ = conn.Close() }, nil
	default:
		return reference.NewDirSource(c.Data.Dir, dataFiles(c.Data.Files)), func() {}, nil
	}
}

func dataFiles(f config.DataFiles) map[reference.Dataset]string {
	return map[reference.Dataset]string{
		reference.Occurrence:   f.Training,
		reference.Descriptions: f.Descriptions,
		reference.Precautions:  f.Precautions,
		reference.Medications:  f.Medications,
	}
}

// loadStore builds the reference store.  An unreachable database or a broken
// condition index file is fatal; a failed dataset is not.
func loadStore(ctx context.Context, c *config.Config, log *zap.Logger) (*reference.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Data.LoadTimeout)
	defer cancel()

	var index reference.ConditionIndex
	if c.Data.ConditionIndex != "" {
		t, err := reference.ReadFile(c.Data.ConditionIndex)
		if err != nil {
			return nil, fmt.Errorf("cannot read condition index: %w", err)
		}
		if index, err = reference.ConditionIndexFromTable(t); err != nil {
			return nil, err
		}
	}

	src, release, err := openSource(ctx, c)
	if err != nil {
		return nil, err
	}
	defer release()

	// Load logs each failed dataset; the store degrades to placeholders.
	store, _ := reference.Load(ctx, src, reference.LoadOptions{Index: index, Logger: log})
	return store, nil
}

func newService(store *reference.Store, c *config.Config, log *zap.Logger) *core.Service {
	return core.NewService(core.NewMatcher(store), core.Options{
		MinSymptoms: c.Matching.MinSymptoms,
		FoldCase:    c.Matching.FoldCase,
	}, log)
}
