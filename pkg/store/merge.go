package store

import (
	"fmt"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	RunsMerged       int
	RunsSkipped      int
	ResultsMerged    int
	SourcesProcessed int
}

// Merge combines multiple run history databases into one.
// Runs already present in the destination (same UUID) are skipped.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	// Open/create destination database
	dest, err := New(Config{Path: cfg.DestPath})
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer dest.Close()

	stats := &MergeStats{}

	// Process each source database
	for _, sourcePath := range cfg.SourcePaths {
		if err := mergeFrom(dest, sourcePath, stats); err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies runs from a source database to the destination.
func mergeFrom(dest Store, sourcePath string, stats *MergeStats) error {
	source, err := NewSQLite(sourcePath)
	if err != nil {
		return fmt.Errorf("opening source database: %w", err)
	}
	defer source.Close()

	runs, err := source.Runs()
	if err != nil {
		return err
	}

	for _, r := range runs {
		exists, err := dest.RunExists(r.UUID)
		if err != nil {
			return err
		}
		if exists {
			stats.RunsSkipped++
			continue
		}
		if err := dest.AddRun(r); err != nil {
			return err
		}
		stats.RunsMerged++
		stats.ResultsMerged += len(r.Results)
	}
	return nil
}
