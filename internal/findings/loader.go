// Package findings reads research worker output from the workspace. All
// filesystem I/O around the citation engine lives here: the engine itself
// only ever sees in-memory findings records.
package findings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"citer/internal/cache"
	"citer/internal/model"
)

// Pattern matches findings files produced by research workers
const Pattern = "findings_*.json"

// Loader reads findings_*.json records from a findings directory. Parsed
// records are cached in memory keyed by path, size, and mtime so repeated
// pipeline runs in one process skip re-parsing untouched files.
type Loader struct {
	dir   string
	cache cache.Cache
}

// NewLoader creates a loader for the given findings directory
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: cache.NewMemoryCache(15*time.Minute, 5*time.Minute),
	}
}

// Load reads all findings records from the directory. Malformed files are
// skipped and reported as warnings; a missing directory is an error because
// it signals a wrong workspace, not bad worker output.
func (l *Loader) Load() ([]model.FindingsRecord, []string, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, nil, fmt.Errorf("findings directory: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(l.dir, Pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("glob findings: %w", err)
	}
	sort.Strings(paths) // deterministic record order

	var records []model.FindingsRecord
	var warnings []string

	for _, path := range paths {
		rec, err := l.loadOne(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not process %s: %v", filepath.Base(path), err))
			continue
		}
		records = append(records, rec)
	}

	return records, warnings, nil
}

func (l *Loader) loadOne(path string) (model.FindingsRecord, error) {
	var rec model.FindingsRecord

	info, err := os.Stat(path)
	if err != nil {
		return rec, err
	}
	key := cache.Key(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()))

	if raw, ok := l.cache.Get(key); ok {
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("parse: %w", err)
	}

	_ = l.cache.Set(key, raw, 0)
	return rec, nil
}
