// Package db provides persistence for essays, rubrics and gradings.
package db

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File names inside the data directory
const (
	essaysFile   = "essays.jsonl"
	rubricsFile  = "rubrics.jsonl"
	gradingsFile = "gradings.jsonl"
)

// Store keeps records in memory and writes them to JSONL files in dataDir
type Store struct {
	dataDir  string
	mu       sync.RWMutex
	essays   []Essay
	rubrics  []Rubric
	gradings []Grading
}

// NewStore creates a new store with the given data directory
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{dataDir: dataDir}

	// Load existing data if present
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return s, nil
}

// PutEssay adds an essay, replacing one with the same ID, and writes it through
func (s *Store) PutEssay(_ context.Context, e Essay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.essays = upsert(s.essays, e, func(x Essay) string { return x.ID })
	return s.flushLocked()
}

// GetEssay returns the essay with the given ID
func (s *Store) GetEssay(_ context.Context, id string) (Essay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.essays, id, func(x Essay) string { return x.ID })
}

// ListEssays returns a copy of all essays
func (s *Store) ListEssays(_ context.Context) ([]Essay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Essay(nil), s.essays...), nil
}

// PutRubric adds a rubric, replacing one with the same ID
func (s *Store) PutRubric(_ context.Context, r Rubric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rubrics = upsert(s.rubrics, r, func(x Rubric) string { return x.ID })
	return s.flushLocked()
}

// GetRubric returns the rubric with the given ID
func (s *Store) GetRubric(_ context.Context, id string) (Rubric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.rubrics, id, func(x Rubric) string { return x.ID })
}

// PutGrading adds a grading, replacing one with the same ID
func (s *Store) PutGrading(_ context.Context, g Grading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradings = upsert(s.gradings, g, func(x Grading) string { return x.ID })
	return s.flushLocked()
}

// GetGrading returns the grading with the given ID
func (s *Store) GetGrading(_ context.Context, id string) (Grading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.gradings, id, func(x Grading) string { return x.ID })
}

// Counts returns the number of stored records
func (s *Store) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{Essays: len(s.essays), Rubrics: len(s.rubrics), Gradings: len(s.gradings)}, nil
}

// Flush writes the store to disk
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Close flushes and closes the store
func (s *Store) Close() error {
	return s.Flush()
}

func (s *Store) flushLocked() error {
	if err := writeJSONL(filepath.Join(s.dataDir, essaysFile), s.essays); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(s.dataDir, rubricsFile), s.rubrics); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(s.dataDir, gradingsFile), s.gradings); err != nil {
		return err
	}

	return nil
}

// load reads store from disk, missing files mean empty collections
func (s *Store) load() error {
	var err error
	if s.essays, err = readJSONL[Essay](filepath.Join(s.dataDir, essaysFile)); err != nil {
		return err
	}
	if s.rubrics, err = readJSONL[Rubric](filepath.Join(s.dataDir, rubricsFile)); err != nil {
		return err
	}
	if s.gradings, err = readJSONL[Grading](filepath.Join(s.dataDir, gradingsFile)); err != nil {
		return err
	}
	return nil
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	for i := range items {
		if key(items[i]) == key(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func find[T any](items []T, id string, key func(T) string) (T, error) {
	for i := range items {
		if key(items[i]) == id {
			return items[i], nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// writeJSONL replaces path with one JSON record per line, via a temp file
func writeJSONL[T any](path string, items []T) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	for i := range items {
		if err := encoder.Encode(items[i]); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var items []T
	scanner := bufio.NewScanner(f)
	// Essays can be long single lines
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var item T
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
		}
		items = append(items, item)
	}

	return items, scanner.Err()
}
