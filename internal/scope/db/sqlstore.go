package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS essays (
  id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rubrics (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  content TEXT NOT NULL,
  criteria_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gradings (
  id TEXT PRIMARY KEY,
  essay_id TEXT NOT NULL REFERENCES essays(id) ON DELETE CASCADE,
  rubric_id TEXT NOT NULL REFERENCES rubrics(id) ON DELETE CASCADE,
  results_json TEXT NOT NULL,
  total_score REAL NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS essays (
  id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS rubrics (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  content TEXT NOT NULL,
  criteria_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS gradings (
  id TEXT PRIMARY KEY,
  essay_id TEXT NOT NULL REFERENCES essays(id) ON DELETE CASCADE,
  rubric_id TEXT NOT NULL REFERENCES rubrics(id) ON DELETE CASCADE,
  results_json TEXT NOT NULL,
  total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);
`

// SQLStore persists records in sqlite or postgres
type SQLStore struct {
	db *DB
}

// NewSQLStore creates the schema if needed and returns a store over db
func NewSQLStore(ctx context.Context, db *DB) (*SQLStore, error) {
	schema := schemaSQLite
	if db.Driver() == DriverPostgres {
		schema = schemaPostgres
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// PutEssay adds or replaces an essay
func (s *SQLStore) PutEssay(ctx context.Context, e Essay) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO essays (id,filename,content,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET filename=EXCLUDED.filename, content=EXCLUDED.content`,
		e.ID, e.Filename, e.Content, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store essay %s: %w", e.ID, err)
	}
	return nil
}

// GetEssay returns the essay with the given ID
func (s *SQLStore) GetEssay(ctx context.Context, id string) (Essay, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,filename,content,created_at FROM essays WHERE id=$1`, id)
	return scanEssay(row)
}

// ListEssays returns essays oldest first
func (s *SQLStore) ListEssays(ctx context.Context) ([]Essay, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,filename,content,created_at FROM essays ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var essays []Essay
	for rows.Next() {
		e, err := scanEssay(rows)
		if err != nil {
			return nil, err
		}
		essays = append(essays, e)
	}
	return essays, rows.Err()
}

// PutRubric adds or replaces a rubric
func (s *SQLStore) PutRubric(ctx context.Context, r Rubric) error {
	cj, err := json.Marshal(r.Criteria)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO rubrics (id,name,content,criteria_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, content=EXCLUDED.content, criteria_json=EXCLUDED.criteria_json`,
		r.ID, r.Name, r.Content, string(cj), r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store rubric %s: %w", r.ID, err)
	}
	return nil
}

// GetRubric returns the rubric with the given ID
func (s *SQLStore) GetRubric(ctx context.Context, id string) (Rubric, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,content,criteria_json,created_at FROM rubrics WHERE id=$1`, id)

	var r Rubric
	var cjson string
	var created int64
	if err := row.Scan(&r.ID, &r.Name, &r.Content, &cjson, &created); err != nil {
		return Rubric{}, notFound(err)
	}
	if err := json.Unmarshal([]byte(cjson), &r.Criteria); err != nil {
		return Rubric{}, fmt.Errorf("failed to decode criteria of rubric %s: %w", id, err)
	}
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}

// PutGrading adds or replaces a grading
func (s *SQLStore) PutGrading(ctx context.Context, g Grading) error {
	rj, err := json.Marshal(g.Results)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO gradings (id,essay_id,rubric_id,results_json,total_score,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET results_json=EXCLUDED.results_json, total_score=EXCLUDED.total_score`,
		g.ID, g.EssayID, g.RubricID, string(rj), g.TotalScore, g.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store grading %s: %w", g.ID, err)
	}
	return nil
}

// GetGrading returns the grading with the given ID
func (s *SQLStore) GetGrading(ctx context.Context, id string) (Grading, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,essay_id,rubric_id,results_json,total_score,created_at
		FROM gradings WHERE id=$1`, id)

	var g Grading
	var rjson string
	var created int64
	if err := row.Scan(&g.ID, &g.EssayID, &g.RubricID, &rjson, &g.TotalScore, &created); err != nil {
		return Grading{}, notFound(err)
	}
	if err := json.Unmarshal([]byte(rjson), &g.Results); err != nil {
		return Grading{}, fmt.Errorf("failed to decode results of grading %s: %w", id, err)
	}
	g.CreatedAt = time.Unix(0, created)
	return g, nil
}

// Counts returns the number of stored records
func (s *SQLStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM essays),
		(SELECT COUNT(*) FROM rubrics),
		(SELECT COUNT(*) FROM gradings)`).Scan(&c.Essays, &c.Rubrics, &c.Gradings)
	return c, err
}

// Flush is a no-op, every write is committed immediately
func (s *SQLStore) Flush() error {
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEssay(row scanner) (Essay, error) {
	var e Essay
	var created int64
	if err := row.Scan(&e.ID, &e.Filename, &e.Content, &created); err != nil {
		return Essay{}, notFound(err)
	}
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
