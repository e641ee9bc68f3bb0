package db

import "context"

// Storage is the interface for essay, rubric and grading persistence
// Both Store (file-based) and SQLStore (sqlite/postgres) implement this interface
type Storage interface {
	// PutEssay adds or replaces an essay
	PutEssay(ctx context.Context, e Essay) error
	GetEssay(ctx context.Context, id string) (Essay, error)
	// ListEssays returns essays oldest first
	ListEssays(ctx context.Context) ([]Essay, error)

	PutRubric(ctx context.Context, r Rubric) error
	GetRubric(ctx context.Context, id string) (Rubric, error)

	PutGrading(ctx context.Context, g Grading) error
	GetGrading(ctx context.Context, id string) (Grading, error)

	// Counts returns the number of stored records
	Counts(ctx context.Context) (Counts, error)

	// Flush persists any pending changes
	Flush() error

	// Close flushes and closes the storage
	Close() error
}

// Ensure both Store and SQLStore implement Storage
var _ Storage = (*Store)(nil)
var _ Storage = (*SQLStore)(nil)
