package db

import (
	"errors"
	"time"

	"github.com/dsjohal14/gradelight/internal/grading"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("db: not found")

// Essay is an uploaded essay
type Essay struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Rubric is an uploaded rubric with its parsed criteria
type Rubric struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Content   string              `json:"content"`
	Criteria  []grading.Criterion `json:"criteria"`
	CreatedAt time.Time           `json:"created_at"`
}

// Grading is one graded essay/rubric pair
type Grading struct {
	ID         string          `json:"id"`
	EssayID    string          `json:"essay_id"`
	RubricID   string          `json:"rubric_id"`
	Results    *grading.Report `json:"results"`
	TotalScore float64         `json:"total_score"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Counts holds the number of stored records per kind
type Counts struct {
	Essays   int `json:"essays"`
	Rubrics  int `json:"rubrics"`
	Gradings int `json:"gradings"`
}
