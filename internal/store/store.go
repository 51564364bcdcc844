package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
)

// ErrSetNotFound is returned by write operations addressing a missing set.
var ErrSetNotFound = errors.New("task set not found")

// TaskSet is a group of tasks arranged together.
type TaskSet struct {
	ID         uuid.UUID  `json:"set_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArrangedAt *time.Time `json:"arranged_at,omitempty"`

	// Tasks in the order they were entered.
	Tasks []*SetTask `json:"tasks"`
	// Ranked is empty until the set has been arranged.
	Ranked []*RankedTask `json:"ranked,omitempty"`
	// Completions in the order the tasks were actually done.
	Completions []*Completion `json:"completions,omitempty"`
}

// Arranged reports whether the set has a ranking.
func (s *TaskSet) Arranged() bool { return s.ArrangedAt != nil }

// IsCompleted reports whether the task has a recorded completion.
func (s *TaskSet) IsCompleted(taskID uuid.UUID) bool {
	for _, c := range s.Completions {
		if c.TaskID == taskID {
			return true
		}
	}
	return false
}

// SetTask is a task stored in a set.
type SetTask struct {
	ID       uuid.UUID `json:"task_id"`
	SetID    uuid.UUID `json:"set_id"`
	Position int       `json:"position"`
	scoring.Task
	CreatedAt time.Time `json:"created_at"`
}

// RankedTask is one entry of a set's arrangement. Rank starts at 1.
type RankedTask struct {
	TaskID uuid.UUID `json:"task_id"`
	Rank   int       `json:"rank"`
	scoring.ScoredTask
}

// Completion records that a task was done, and in which order.
type Completion struct {
	TaskID      uuid.UUID `json:"task_id"`
	Position    int       `json:"position"`
	CompletedAt time.Time `json:"completed_at"`
}

type Store interface {
	CreateSet(ctx context.Context) (*TaskSet, error)
	// GetSet returns nil, nil when the set does not exist.
	GetSet(ctx context.Context, id uuid.UUID) (*TaskSet, error)
	ListSets(ctx context.Context) ([]*TaskSet, error)
	CountSets(ctx context.Context) (int, error)

	AddTask(ctx context.Context, setID uuid.UUID, task *SetTask) error
	SaveRanking(ctx context.Context, setID uuid.UUID, ranked []*RankedTask) error
	// RecordCompletion returns false when the task was already completed.
	RecordCompletion(ctx context.Context, setID, taskID uuid.UUID) (bool, error)

	ResetSets(ctx context.Context) error

	Close() error
}
