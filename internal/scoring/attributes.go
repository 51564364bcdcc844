package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidAttribute is returned when a task carries a value outside the
// enumerations the model was trained on.
var ErrInvalidAttribute = errors.New("invalid attribute value")

type TaskType string

const (
	TypeStudyWork TaskType = "Study/work"
	TypePersonal  TaskType = "Personal"
)

type Deadline string

const (
	Deadline1Day  Deadline = "1 day left"
	Deadline2Days Deadline = "2 days left"
	Deadline3Days Deadline = "3 days left"
)

type Importance string

const (
	ImportanceNot   Importance = "Not important"
	ImportanceQuite Importance = "Quite important"
	ImportanceVery  Importance = "Very important"
)

type Difficulty string

const (
	DifficultyNormal Difficulty = "Normal"
	DifficultyHard   Difficulty = "Hard"
)

func (t TaskType) Valid() bool {
	return t == TypeStudyWork || t == TypePersonal
}

func (d Deadline) Valid() bool {
	return d == Deadline1Day || d == Deadline2Days || d == Deadline3Days
}

func (i Importance) Valid() bool {
	return i == ImportanceNot || i == ImportanceQuite || i == ImportanceVery
}

func (d Difficulty) Valid() bool {
	return d == DifficultyNormal || d == DifficultyHard
}

// Attributes is the four-value tuple the model is keyed on.
type Attributes struct {
	Type       TaskType   `json:"type"`
	Deadline   Deadline   `json:"deadline"`
	Importance Importance `json:"importance"`
	Difficulty Difficulty `json:"difficulty"`
}

// Validate reports the first field holding an unknown value.
func (a Attributes) Validate() error {
	switch {
	case !a.Type.Valid():
		return fmt.Errorf("%w: type %q", ErrInvalidAttribute, a.Type)
	case !a.Deadline.Valid():
		return fmt.Errorf("%w: deadline %q", ErrInvalidAttribute, a.Deadline)
	case !a.Importance.Valid():
		return fmt.Errorf("%w: importance %q", ErrInvalidAttribute, a.Importance)
	case !a.Difficulty.Valid():
		return fmt.Errorf("%w: difficulty %q", ErrInvalidAttribute, a.Difficulty)
	}
	return nil
}

// matches counts how many of the four attributes are equal.
func (a Attributes) matches(b Attributes) int {
	n := 0
	if a.Type == b.Type {
		n++
	}
	if a.Deadline == b.Deadline {
		n++
	}
	if a.Importance == b.Importance {
		n++
	}
	if a.Difficulty == b.Difficulty {
		n++
	}
	return n
}

// Task is an input task as entered by the user.
type Task struct {
	Description string     `json:"description"`
	Type        TaskType   `json:"type"`
	Deadline    Deadline   `json:"deadline"`
	Importance  Importance `json:"importance"`
	Difficulty  Difficulty `json:"difficulty"`

	// Not used by scoring.
	Checkbox string `json:"checkbox,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
}

func (t Task) Attributes() Attributes {
	return Attributes{
		Type:       t.Type,
		Deadline:   t.Deadline,
		Importance: t.Importance,
		Difficulty: t.Difficulty,
	}
}
