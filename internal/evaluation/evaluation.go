// Package evaluation compares the arranged order of a task set with the order
// in which its tasks were actually completed.
package evaluation

import (
	"errors"
	"math"
)

// ErrIncompleteDecisions is returned when accuracy is requested before every
// arranged task has been completed.
var ErrIncompleteDecisions = errors.New("cannot rate accuracy: tasks not fully completed")

// Accuracy is the share of positions where the arranged task is the one that
// was actually done at that position.
type Accuracy struct {
	NumOfTasks int     `json:"num_of_tasks"`
	Corrects   int     `json:"corrects"`
	Percentage float64 `json:"percentage"`
}

// Performance is the share of arranged tasks that have been completed.
type Performance struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

// RateAccuracy compares predicted and actual orders position by position.
// Both must have the same length.
func RateAccuracy[T comparable](predicted, actual []T) (Accuracy, error) {
	if len(predicted) != len(actual) {
		return Accuracy{}, ErrIncompleteDecisions
	}
	acc := Accuracy{NumOfTasks: len(predicted)}
	for i := range predicted {
		if predicted[i] == actual[i] {
			acc.Corrects++
		}
	}
	acc.Percentage = percent(acc.Corrects, acc.NumOfTasks)
	return acc, nil
}

// RatePerformance reports how many of total tasks were completed.
func RatePerformance(total, completed int) Performance {
	return Performance{
		Total:      total,
		Completed:  completed,
		Percentage: percent(completed, total),
	}
}

// Overall aggregates per-set performance into a single figure.
func Overall(sets []Performance) Performance {
	var total, completed int
	for _, p := range sets {
		total += p.Total
		completed += p.Completed
	}
	return RatePerformance(total, completed)
}

// Direction tells how performance moved between two sets.
type Direction string

const (
	Improved  Direction = "improved"
	Decreased Direction = "decreased"
	Unchanged Direction = "unchanged"
)

// Trend is the change from the previous set to the latest one. Change is the
// absolute difference in percentage points.
type Trend struct {
	Direction Direction `json:"direction"`
	Change    float64   `json:"change"`
}

// LatestTrend compares the last two entries of history. It returns nil when
// fewer than two sets have been evaluated.
func LatestTrend(history []Performance) *Trend {
	if len(history) < 2 {
		return nil
	}
	current := history[len(history)-1].Percentage
	last := history[len(history)-2].Percentage
	diff := math.Round((current-last)*10) / 10

	t := &Trend{Direction: Unchanged, Change: math.Abs(diff)}
	switch {
	case diff > 0:
		t.Direction = Improved
	case diff < 0:
		t.Direction = Decreased
	}
	return t
}

// percent returns part/whole as a percentage rounded to one decimal place.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
