package scoring

import (
	"errors"
	"fmt"
)

// ErrTrainingDataCorrupt means the training rows cannot be fit. It indicates a
// programming error and callers should treat it as fatal.
var ErrTrainingDataCorrupt = errors.New("training data corrupt")

// Model maps an attribute tuple to a base score. Tuples absent from the
// training rows resolve to the nearest row.
type Model struct {
	exact map[Attributes]int // tuple -> row index
	rows  []TrainingExample
}

// Train fits a Model on the embedded catalog.
func Train() (*Model, error) {
	return TrainOn(catalog[:])
}

// TrainOn fits a Model on the given rows. Every row must carry known attribute
// values and one of the catalog base scores, and no tuple may be labelled twice
// with different scores.
func TrainOn(rows []TrainingExample) (*Model, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrTrainingDataCorrupt)
	}
	m := &Model{
		exact: make(map[Attributes]int, len(rows)),
		rows:  make([]TrainingExample, len(rows)),
	}
	copy(m.rows, rows)

	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrTrainingDataCorrupt, i, err)
		}
		switch row.Score {
		case BaseHigh, BaseMedium, BaseLow:
		default:
			return nil, fmt.Errorf("%w: row %d: score %d", ErrTrainingDataCorrupt, i, row.Score)
		}
		if j, ok := m.exact[row.Attributes]; ok {
			if rows[j].Score != row.Score {
				return nil, fmt.Errorf("%w: row %d: conflicting labels %d and %d", ErrTrainingDataCorrupt, i, rows[j].Score, row.Score)
			}
			continue
		}
		m.exact[row.Attributes] = i
	}
	return m, nil
}

// Prediction is the outcome of a single lookup.
type Prediction struct {
	Score int
	Exact bool
	// Row is the index of the training row the score was taken from.
	Row int
}

// Predict returns the base score for the given attributes.
func (m *Model) Predict(a Attributes) (int, error) {
	p, err := m.Lookup(a)
	if err != nil {
		return 0, err
	}
	return p.Score, nil
}

// Lookup is Predict with provenance. Unseen tuples take the score of the row
// sharing the most attribute values; ties go to the earliest row.
func (m *Model) Lookup(a Attributes) (Prediction, error) {
	if err := a.Validate(); err != nil {
		return Prediction{}, err
	}

	if i, ok := m.exact[a]; ok {
		return Prediction{Score: m.rows[i].Score, Exact: true, Row: i}, nil
	}

	best, bestMatches := -1, -1
	for i, row := range m.rows {
		if n := row.matches(a); n > bestMatches {
			best, bestMatches = i, n
		}
	}
	return Prediction{Score: m.rows[best].Score, Row: best}, nil
}

// Size returns the number of distinct tuples the model was trained on.
func (m *Model) Size() int { return len(m.exact) }
