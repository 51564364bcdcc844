package scoring

import (
	"fmt"
	"io"
	"log/slog"
)

// Rating bounds for tasks whose attributes are all valid.
const (
	MinRating = BaseLow + MinBonus
	MaxRating = BaseHigh + MaxBonus
)

// ScoredTask is a task with its final rating and how it was derived.
type ScoredTask struct {
	Task
	Rating    int            `json:"rating"`
	BaseScore int            `json:"base_score"`
	Bonus     int            `json:"bonus"`
	Exact     bool           `json:"exact_match"`
	Factors   []FactorResult `json:"factors,omitempty"`
}

// Options configures a Classifier.
type Options struct {
	// Trace emits one debug record per scored task. It never changes results.
	Trace  bool
	Logger *slog.Logger
}

// Classifier runs the train, predict, bonus and rank pipeline over a batch.
type Classifier struct {
	trace  bool
	logger *slog.Logger
}

// NewClassifier creates a Classifier. A nil logger discards trace output.
func NewClassifier(opts Options) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Classifier{trace: opts.Trace, logger: logger}
}

// ClassifyAndRank scores every task and returns them most urgent first. The
// model is trained afresh on each call. A task with an invalid attribute fails
// the whole batch.
func (c *Classifier) ClassifyAndRank(tasks []Task) ([]ScoredTask, error) {
	model, err := Train()
	if err != nil {
		return nil, err
	}
	scored, err := c.ScoreAll(model, tasks)
	if err != nil {
		return nil, err
	}
	return Rank(scored), nil
}

// ScoreAll scores tasks in input order without ranking them.
func (c *Classifier) ScoreAll(model *Model, tasks []Task) ([]ScoredTask, error) {
	scored := make([]ScoredTask, 0, len(tasks))
	for i, t := range tasks {
		st, err := c.ScoreTask(model, t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if c.trace {
			c.logger.Debug("scored task",
				"index", i,
				"type", t.Type,
				"deadline", t.Deadline,
				"importance", t.Importance,
				"difficulty", t.Difficulty,
				"base_score", st.BaseScore,
				"exact_match", st.Exact,
			)
		}
		scored = append(scored, st)
	}
	return scored, nil
}

// ScoreTask computes the rating of a single task: predicted base score plus
// the attribute bonus.
func (c *Classifier) ScoreTask(model *Model, t Task) (ScoredTask, error) {
	p, err := model.Lookup(t.Attributes())
	if err != nil {
		return ScoredTask{}, err
	}

	factors := Factors(t)
	var bonus int
	for _, f := range factors {
		bonus += f.Points
	}

	return ScoredTask{
		Task:      t,
		Rating:    p.Score + bonus,
		BaseScore: p.Score,
		Bonus:     bonus,
		Exact:     p.Exact,
		Factors:   factors,
	}, nil
}
