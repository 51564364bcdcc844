// Package arranger manages task sets: it collects tasks, ranks them with the
// classifier and tracks the order in which they were actually done.
package arranger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Arranger/internal/config"
	"github.com/MikeSquared-Agency/Arranger/internal/evaluation"
	"github.com/MikeSquared-Agency/Arranger/internal/hermes"
	"github.com/MikeSquared-Agency/Arranger/internal/metrics"
	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
	"github.com/MikeSquared-Agency/Arranger/internal/store"
)

var (
	ErrSetLimit       = errors.New("task set limit reached")
	ErrSetFull        = errors.New("task set is full")
	ErrSetArranged    = errors.New("task set is already arranged")
	ErrSetNotArranged = errors.New("task set has not been arranged")
	ErrEmptySet       = errors.New("must have at least 1 task")
	ErrTaskNotFound   = errors.New("task not found in set")
)

type Arranger struct {
	store      store.Store
	hermes     hermes.Client
	metrics    *metrics.Metrics
	classifier *scoring.Classifier
	cfg        *config.Config
	logger     *slog.Logger

	// mu serialises writes so the set and task limits hold.
	mu sync.Mutex
}

// train builds the model used for one batch. Every Rank and Arrange call
// trains its own model.
var train = scoring.Train

// New returns an Arranger. It trains once up front so a broken catalog stops
// the service at startup.
func New(s store.Store, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) (*Arranger, error) {
	if _, err := train(); err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	if h == nil {
		h = hermes.Nop{}
	}
	return &Arranger{
		store:   s,
		hermes:  h,
		metrics: m,
		classifier: scoring.NewClassifier(scoring.Options{
			Trace:  cfg.Classifier.Trace,
			Logger: logger,
		}),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Classifier exposes the stateless ranking pipeline.
func (a *Arranger) Classifier() *scoring.Classifier { return a.classifier }

// Rank scores and orders tasks without storing them.
func (a *Arranger) Rank(tasks []scoring.Task) ([]scoring.ScoredTask, error) {
	model, err := train()
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	scored, err := a.classifier.ScoreAll(model, tasks)
	if err != nil {
		a.countError("invalid_attribute")
		return nil, err
	}
	return scoring.Rank(scored), nil
}

func (a *Arranger) CreateSet(ctx context.Context) (*store.TaskSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, err := a.store.CountSets(ctx)
	if err != nil {
		return nil, err
	}
	if n >= a.cfg.Limits.MaxSets {
		a.countError("set_limit")
		return nil, ErrSetLimit
	}

	set, err := a.store.CreateSet(ctx)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.SetsCreated.Inc()
	}
	a.logger.Info("task set created", "set_id", set.ID)
	a.publish(ctx, hermes.SubjectSetCreated(set.ID.String()), hermes.SetCreatedEvent{
		SetID:     set.ID.String(),
		CreatedAt: set.CreatedAt,
	})
	return set, nil
}

// GetSet returns store.ErrSetNotFound for an unknown ID.
func (a *Arranger) GetSet(ctx context.Context, id uuid.UUID) (*store.TaskSet, error) {
	set, err := a.store.GetSet(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, store.ErrSetNotFound
	}
	return set, nil
}

func (a *Arranger) ListSets(ctx context.Context) ([]*store.TaskSet, error) {
	return a.store.ListSets(ctx)
}

func (a *Arranger) AddTask(ctx context.Context, setID uuid.UUID, task scoring.Task) (*store.SetTask, error) {
	if err := task.Attributes().Validate(); err != nil {
		a.countError("invalid_attribute")
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	set, err := a.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.Arranged() {
		return nil, ErrSetArranged
	}
	if len(set.Tasks) >= a.cfg.Limits.MaxTasksPerSet {
		a.countError("set_full")
		return nil, ErrSetFull
	}

	st := &store.SetTask{Task: task}
	if err := a.store.AddTask(ctx, setID, st); err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.TasksCreated.WithLabelValues(setID.String()).Inc()
	}
	a.logger.Info("task added", "set_id", setID, "task_id", st.ID, "position", st.Position)
	a.publish(ctx, hermes.SubjectTaskAdded(setID.String()), hermes.TaskAddedEvent{
		SetID:       setID.String(),
		TaskID:      st.ID.String(),
		Description: st.Description,
		Position:    st.Position,
	})
	return st, nil
}

// Arrange ranks the tasks of a set and stores the result. A set is arranged
// at most once.
func (a *Arranger) Arrange(ctx context.Context, setID uuid.UUID) (*store.TaskSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	set, err := a.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.Arranged() {
		return nil, ErrSetArranged
	}
	if len(set.Tasks) == 0 {
		a.countError("empty_set")
		return nil, ErrEmptySet
	}

	tasks := make([]scoring.Task, len(set.Tasks))
	for i, t := range set.Tasks {
		tasks[i] = t.Task
	}

	var ranked []*store.RankedTask
	start := time.Now()
	arrange := func() error {
		model, err := train()
		if err != nil {
			return fmt.Errorf("train model: %w", err)
		}
		scored, err := a.classifier.ScoreAll(model, tasks)
		if err != nil {
			return err
		}
		for i, idx := range scoring.RankOrder(scored) {
			ranked = append(ranked, &store.RankedTask{
				TaskID:     set.Tasks[idx].ID,
				Rank:       i + 1,
				ScoredTask: scored[idx],
			})
		}
		return nil
	}
	if a.metrics != nil {
		err = a.metrics.ObserveArrangement(arrange)
	} else {
		err = arrange()
	}
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidAttribute) {
			a.countError("invalid_attribute")
		} else {
			a.countError("training")
		}
		return nil, err
	}
	elapsed := time.Since(start)

	if err := a.store.SaveRanking(ctx, setID, ranked); err != nil {
		return nil, err
	}

	entries := make([]hermes.RankedEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = hermes.RankedEntry{TaskID: r.TaskID.String(), Rank: r.Rank, Rating: r.Rating}
	}
	a.logger.Info("task set arranged", "set_id", setID, "tasks", len(ranked), "duration", elapsed)
	a.publish(ctx, hermes.SubjectSetArranged(setID.String()), hermes.SetArrangedEvent{
		SetID:      setID.String(),
		Ranking:    entries,
		DurationMs: elapsed.Milliseconds(),
	})

	return a.GetSet(ctx, setID)
}

// Complete records that a ranked task was done. Completing the same task again
// is a no-op and returns false.
func (a *Arranger) Complete(ctx context.Context, setID, taskID uuid.UUID) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	set, err := a.GetSet(ctx, setID)
	if err != nil {
		return false, err
	}
	if !set.Arranged() {
		return false, ErrSetNotArranged
	}
	var entry *store.RankedTask
	for _, r := range set.Ranked {
		if r.TaskID == taskID {
			entry = r
			break
		}
	}
	if entry == nil {
		return false, ErrTaskNotFound
	}

	recorded, err := a.store.RecordCompletion(ctx, setID, taskID)
	if err != nil || !recorded {
		return false, err
	}

	a.logger.Info("task completed", "set_id", setID, "task_id", taskID, "rank", entry.Rank, "position", len(set.Completions))
	a.publish(ctx, hermes.SubjectTaskCompleted(setID.String()), hermes.TaskCompletedEvent{
		SetID:    setID.String(),
		TaskID:   taskID.String(),
		Position: len(set.Completions),
		Rank:     entry.Rank,
	})
	return true, nil
}

// CompleteRank completes the task at the given 1-based rank.
func (a *Arranger) CompleteRank(ctx context.Context, setID uuid.UUID, rank int) (bool, error) {
	set, err := a.GetSet(ctx, setID)
	if err != nil {
		return false, err
	}
	if !set.Arranged() {
		return false, ErrSetNotArranged
	}
	if rank < 1 || rank > len(set.Ranked) {
		return false, ErrTaskNotFound
	}
	return a.Complete(ctx, setID, set.Ranked[rank-1].TaskID)
}

// Evaluation compares a set's arrangement with what was actually done.
// Accuracy is nil until every ranked task has been completed.
type Evaluation struct {
	SetID       uuid.UUID              `json:"set_id"`
	Accuracy    *evaluation.Accuracy   `json:"accuracy,omitempty"`
	Performance evaluation.Performance `json:"performance"`
}

func (a *Arranger) Evaluate(ctx context.Context, setID uuid.UUID) (*Evaluation, error) {
	set, err := a.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if !set.Arranged() {
		return nil, ErrSetNotArranged
	}
	return evaluate(set), nil
}

func evaluate(set *store.TaskSet) *Evaluation {
	ev := &Evaluation{
		SetID:       set.ID,
		Performance: evaluation.RatePerformance(len(set.Ranked), len(set.Completions)),
	}
	predicted := make([]uuid.UUID, len(set.Ranked))
	for i, r := range set.Ranked {
		predicted[i] = r.TaskID
	}
	actual := make([]uuid.UUID, len(set.Completions))
	for i, c := range set.Completions {
		actual[i] = c.TaskID
	}
	if acc, err := evaluation.RateAccuracy(predicted, actual); err == nil {
		ev.Accuracy = &acc
	}
	return ev
}

// Stats summarises completion across every arranged set. History holds one
// entry per arranged set in creation order; Trend compares its last two.
type Stats struct {
	Sets        int                      `json:"sets"`
	Arranged    int                      `json:"arranged"`
	Performance evaluation.Performance   `json:"performance"`
	History     []evaluation.Performance `json:"history"`
	Trend       *evaluation.Trend        `json:"trend,omitempty"`
}

func (a *Arranger) Stats(ctx context.Context) (*Stats, error) {
	sets, err := a.store.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{Sets: len(sets), History: []evaluation.Performance{}}
	for _, set := range sets {
		if !set.Arranged() {
			continue
		}
		st.Arranged++
		st.History = append(st.History, evaluate(set).Performance)
	}
	st.Performance = evaluation.Overall(st.History)
	st.Trend = evaluation.LatestTrend(st.History)
	return st, nil
}

// Reset removes every set.
func (a *Arranger) Reset(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, err := a.store.CountSets(ctx)
	if err != nil {
		return 0, err
	}
	if err := a.store.ResetSets(ctx); err != nil {
		return 0, err
	}
	a.logger.Warn("task sets reset", "sets", n)
	a.publish(ctx, hermes.SubjectSetsReset(), hermes.SetsResetEvent{Sets: n})
	return n, nil
}

// PublishStats sends the overall stats on the stats subject.
func (a *Arranger) PublishStats(ctx context.Context) error {
	st, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	return a.hermes.Publish(ctx, hermes.SubjectStats, hermes.StatsEvent{
		Sets:       st.Sets,
		Total:      st.Performance.Total,
		Completed:  st.Performance.Completed,
		Percentage: st.Performance.Percentage,
		Timestamp:  time.Now().UTC(),
	})
}

func (a *Arranger) publish(ctx context.Context, subject string, event interface{}) {
	if err := a.hermes.Publish(ctx, subject, event); err != nil {
		a.logger.Warn("failed to publish event", "subject", subject, "error", err)
		a.countError("publish")
	}
}

func (a *Arranger) countError(kind string) {
	if a.metrics != nil {
		a.metrics.Errors.WithLabelValues(kind).Inc()
	}
}
