package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
)

func sampleTask(desc string) *SetTask {
	return &SetTask{Task: scoring.Task{
		Description: desc,
		Type:        scoring.TypePersonal,
		Deadline:    scoring.Deadline1Day,
		Importance:  scoring.ImportanceQuite,
		Difficulty:  scoring.DifficultyNormal,
	}}
}

func TestMemoryStoreSetLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	set, err := s.CreateSet(ctx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, set.ID)
	assert.False(t, set.Arranged())

	first, second := sampleTask("first"), sampleTask("second")
	require.NoError(t, s.AddTask(ctx, set.ID, first))
	require.NoError(t, s.AddTask(ctx, set.ID, second))
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, set.ID, second.SetID)

	got, err := s.GetSet(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "first", got.Tasks[0].Description)

	ranked := []*RankedTask{
		{TaskID: second.ID, Rank: 1, ScoredTask: scoring.ScoredTask{Task: second.Task, Rating: 20}},
		{TaskID: first.ID, Rank: 2, ScoredTask: scoring.ScoredTask{Task: first.Task, Rating: 18}},
	}
	require.NoError(t, s.SaveRanking(ctx, set.ID, ranked))

	ok, err := s.RecordCompletion(ctx, set.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.RecordCompletion(ctx, set.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second completion of the same task is a no-op")

	got, err = s.GetSet(ctx, set.ID)
	require.NoError(t, err)
	assert.True(t, got.Arranged())
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, second.ID, got.Ranked[0].TaskID)
	require.Len(t, got.Completions, 1)
	assert.Equal(t, first.ID, got.Completions[0].TaskID)
	assert.True(t, got.IsCompleted(first.ID))
	assert.False(t, got.IsCompleted(second.ID))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set, _ := s.CreateSet(ctx)
	require.NoError(t, s.AddTask(ctx, set.ID, sampleTask("keep")))

	got, _ := s.GetSet(ctx, set.ID)
	got.Tasks[0].Description = "mutated"

	again, _ := s.GetSet(ctx, set.ID)
	assert.Equal(t, "keep", again.Tasks[0].Description)
}

func TestMemoryStoreMissingSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := uuid.New()

	got, err := s.GetSet(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, s.AddTask(ctx, id, sampleTask("x")), ErrSetNotFound)
	assert.ErrorIs(t, s.SaveRanking(ctx, id, nil), ErrSetNotFound)
	_, err = s.RecordCompletion(ctx, id, uuid.New())
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestMemoryStoreListAndReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		set, err := s.CreateSet(ctx)
		require.NoError(t, err)
		ids = append(ids, set.ID)
	}

	sets, err := s.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	for i, set := range sets {
		assert.Equal(t, ids[i], set.ID, "sets listed in creation order")
	}
	n, _ := s.CountSets(ctx)
	assert.Equal(t, 3, n)

	require.NoError(t, s.ResetSets(ctx))
	n, _ = s.CountSets(ctx)
	assert.Equal(t, 0, n)
	sets, _ = s.ListSets(ctx)
	assert.Empty(t, sets)
}

func TestNewPostgresStoreClosesPoolWhenPingFails(t *testing.T) {
	var closed int
	orig := closePool
	closePool = func(p *pgxpool.Pool) {
		closed++
		orig(p)
	}
	t.Cleanup(func() { closePool = orig })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := NewPostgresStore(ctx, "postgres://arranger@127.0.0.1:1/arranger?connect_timeout=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
	assert.Nil(t, s)
	assert.Equal(t, 1, closed)
}
