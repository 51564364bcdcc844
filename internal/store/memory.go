package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps task sets in process memory. It is used when no database
// is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	sets  map[uuid.UUID]*TaskSet
	order []uuid.UUID
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[uuid.UUID]*TaskSet), now: time.Now}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateSet(_ context.Context) (*TaskSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	set := &TaskSet{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	s.sets[set.ID] = set
	s.order = append(s.order, set.ID)
	return cloneSet(set), nil
}

func (s *MemoryStore) GetSet(_ context.Context, id uuid.UUID) (*TaskSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[id]
	if !ok {
		return nil, nil
	}
	return cloneSet(set), nil
}

func (s *MemoryStore) ListSets(_ context.Context) ([]*TaskSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*TaskSet, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneSet(s.sets[id]))
	}
	return out, nil
}

func (s *MemoryStore) CountSets(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets), nil
}

func (s *MemoryStore) AddTask(_ context.Context, setID uuid.UUID, task *SetTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return ErrSetNotFound
	}
	now := s.now()
	task.ID = uuid.New()
	task.SetID = setID
	task.Position = len(set.Tasks)
	task.CreatedAt = now
	stored := *task
	set.Tasks = append(set.Tasks, &stored)
	set.UpdatedAt = now
	return nil
}

func (s *MemoryStore) SaveRanking(_ context.Context, setID uuid.UUID, ranked []*RankedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return ErrSetNotFound
	}
	now := s.now()
	set.Ranked = make([]*RankedTask, len(ranked))
	for i, r := range ranked {
		c := *r
		set.Ranked[i] = &c
	}
	set.ArrangedAt = &now
	set.UpdatedAt = now
	return nil
}

func (s *MemoryStore) RecordCompletion(_ context.Context, setID, taskID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return false, ErrSetNotFound
	}
	if set.IsCompleted(taskID) {
		return false, nil
	}
	now := s.now()
	set.Completions = append(set.Completions, &Completion{
		TaskID:      taskID,
		Position:    len(set.Completions),
		CompletedAt: now,
	})
	set.UpdatedAt = now
	return true, nil
}

func (s *MemoryStore) ResetSets(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = make(map[uuid.UUID]*TaskSet)
	s.order = nil
	return nil
}

func cloneSet(set *TaskSet) *TaskSet {
	c := *set
	c.Tasks = make([]*SetTask, len(set.Tasks))
	for i, t := range set.Tasks {
		tc := *t
		c.Tasks[i] = &tc
	}
	if set.Ranked != nil {
		c.Ranked = make([]*RankedTask, len(set.Ranked))
		for i, r := range set.Ranked {
			rc := *r
			c.Ranked[i] = &rc
		}
	}
	if set.Completions != nil {
		c.Completions = make([]*Completion, len(set.Completions))
		for i, cm := range set.Completions {
			cc := *cm
			c.Completions[i] = &cc
		}
	}
	if set.ArrangedAt != nil {
		at := *set.ArrangedAt
		c.ArrangedAt = &at
	}
	return &c
}
