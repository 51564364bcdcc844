package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
)

// Schema creates the tables used by PostgresStore.
const Schema = `
CREATE TABLE IF NOT EXISTS arrange_sets (
	set_id      UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	arranged_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS arrange_tasks (
	task_id     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	set_id      UUID NOT NULL REFERENCES arrange_sets(set_id) ON DELETE CASCADE,
	position    INT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	task_type   TEXT NOT NULL,
	deadline    TEXT NOT NULL,
	importance  TEXT NOT NULL,
	difficulty  TEXT NOT NULL,
	checkbox    TEXT NOT NULL DEFAULT '',
	rank        INT,
	rating      INT,
	base_score  INT,
	bonus       INT,
	exact_match BOOLEAN,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (set_id, position)
);

CREATE TABLE IF NOT EXISTS arrange_completions (
	task_id      UUID PRIMARY KEY REFERENCES arrange_tasks(task_id) ON DELETE CASCADE,
	set_id       UUID NOT NULL REFERENCES arrange_sets(set_id) ON DELETE CASCADE,
	position     INT NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

// closePool releases a pool that failed its first ping.
var closePool = func(p *pgxpool.Pool) { p.Close() }

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate applies Schema. It is safe to run repeatedly.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSet(ctx context.Context) (*TaskSet, error) {
	set := &TaskSet{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO arrange_sets DEFAULT VALUES
		RETURNING set_id, created_at, updated_at`,
	).Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create set: %w", err)
	}
	set.Tasks = []*SetTask{}
	return set, nil
}

func (s *PostgresStore) GetSet(ctx context.Context, id uuid.UUID) (*TaskSet, error) {
	set := &TaskSet{}
	err := s.pool.QueryRow(ctx, `
		SELECT set_id, created_at, updated_at, arranged_at
		FROM arrange_sets WHERE set_id = $1`, id,
	).Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt, &set.ArrangedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *PostgresStore) ListSets(ctx context.Context) ([]*TaskSet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT set_id, created_at, updated_at, arranged_at
		FROM arrange_sets ORDER BY created_at ASC, set_id ASC`)
	if err != nil {
		return nil, err
	}
	var sets []*TaskSet
	for rows.Next() {
		set := &TaskSet{}
		if err := rows.Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt, &set.ArrangedAt); err != nil {
			rows.Close()
			return nil, err
		}
		sets = append(sets, set)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, set := range sets {
		if err := s.loadSet(ctx, set); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func (s *PostgresStore) CountSets(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM arrange_sets`).Scan(&n)
	return n, err
}

// loadSet fills tasks, ranking and completions of a set already read.
func (s *PostgresStore) loadSet(ctx context.Context, set *TaskSet) error {
	rows, err := s.pool.Query(ctx, `
		SELECT task_id, position, description, task_type, deadline, importance, difficulty,
			checkbox, rank, rating, base_score, bonus, exact_match, created_at
		FROM arrange_tasks WHERE set_id = $1 ORDER BY position ASC`, set.ID)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	set.Tasks = []*SetTask{}
	var ranked []*RankedTask
	for rows.Next() {
		t := &SetTask{SetID: set.ID}
		var rank, rating, base, bonus sql.NullInt32
		var exact sql.NullBool
		if err := rows.Scan(
			&t.ID, &t.Position, &t.Description, &t.Type, &t.Deadline, &t.Importance, &t.Difficulty,
			&t.Checkbox, &rank, &rating, &base, &bonus, &exact, &t.CreatedAt,
		); err != nil {
			return err
		}
		set.Tasks = append(set.Tasks, t)
		if rank.Valid {
			ranked = append(ranked, &RankedTask{
				TaskID: t.ID,
				Rank:   int(rank.Int32),
				ScoredTask: scoring.ScoredTask{
					Task:      t.Task,
					Rating:    int(rating.Int32),
					BaseScore: int(base.Int32),
					Bonus:     int(bonus.Int32),
					Exact:     exact.Bool,
					Factors:   scoring.Factors(t.Task),
				},
			})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if set.ArrangedAt != nil {
		set.Ranked = make([]*RankedTask, len(ranked))
		for _, r := range ranked {
			if r.Rank < 1 || r.Rank > len(ranked) {
				return fmt.Errorf("set %s: rank %d out of range", set.ID, r.Rank)
			}
			set.Ranked[r.Rank-1] = r
		}
	}

	crows, err := s.pool.Query(ctx, `
		SELECT task_id, position, completed_at
		FROM arrange_completions WHERE set_id = $1 ORDER BY position ASC`, set.ID)
	if err != nil {
		return fmt.Errorf("load completions: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		c := &Completion{}
		if err := crows.Scan(&c.TaskID, &c.Position, &c.CompletedAt); err != nil {
			return err
		}
		set.Completions = append(set.Completions, c)
	}
	return crows.Err()
}

func (s *PostgresStore) AddTask(ctx context.Context, setID uuid.UUID, task *SetTask) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockSet(ctx, tx, setID); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO arrange_tasks (set_id, position, description, task_type, deadline, importance, difficulty, checkbox)
		VALUES ($1, (SELECT count(*) FROM arrange_tasks WHERE set_id = $1), $2, $3, $4, $5, $6, $7)
		RETURNING task_id, position, created_at`,
		setID, task.Description, task.Type, task.Deadline, task.Importance, task.Difficulty, task.Checkbox,
	).Scan(&task.ID, &task.Position, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.SetID = setID

	if _, err := tx.Exec(ctx, `UPDATE arrange_sets SET updated_at = now() WHERE set_id = $1`, setID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) SaveRanking(ctx context.Context, setID uuid.UUID, ranked []*RankedTask) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockSet(ctx, tx, setID); err != nil {
		return err
	}

	for _, r := range ranked {
		tag, err := tx.Exec(ctx, `
			UPDATE arrange_tasks
			SET rank = $1, rating = $2, base_score = $3, bonus = $4, exact_match = $5
			WHERE task_id = $6 AND set_id = $7`,
			r.Rank, r.Rating, r.BaseScore, r.Bonus, r.Exact, r.TaskID, setID,
		)
		if err != nil {
			return fmt.Errorf("save rank: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("save rank: task %s not in set %s", r.TaskID, setID)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE arrange_sets SET arranged_at = now(), updated_at = now() WHERE set_id = $1`, setID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) RecordCompletion(ctx context.Context, setID, taskID uuid.UUID) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if err := lockSet(ctx, tx, setID); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO arrange_completions (task_id, set_id, position)
		VALUES ($1, $2, (SELECT count(*) FROM arrange_completions WHERE set_id = $2))
		ON CONFLICT (task_id) DO NOTHING`,
		taskID, setID,
	)
	if err != nil {
		return false, fmt.Errorf("record completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, `UPDATE arrange_sets SET updated_at = now() WHERE set_id = $1`, setID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *PostgresStore) ResetSets(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE arrange_completions, arrange_tasks, arrange_sets`)
	return err
}

// lockSet serialises writers of one set and reports ErrSetNotFound.
func lockSet(ctx context.Context, tx pgx.Tx, setID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT set_id FROM arrange_sets WHERE set_id = $1 FOR UPDATE`, setID).Scan(&id)
	if err == pgx.ErrNoRows {
		return ErrSetNotFound
	}
	return err
}
