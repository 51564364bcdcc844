package hermes

import "time"

type SetCreatedEvent struct {
	SetID     string    `json:"set_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskAddedEvent struct {
	SetID       string `json:"set_id"`
	TaskID      string `json:"task_id"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
}

type RankedEntry struct {
	TaskID string `json:"task_id"`
	Rank   int    `json:"rank"`
	Rating int    `json:"rating"`
}

type SetArrangedEvent struct {
	SetID      string        `json:"set_id"`
	Ranking    []RankedEntry `json:"ranking"`
	DurationMs int64         `json:"duration_ms"`
}

type TaskCompletedEvent struct {
	SetID    string `json:"set_id"`
	TaskID   string `json:"task_id"`
	Position int    `json:"position"`
	Rank     int    `json:"rank"`
}

type SetsResetEvent struct {
	Sets int `json:"sets"`
}

type StatsEvent struct {
	Sets       int       `json:"sets"`
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Percentage float64   `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}
