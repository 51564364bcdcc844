package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Arranger/internal/arranger"
	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
	"github.com/MikeSquared-Agency/Arranger/internal/store"
)

type SetsHandler struct {
	arranger *arranger.Arranger
}

func NewSetsHandler(a *arranger.Arranger) *SetsHandler {
	return &SetsHandler{arranger: a}
}

func (h *SetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	set, err := h.arranger.CreateSet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (h *SetsHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.arranger.ListSets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if sets == nil {
		sets = []*store.TaskSet{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *SetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	set, err := h.arranger.GetSet(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *SetsHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	var task scoring.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	st, err := h.arranger.AddTask(r.Context(), id, task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *SetsHandler) Arrange(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	set, err := h.arranger.Arrange(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

type CompleteResponse struct {
	Completed bool `json:"completed"`
}

func (h *SetsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task id"})
		return
	}

	done, err := h.arranger.Complete(r.Context(), id, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompleteResponse{Completed: done})
}

func (h *SetsHandler) CompleteRank(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rank"})
		return
	}

	done, err := h.arranger.CompleteRank(r.Context(), id, rank)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompleteResponse{Completed: done})
}

func (h *SetsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, ok := setID(w, r)
	if !ok {
		return
	}
	ev, err := h.arranger.Evaluate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *SetsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.arranger.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *SetsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.arranger.Reset(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"reset": n})
}

func setID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set id"})
		return uuid.Nil, false
	}
	return id, true
}
