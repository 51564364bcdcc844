package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/Arranger/internal/arranger"
	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
)

// RankHandler ranks an ad hoc batch of tasks without storing anything.
type RankHandler struct {
	arranger *arranger.Arranger
}

func NewRankHandler(a *arranger.Arranger) *RankHandler {
	return &RankHandler{arranger: a}
}

type RankRequest struct {
	Tasks []scoring.Task `json:"tasks"`
}

type RankResponse struct {
	Ranked []scoring.ScoredTask `json:"ranked"`
}

func (h *RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ranked, err := h.arranger.Rank(req.Tasks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RankResponse{Ranked: ranked})
}
