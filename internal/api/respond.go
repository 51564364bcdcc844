package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Arranger/internal/arranger"
	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
	"github.com/MikeSquared-Agency/Arranger/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, scoring.ErrInvalidAttribute):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrSetNotFound), errors.Is(err, arranger.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, arranger.ErrSetLimit),
		errors.Is(err, arranger.ErrSetFull),
		errors.Is(err, arranger.ErrSetArranged),
		errors.Is(err, arranger.ErrSetNotArranged):
		status = http.StatusConflict
	case errors.Is(err, arranger.ErrEmptySet):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
