package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Arranger/internal/arranger"
	"github.com/MikeSquared-Agency/Arranger/internal/config"
	"github.com/MikeSquared-Agency/Arranger/internal/evaluation"
	"github.com/MikeSquared-Agency/Arranger/internal/hermes"
	"github.com/MikeSquared-Agency/Arranger/internal/metrics"
	"github.com/MikeSquared-Agency/Arranger/internal/store"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Server.AdminToken = "test-token"
	cfg.Limits.MaxSets = 2
	cfg.Limits.MaxTasksPerSet = 3
	m := metrics.New(prometheus.NewRegistry())
	a, err := arranger.New(store.NewMemoryStore(), hermes.Nop{}, m, cfg, logger)
	if err != nil {
		t.Fatalf("arranger.New: %v", err)
	}
	return NewRouter(a, m, cfg.Server, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

const (
	thesisJSON    = `{"description":"thesis","type":"Study/work","deadline":"1 day left","importance":"Very important","difficulty":"Hard"}`
	groceriesJSON = `{"description":"groceries","type":"Personal","deadline":"3 days left","importance":"Not important","difficulty":"Normal"}`
)

func createSet(t *testing.T, h http.Handler) store.TaskSet {
	t.Helper()
	w := do(t, h, "POST", "/api/v1/sets", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create set: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var set store.TaskSet
	json.NewDecoder(w.Body).Decode(&set)
	return set
}

func TestRankEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	body := `{"tasks":[` + groceriesJSON + `,` + thesisJSON + `]}`
	w := do(t, router, "POST", "/api/v1/rank", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp RankResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Ranked) != 2 {
		t.Fatalf("expected 2 ranked tasks, got %d", len(resp.Ranked))
	}
	if resp.Ranked[0].Description != "thesis" || resp.Ranked[0].Rating != 60 {
		t.Errorf("expected thesis rated 60 first, got %+v", resp.Ranked[0])
	}
	if resp.Ranked[1].Rating != 14 {
		t.Errorf("expected groceries rated 14, got %d", resp.Ranked[1].Rating)
	}
}

func TestRankEndpointInvalidAttribute(t *testing.T) {
	router := setupTestRouter(t)

	body := `{"tasks":[{"type":"Leisure","deadline":"1 day left","importance":"Very important","difficulty":"Hard"}]}`
	w := do(t, router, "POST", "/api/v1/rank", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRankEndpointBadJSON(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/rank", `{"tasks":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSetLifecycle(t *testing.T) {
	router := setupTestRouter(t)
	set := createSet(t, router)
	base := "/api/v1/sets/" + set.ID.String()

	for _, task := range []string{groceriesJSON, thesisJSON} {
		w := do(t, router, "POST", base+"/tasks", task)
		if w.Code != http.StatusCreated {
			t.Fatalf("add task: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := do(t, router, "POST", base+"/arrange", "")
	if w.Code != http.StatusOK {
		t.Fatalf("arrange: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var arranged store.TaskSet
	json.NewDecoder(w.Body).Decode(&arranged)
	if len(arranged.Ranked) != 2 || arranged.Ranked[0].Description != "thesis" {
		t.Fatalf("unexpected ranking: %+v", arranged.Ranked)
	}

	w = do(t, router, "POST", base+"/tasks", thesisJSON)
	if w.Code != http.StatusConflict {
		t.Errorf("add after arrange: expected 409, got %d", w.Code)
	}

	w = do(t, router, "POST", base+"/ranked/1/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("complete rank: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	path := fmt.Sprintf("%s/tasks/%s/complete", base, arranged.Ranked[1].TaskID)
	w = do(t, router, "POST", path, "")
	var cr CompleteResponse
	json.NewDecoder(w.Body).Decode(&cr)
	if w.Code != http.StatusOK || !cr.Completed {
		t.Fatalf("complete task: got %d %+v", w.Code, cr)
	}
	w = do(t, router, "POST", path, "")
	json.NewDecoder(w.Body).Decode(&cr)
	if cr.Completed {
		t.Error("second completion should report completed=false")
	}

	w = do(t, router, "GET", base+"/evaluation", "")
	if w.Code != http.StatusOK {
		t.Fatalf("evaluation: expected 200, got %d", w.Code)
	}
	var ev struct {
		Accuracy    *evaluation.Accuracy   `json:"accuracy"`
		Performance evaluation.Performance `json:"performance"`
	}
	json.NewDecoder(w.Body).Decode(&ev)
	if ev.Accuracy == nil || ev.Accuracy.Percentage != 100 {
		t.Errorf("expected 100%% accuracy, got %+v", ev.Accuracy)
	}
	if ev.Performance.Completed != 2 {
		t.Errorf("expected 2 completed, got %d", ev.Performance.Completed)
	}

	w = do(t, router, "GET", base, "")
	if w.Code != http.StatusOK {
		t.Errorf("get set: expected 200, got %d", w.Code)
	}
}

func TestAddTaskInvalidAttribute(t *testing.T) {
	router := setupTestRouter(t)
	set := createSet(t, router)

	body := strings.Replace(thesisJSON, `"Hard"`, `"Extreme"`, 1)
	w := do(t, router, "POST", "/api/v1/sets/"+set.ID.String()+"/tasks", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestArrangeEmptySet(t *testing.T) {
	router := setupTestRouter(t)
	set := createSet(t, router)

	w := do(t, router, "POST", "/api/v1/sets/"+set.ID.String()+"/arrange", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestSetLimit(t *testing.T) {
	router := setupTestRouter(t)
	createSet(t, router)
	createSet(t, router)

	w := do(t, router, "POST", "/api/v1/sets", "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestGetUnknownSet(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/sets/1b4e28ba-2fa1-11d2-883f-0016d3cca427", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	w = do(t, router, "GET", "/api/v1/sets/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListSetsEmpty(t *testing.T) {
	router := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/sets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestResetRequiresAdminToken(t *testing.T) {
	router := setupTestRouter(t)
	createSet(t, router)

	w := do(t, router, "DELETE", "/api/v1/sets", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	w = do(t, router, "DELETE", "/api/v1/sets", "", "Authorization", "Bearer test-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]int
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["reset"] != 1 {
		t.Errorf("expected 1 set reset, got %d", resp["reset"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	createSet(t, router)

	w := do(t, router, "GET", "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var st arranger.Stats
	json.NewDecoder(w.Body).Decode(&st)
	if st.Sets != 1 || st.Arranged != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/sets", nil)
	req.Header.Set("Origin", "https://planner.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("expected CORS headers, got %v", w.Header())
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("credentials must not be allowed, got %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter(prometheus.NewRegistry())
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetsCreated.Inc()

	w := httptest.NewRecorder()
	NewMetricsRouter(reg).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "arranger_sets_created_total 1") {
		t.Errorf("expected sets counter in output")
	}
}
