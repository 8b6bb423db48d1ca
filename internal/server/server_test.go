package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/server"
)

type envelope struct {
	Status  string         `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func testServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Model.NEstimators = 10 // keep training cheap in tests
	table := dataset.Generate(200, 42)
	dataset.ComputeMetrics(table, cfg)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := server.New(cfg, table, log)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Status != "success" {
		t.Fatalf("expected success envelope, got %+v", env)
	}
	if env.Data["customers"].(float64) != 200 {
		t.Fatalf("expected 200 customers, got %v", env.Data["customers"])
	}
}

func TestOverview(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	kpis, ok := env.Data["kpis"].([]any)
	if !ok || len(kpis) != 4 {
		t.Fatalf("expected 4 KPIs, got %v", env.Data["kpis"])
	}
	charts, ok := env.Data["charts"].([]any)
	if !ok || len(charts) == 0 {
		t.Fatalf("expected charts, got %v", env.Data["charts"])
	}
}

func TestOverviewFilterNarrows(t *testing.T) {
	h := testServer(t)
	_, full := doJSON(t, h, http.MethodGet, "/api/v1/overview", "")
	_, filtered := doJSON(t, h, http.MethodGet, "/api/v1/overview?contracts=Two+Year&tenure_min=12", "")

	count := func(env envelope) float64 {
		kpis := env.Data["kpis"].([]any)
		first := kpis[0].(map[string]any)
		return first["value"].(float64)
	}
	if count(filtered) >= count(full) {
		t.Fatalf("filter should narrow the customer count: %v >= %v", count(filtered), count(full))
	}
}

func TestTrainEndpoint(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/train", `{"n_estimators": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	metrics, ok := env.Data["metrics"].(map[string]any)
	if !ok {
		t.Fatalf("expected metrics in response, got %v", env.Data)
	}
	acc, ok := metrics["accuracy"].(float64)
	if !ok || acc < 0 || acc > 1 {
		t.Fatalf("accuracy outside [0,1]: %v", metrics["accuracy"])
	}
	if _, ok := env.Data["importanceChart"]; !ok {
		t.Fatalf("expected importance chart in response")
	}
}

func TestPredictEndpoint(t *testing.T) {
	h := testServer(t)
	body := `{
		"gender": "Female",
		"tenure": 2,
		"contract_type": "Month-to-Month",
		"internet_service": "Fiber Optic",
		"payment_method": "Electronic Check",
		"phone_service": "Yes",
		"streaming_tv": "No",
		"streaming_movies": "No",
		"monthly_charges": 105,
		"satisfaction_score": 1.5
	}`
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/predict", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	prob, ok := env.Data["probability"].(float64)
	if !ok || prob < 0 || prob > 1 {
		t.Fatalf("probability outside [0,1]: %v", env.Data["probability"])
	}
	if env.Data["advice"] == "" {
		t.Fatalf("expected advice text")
	}
	if _, ok := env.Data["gauge"]; !ok {
		t.Fatalf("expected gauge chart")
	}
}

func TestPredictUnknownLevelIsUnprocessable(t *testing.T) {
	h := testServer(t)
	body := `{
		"gender": "Female",
		"tenure": 2,
		"contract_type": "Weekly",
		"internet_service": "Fiber Optic",
		"payment_method": "Electronic Check",
		"phone_service": "Yes",
		"streaming_tv": "No",
		"streaming_movies": "No",
		"monthly_charges": 105,
		"satisfaction_score": 1.5
	}`
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/predict", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Code != "SCHEMA_MISMATCH" {
		t.Fatalf("expected SCHEMA_MISMATCH, got %q", env.Code)
	}
}

func TestPredictBadJSON(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/predict", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Code != "MALFORMED_DATA" {
		t.Fatalf("expected MALFORMED_DATA, got %q", env.Code)
	}
}

func TestSegmentsEndpoint(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/segments?k=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	seg, ok := env.Data["segmentation"].(map[string]any)
	if !ok {
		t.Fatalf("expected segmentation, got %v", env.Data)
	}
	if seg["k"].(float64) != 3 {
		t.Fatalf("expected k=3, got %v", seg["k"])
	}
	profiles := seg["profiles"].([]any)
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
}

// A cached segmentation must render against its own labels: requesting k=3
// again after a k=6 run hits the memo, and the scatter still has exactly
// three series covering every customer.
func TestSegmentsMemoHitAfterDifferentK(t *testing.T) {
	h := testServer(t)
	for _, k := range []string{"3", "6", "3"} {
		rec, env := doJSON(t, h, http.MethodGet, "/api/v1/segments?k="+k, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("k=%s: expected 200, got %d: %s", k, rec.Code, rec.Body.String())
		}
		if env.Status != "success" {
			t.Fatalf("k=%s: expected success envelope", k)
		}
	}

	_, env := doJSON(t, h, http.MethodGet, "/api/v1/segments?k=3", "")
	charts := env.Data["charts"].([]any)
	scatter := charts[0].(map[string]any)
	series := scatter["series"].([]any)
	if len(series) != 3 {
		t.Fatalf("expected 3 scatter series, got %d", len(series))
	}
	points := 0
	for _, s := range series {
		if data, ok := s.(map[string]any)["data"].([]any); ok {
			points += len(data)
		}
	}
	if points != 200 {
		t.Fatalf("scatter should place every customer, got %d points", points)
	}
}

func TestSegmentsRejectsOutOfRangeK(t *testing.T) {
	h := testServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/segments?k=99", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Code != "MALFORMED_DATA" {
		t.Fatalf("expected MALFORMED_DATA, got %q", env.Code)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	h := testServer(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/analytics/recommendations", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", rec.Code)
	}

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/analytics/recommendations?customer_id=nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}
	if env.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %q", env.Code)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/analytics/recommendations?customer_id=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Data["customer"] != "1" {
		t.Fatalf("expected customer 1, got %v", env.Data["customer"])
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	h := testServer(t)
	for _, path := range []string{
		"/api/v1/analytics/clv",
		"/api/v1/analytics/risk",
		"/api/v1/analytics/engagement",
	} {
		rec, env := doJSON(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
		if env.Status != "success" {
			t.Fatalf("%s: expected success envelope", path)
		}
		if _, ok := env.Data["charts"]; !ok {
			t.Fatalf("%s: expected charts", path)
		}
	}
}

func TestExportCSV(t *testing.T) {
	h := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/overview.csv", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 201 { // header + 200 customers
		t.Fatalf("expected 201 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "CustomerID,") {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	rec2, _ := doJSON(t, h, http.MethodGet, "/api/v1/export/bogus.csv", "")
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("unknown report: expected 404, got %d", rec2.Code)
	}
}

func TestPagesRender(t *testing.T) {
	h := testServer(t)
	for _, path := range []string{"/", "/detailed", "/prediction", "/segments", "/analytics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<html") {
			t.Fatalf("%s: expected an HTML page", path)
		}
	}
}
